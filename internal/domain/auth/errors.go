package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrCannotDeleteSelf   = errors.New("cannot delete own account")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrNotTeacher         = errors.New("user is not a teacher")
)
