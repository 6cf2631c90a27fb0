package course

import "errors"

var (
	ErrCourseNotFound    = errors.New("course not found")
	ErrCodeAlreadyExists = errors.New("course code already exists")
	ErrAlreadyAssigned   = errors.New("teacher already assigned to course")
	ErrAlreadyEnrolled   = errors.New("student already enrolled in course")
	ErrNotTeacher        = errors.New("user is not a teacher")
	ErrNotStudent        = errors.New("user is not a student")
	ErrMembershipMissing = errors.New("membership not found")
)
