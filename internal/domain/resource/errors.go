package resource

import "errors"

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrFileNotFound     = errors.New("resource file not found")
	ErrNotOwner         = errors.New("you do not own this resource")
	ErrInvalidMetadata  = errors.New("invalid resource metadata")
)
