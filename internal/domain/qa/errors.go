package qa

import "errors"

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrNotOwner         = errors.New("not the author")
	ErrNotCourseTeacher = errors.New("not a teacher of this course")
	ErrQuestionLocked   = errors.New("question is no longer open")
	ErrQuestionClosed   = errors.New("question is closed")
)
