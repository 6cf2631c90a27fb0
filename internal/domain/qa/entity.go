package qa

import "time"

type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusAnswered Status = "ANSWERED"
	StatusClosed   Status = "CLOSED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusAnswered, StatusClosed:
		return true
	}
	return false
}

// Question is asked by a student within a course.
type Question struct {
	ID          int64                `gorm:"primaryKey"`
	CourseID    int64                `gorm:"not null;index"`
	StudentID   int64                `gorm:"not null;index"`
	Title       string               `gorm:"size:255;not null"`
	Content     string               `gorm:"type:text"`
	Status      Status               `gorm:"size:16;not null;default:OPEN;index"`
	AnswerCount int                  `gorm:"not null;default:0"`
	Attachments []QuestionAttachment `gorm:"foreignKey:QuestionID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Question) TableName() string { return "questions" }

// QuestionAttachment points at a file stored under question-attachments.
type QuestionAttachment struct {
	ID         int64  `gorm:"primaryKey"`
	QuestionID int64  `gorm:"not null;index"`
	FilePath   string `gorm:"size:512;not null"`
	FileName   string `gorm:"size:255"`
	FileType   string `gorm:"size:128"`
	FileSize   int64
	CreatedAt  time.Time
}

func (QuestionAttachment) TableName() string { return "question_attachments" }

type Answer struct {
	ID          int64              `gorm:"primaryKey"`
	QuestionID  int64              `gorm:"not null;index"`
	TeacherID   int64              `gorm:"not null;index"`
	Content     string             `gorm:"type:text;not null"`
	IsPublished bool               `gorm:"not null;default:true"`
	Attachments []AnswerAttachment `gorm:"foreignKey:AnswerID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Answer) TableName() string { return "answers" }

type AnswerAttachment struct {
	ID        int64  `gorm:"primaryKey"`
	AnswerID  int64  `gorm:"not null;index"`
	FilePath  string `gorm:"size:512;not null"`
	FileName  string `gorm:"size:255"`
	FileType  string `gorm:"size:128"`
	FileSize  int64
	CreatedAt time.Time
}

func (AnswerAttachment) TableName() string { return "answer_attachments" }

func Models() []any {
	return []any{&Question{}, &QuestionAttachment{}, &Answer{}, &AnswerAttachment{}}
}
