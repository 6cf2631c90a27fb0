package notification

import "time"

type Type string

const (
	// TypeAnswer tells a student that a teacher answered their question.
	TypeAnswer Type = "ANSWER"
)

type Notification struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"id"`
	UserID     int64     `gorm:"column:user_id;not null;index:idx_notifications_user_unread" json:"userId"`
	Type       Type      `gorm:"column:type;size:32;not null" json:"type"`
	Title      string    `gorm:"column:title;size:255;not null" json:"title"`
	Content    string    `gorm:"column:content;type:text" json:"content"`
	QuestionID *int64    `gorm:"column:question_id" json:"questionId,omitempty"`
	AnswerID   *int64    `gorm:"column:answer_id" json:"answerId,omitempty"`
	IsRead     bool      `gorm:"column:is_read;not null;default:false;index:idx_notifications_user_unread" json:"isRead"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
