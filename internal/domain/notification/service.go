package notification

import (
	"context"
	"fmt"

	"edushareqa/internal/pkg/logger"
	"edushareqa/internal/pkg/pagination"

	"go.uber.org/zap"
)

// Publisher pushes events to live clients.
type Publisher interface {
	Push(userID int64, event Event)
}

type Service struct {
	repo *Repository
	pub  Publisher
	log  *zap.Logger
}

// NewService wires the store and an optional live publisher.
func NewService(repo *Repository, pub Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, pub: pub, log: log.Named("notification")}
}

func (s *Service) Create(ctx context.Context, n *Notification) error {
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	if s.pub != nil {
		s.pub.Push(n.UserID, Event{Type: EventNotification, Payload: n})
	}
	return nil
}

// NotifyAnswered tells the question's author that an answer was posted.
func (s *Service) NotifyAnswered(ctx context.Context, studentID, questionID, answerID int64, questionTitle string) error {
	err := s.Create(ctx, &Notification{
		UserID:     studentID,
		Type:       TypeAnswer,
		Title:      "Your question has a new answer",
		Content:    fmt.Sprintf("A teacher answered \"%s\"", questionTitle),
		QuestionID: &questionID,
		AnswerID:   &answerID,
	})
	if err != nil {
		logger.FromContext(ctx, s.log).Error("notify answered",
			zap.Int64("question_id", questionID), zap.Error(err))
	}
	return err
}

func (s *Service) List(ctx context.Context, userID int64, p pagination.Params) ([]Notification, int64, int64, error) {
	items, total, err := s.repo.ListByUser(ctx, userID, p.Normalize())
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return items, total, unread, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	if err := s.repo.MarkAsRead(ctx, id, userID); err != nil {
		return err
	}
	s.pushUnread(ctx, userID)
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.pushUnread(ctx, userID)
	return n, nil
}

func (s *Service) pushUnread(ctx context.Context, userID int64) {
	if s.pub == nil {
		return
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return
	}
	s.pub.Push(userID, Event{Type: EventUnreadCount, Payload: map[string]int64{"count": count}})
}
