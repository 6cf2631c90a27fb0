package qa

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"edushareqa/internal/domain/course"
	"edushareqa/internal/pkg/logger"
	"edushareqa/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FileStore interface {
	StoreFile(ctx context.Context, c storage.Category, fh *multipart.FileHeader) (*storage.StoredFile, error)
	Delete(raw string) error
	Discard(refs ...string)
}

type CourseLookup interface {
	Get(ctx context.Context, id int64) (*course.Course, error)
	TeacherCourseIDs(ctx context.Context, teacherID int64) ([]int64, error)
	IsTeacherOf(ctx context.Context, courseID, teacherID int64) (bool, error)
}

// Notifier tells a student that their question got an answer.
type Notifier interface {
	NotifyAnswered(ctx context.Context, studentID, questionID, answerID int64, questionTitle string) error
}

// ResourceCounter counts the live resources a user has uploaded.
type ResourceCounter interface {
	CountByUploader(ctx context.Context, uploaderID int64) (int64, error)
}

type Service struct {
	db        *gorm.DB
	repo      *Repository
	files     FileStore
	courses   CourseLookup
	resources ResourceCounter
	notifier  Notifier
	log       *zap.Logger
}

func NewService(db *gorm.DB, files FileStore, courses CourseLookup, resources ResourceCounter, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:        db,
		repo:      NewRepository(db),
		files:     files,
		courses:   courses,
		resources: resources,
		notifier:  notifier,
		log:       log.Named("qa"),
	}
}

// CreateQuestion stores the attachments and then inserts the question with
// its attachment rows in one transaction. Stored files are discarded when
// anything after them fails.
func (s *Service) CreateQuestion(ctx context.Context, studentID int64, req QuestionRequest, files []*multipart.FileHeader) (*Question, error) {
	if _, err := s.courses.Get(ctx, req.CourseID); err != nil {
		return nil, err
	}

	stored, err := s.storeAll(ctx, storage.CategoryQuestionAttachments, files)
	if err != nil {
		return nil, err
	}

	q := &Question{
		CourseID:  req.CourseID,
		StudentID: studentID,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Status:    StatusOpen,
	}
	for _, f := range stored {
		q.Attachments = append(q.Attachments, QuestionAttachment{
			FilePath: f.Reference,
			FileName: f.OriginalName,
			FileType: f.ContentType,
			FileSize: f.Size,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(q).Error
	})
	if err != nil {
		s.files.Discard(references(stored)...)
		return nil, fmt.Errorf("save question: %w", err)
	}

	logger.FromContext(ctx, s.log).Info("question created",
		zap.Int64("id", q.ID),
		zap.Int64("course_id", q.CourseID),
		zap.Int("attachments", len(q.Attachments)),
	)
	return q, nil
}

// UpdateQuestion edits an OPEN question owned by studentID. Empty fields
// are left unchanged.
func (s *Service) UpdateQuestion(ctx context.Context, studentID, id int64, req UpdateQuestionRequest) (*Question, error) {
	q, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.StudentID != studentID {
		return nil, ErrNotOwner
	}
	if q.Status != StatusOpen {
		return nil, ErrQuestionLocked
	}
	if req.CourseID > 0 && req.CourseID != q.CourseID {
		if _, err := s.courses.Get(ctx, req.CourseID); err != nil {
			return nil, err
		}
		q.CourseID = req.CourseID
	}
	if t := strings.TrimSpace(req.Title); t != "" {
		q.Title = t
	}
	if strings.TrimSpace(req.Content) != "" {
		q.Content = req.Content
	}
	if err := s.db.WithContext(ctx).Save(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) ListOwn(ctx context.Context, studentID int64, f Filter) ([]Question, int64, error) {
	f.StudentID = studentID
	f.CourseIDs = nil
	return s.list(ctx, f)
}

// TeacherList lists the questions of every course the teacher teaches.
func (s *Service) TeacherList(ctx context.Context, teacherID int64, f Filter) ([]Question, int64, error) {
	ids, err := s.courses.TeacherCourseIDs(ctx, teacherID)
	if err != nil {
		return nil, 0, err
	}
	if ids == nil {
		ids = []int64{}
	}
	f.StudentID = 0
	f.CourseIDs = ids
	return s.list(ctx, f)
}

func (s *Service) AdminList(ctx context.Context, f Filter) ([]Question, int64, error) {
	f.CourseIDs = nil
	return s.list(ctx, f)
}

func (s *Service) list(ctx context.Context, f Filter) ([]Question, int64, error) {
	f.Params = f.Params.Normalize()
	f.Keyword = strings.TrimSpace(f.Keyword)
	return s.repo.ListQuestions(ctx, f)
}

func (s *Service) Detail(ctx context.Context, id int64) (*Question, []Answer, error) {
	return s.repo.GetDetail(ctx, id)
}

// TeacherDetail is Detail restricted to teachers of the question's course.
func (s *Service) TeacherDetail(ctx context.Context, teacherID, id int64) (*Question, []Answer, error) {
	q, answers, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if err := s.requireTeacher(ctx, q.CourseID, teacherID); err != nil {
		return nil, nil, err
	}
	return q, answers, nil
}

// CreateAnswer stores the attachments, then inserts the answer and marks
// the question ANSWERED in one transaction. The student is notified after
// the commit; a failed notification does not fail the answer.
func (s *Service) CreateAnswer(ctx context.Context, teacherID int64, req AnswerRequest, files []*multipart.FileHeader) (*Answer, error) {
	q, err := s.repo.GetQuestion(ctx, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if q.Status == StatusClosed {
		return nil, ErrQuestionClosed
	}
	if err := s.requireTeacher(ctx, q.CourseID, teacherID); err != nil {
		return nil, err
	}

	stored, err := s.storeAll(ctx, storage.CategoryAnswerAttachments, files)
	if err != nil {
		return nil, err
	}

	a := &Answer{
		QuestionID:  q.ID,
		TeacherID:   teacherID,
		Content:     req.Content,
		IsPublished: true,
	}
	for _, f := range stored {
		a.Attachments = append(a.Attachments, AnswerAttachment{
			FilePath: f.Reference,
			FileName: f.OriginalName,
			FileType: f.ContentType,
			FileSize: f.Size,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return tx.Model(&Question{}).Where("id = ?", q.ID).Updates(map[string]any{
			"status":       StatusAnswered,
			"answer_count": gorm.Expr("answer_count + 1"),
		}).Error
	})
	if err != nil {
		s.files.Discard(references(stored)...)
		return nil, fmt.Errorf("save answer: %w", err)
	}

	log := logger.FromContext(ctx, s.log)
	log.Info("question answered", zap.Int64("question_id", q.ID), zap.Int64("answer_id", a.ID))

	if s.notifier != nil {
		if err := s.notifier.NotifyAnswered(ctx, q.StudentID, q.ID, a.ID, q.Title); err != nil {
			log.Error("notify student", zap.Int64("question_id", q.ID), zap.Error(err))
		}
	}
	return a, nil
}

// DeleteAnswer removes an answer written by teacherID. The question goes
// back to OPEN when its last answer is removed.
func (s *Service) DeleteAnswer(ctx context.Context, teacherID, id int64) error {
	a, err := s.repo.GetAnswer(ctx, id)
	if err != nil {
		return err
	}
	if a.TeacherID != teacherID {
		return ErrNotOwner
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", a.ID).Delete(&AnswerAttachment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Answer{}, a.ID).Error; err != nil {
			return err
		}

		q, err := getQuestion(tx, a.QuestionID)
		if err != nil {
			return err
		}
		count := q.AnswerCount - 1
		if count < 0 {
			count = 0
		}
		updates := map[string]any{"answer_count": count}
		if count == 0 && q.Status == StatusAnswered {
			updates["status"] = StatusOpen
		}
		return tx.Model(&Question{}).Where("id = ?", q.ID).Updates(updates).Error
	})
	if err != nil {
		return err
	}

	refs := make([]string, 0, len(a.Attachments))
	for _, att := range a.Attachments {
		refs = append(refs, att.FilePath)
	}
	s.removeFiles(ctx, refs)
	logger.FromContext(ctx, s.log).Info("answer deleted", zap.Int64("id", a.ID), zap.Int64("question_id", a.QuestionID))
	return nil
}

// DeleteQuestion removes a question owned by studentID.
func (s *Service) DeleteQuestion(ctx context.Context, studentID, id int64) error {
	q, err := s.repo.GetQuestion(ctx, id)
	if err != nil {
		return err
	}
	if q.StudentID != studentID {
		return ErrNotOwner
	}
	return s.removeQuestion(ctx, q.ID)
}

func (s *Service) AdminDeleteQuestion(ctx context.Context, id int64) error {
	if _, err := s.repo.GetQuestion(ctx, id); err != nil {
		return err
	}
	return s.removeQuestion(ctx, id)
}

// removeQuestion deletes the rows first and the files after the commit.
func (s *Service) removeQuestion(ctx context.Context, id int64) error {
	var refs []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		refs, err = deleteQuestionTree(tx, id)
		return err
	})
	if err != nil {
		return err
	}
	s.removeFiles(ctx, refs)
	logger.FromContext(ctx, s.log).Info("question deleted", zap.Int64("id", id), zap.Int("files", len(refs)))
	return nil
}

func (s *Service) requireTeacher(ctx context.Context, courseID, teacherID int64) error {
	ok, err := s.courses.IsTeacherOf(ctx, courseID, teacherID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotCourseTeacher
	}
	return nil
}

// storeAll stores every part or none of them.
func (s *Service) storeAll(ctx context.Context, c storage.Category, files []*multipart.FileHeader) ([]*storage.StoredFile, error) {
	stored := make([]*storage.StoredFile, 0, len(files))
	for _, fh := range files {
		f, err := s.files.StoreFile(ctx, c, fh)
		if err != nil {
			s.files.Discard(references(stored)...)
			return nil, err
		}
		stored = append(stored, f)
	}
	return stored, nil
}

func (s *Service) removeFiles(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.files.Delete(ref); err != nil {
			logger.FromContext(ctx, s.log).Warn("remove attachment file", zap.String("reference", ref), zap.Error(err))
		}
	}
}

func references(files []*storage.StoredFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Reference)
	}
	return out
}
