package qa

import (
	"context"
	"errors"

	"edushareqa/internal/pkg/pagination"

	"gorm.io/gorm"
)

type Filter struct {
	StudentID int64
	CourseID  int64
	// CourseIDs limits results to a set of courses; a non-nil empty slice
	// matches nothing.
	CourseIDs []int64
	Status    Status
	Keyword   string
	pagination.Params
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListQuestions(ctx context.Context, f Filter) ([]Question, int64, error) {
	if f.CourseIDs != nil && len(f.CourseIDs) == 0 {
		return []Question{}, 0, nil
	}

	q := r.db.WithContext(ctx).Model(&Question{})
	if f.StudentID > 0 {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.CourseID > 0 {
		q = q.Where("course_id = ?", f.CourseID)
	}
	if len(f.CourseIDs) > 0 {
		q = q.Where("course_id IN ?", f.CourseIDs)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Keyword != "" {
		kw := "%" + f.Keyword + "%"
		q = q.Where("(title LIKE ? OR content LIKE ?)", kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Question
	err := q.Order("created_at DESC, id DESC").Offset(f.Offset()).Limit(f.PageSize).Find(&out).Error
	return out, total, err
}

func (r *Repository) GetQuestion(ctx context.Context, id int64) (*Question, error) {
	return getQuestion(r.db.WithContext(ctx), id)
}

// GetDetail loads a question with its attachments and its published
// answers, oldest first.
func (r *Repository) GetDetail(ctx context.Context, id int64) (*Question, []Answer, error) {
	db := r.db.WithContext(ctx)
	var q Question
	err := db.Preload("Attachments", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var answers []Answer
	err = db.Preload("Attachments", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Where("question_id = ? AND is_published = ?", id, true).
		Order("created_at ASC, id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, nil, err
	}
	return &q, answers, nil
}

func (r *Repository) GetAnswer(ctx context.Context, id int64) (*Answer, error) {
	var a Answer
	err := r.db.WithContext(ctx).Preload("Attachments").First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func getQuestion(db *gorm.DB, id int64) (*Question, error) {
	var q Question
	err := db.First(&q, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// deleteQuestionTree removes a question with its answers and every
// attachment row, returning the stored references that were attached.
func deleteQuestionTree(tx *gorm.DB, questionID int64) ([]string, error) {
	var refs []string

	var answerIDs []int64
	if err := tx.Model(&Answer{}).Where("question_id = ?", questionID).Pluck("id", &answerIDs).Error; err != nil {
		return nil, err
	}
	if len(answerIDs) > 0 {
		var paths []string
		if err := tx.Model(&AnswerAttachment{}).Where("answer_id IN ?", answerIDs).Pluck("file_path", &paths).Error; err != nil {
			return nil, err
		}
		refs = append(refs, paths...)
		if err := tx.Where("answer_id IN ?", answerIDs).Delete(&AnswerAttachment{}).Error; err != nil {
			return nil, err
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&Answer{}).Error; err != nil {
			return nil, err
		}
	}

	var paths []string
	if err := tx.Model(&QuestionAttachment{}).Where("question_id = ?", questionID).Pluck("file_path", &paths).Error; err != nil {
		return nil, err
	}
	refs = append(refs, paths...)
	if err := tx.Where("question_id = ?", questionID).Delete(&QuestionAttachment{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Delete(&Question{}, questionID).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// CountOpen counts OPEN questions in the given courses.
func (r *Repository) CountOpen(ctx context.Context, courseIDs []int64) (int64, error) {
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Question{}).
		Where("course_id IN ? AND status = ?", courseIDs, StatusOpen).
		Count(&n).Error
	return n, err
}

func (r *Repository) CountAnswersBy(ctx context.Context, teacherID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&Answer{}).
		Where("teacher_id = ?", teacherID).
		Count(&n).Error
	return n, err
}
