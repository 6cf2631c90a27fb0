package course

import (
	"context"
	"errors"

	"edushareqa/internal/database"
	"edushareqa/internal/pkg/pagination"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Course) error
	Update(ctx context.Context, c *Course) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Course, error)
	List(ctx context.Context, keyword string, p pagination.Params) ([]Course, int64, error)

	AddTeacher(ctx context.Context, courseID, teacherID int64) error
	RemoveTeacher(ctx context.Context, courseID, teacherID int64) error
	AddStudent(ctx context.Context, courseID, studentID int64) error
	RemoveStudent(ctx context.Context, courseID, studentID int64) error
	ListByTeacher(ctx context.Context, teacherID int64) ([]Course, error)
	ListByStudent(ctx context.Context, studentID int64) ([]Course, error)
	TeacherCourseIDs(ctx context.Context, teacherID int64) ([]int64, error)
	IsTeacherOf(ctx context.Context, courseID, teacherID int64) (bool, error)
	TeachersOfStudent(ctx context.Context, studentID int64) ([]TeacherRow, error)
}

// TeacherRow is one teacher/course pair reachable from a student enrolment.
type TeacherRow struct {
	TeacherID  int64
	Username   string
	Email      string
	FullName   string
	CourseID   int64
	CourseName string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Course) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if database.IsUniqueViolation(err) {
		return ErrCodeAlreadyExists
	}
	return err
}

func (r *repository) Update(ctx context.Context, c *Course) error {
	err := r.db.WithContext(ctx).Save(c).Error
	if database.IsUniqueViolation(err) {
		return ErrCodeAlreadyExists
	}
	return err
}

// Delete removes the course together with its memberships.
func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&CourseTeacher{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&CourseStudent{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Course{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Course, error) {
	var c Course
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, keyword string, p pagination.Params) ([]Course, int64, error) {
	q := r.db.WithContext(ctx).Model(&Course{})
	if keyword != "" {
		kw := "%" + keyword + "%"
		q = q.Where("code LIKE ? OR name LIKE ?", kw, kw)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var out []Course
	err := q.Order("code ASC").Offset(p.Offset()).Limit(p.PageSize).Find(&out).Error
	return out, total, err
}

func (r *repository) AddTeacher(ctx context.Context, courseID, teacherID int64) error {
	err := r.db.WithContext(ctx).Create(&CourseTeacher{CourseID: courseID, TeacherID: teacherID}).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyAssigned
	}
	return err
}

func (r *repository) RemoveTeacher(ctx context.Context, courseID, teacherID int64) error {
	res := r.db.WithContext(ctx).
		Where("course_id = ? AND teacher_id = ?", courseID, teacherID).
		Delete(&CourseTeacher{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMembershipMissing
	}
	return nil
}

func (r *repository) AddStudent(ctx context.Context, courseID, studentID int64) error {
	err := r.db.WithContext(ctx).Create(&CourseStudent{CourseID: courseID, StudentID: studentID}).Error
	if database.IsUniqueViolation(err) {
		return ErrAlreadyEnrolled
	}
	return err
}

func (r *repository) RemoveStudent(ctx context.Context, courseID, studentID int64) error {
	res := r.db.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&CourseStudent{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMembershipMissing
	}
	return nil
}

func (r *repository) ListByTeacher(ctx context.Context, teacherID int64) ([]Course, error) {
	var out []Course
	err := r.db.WithContext(ctx).
		Joins("JOIN course_teachers ct ON ct.course_id = courses.id").
		Where("ct.teacher_id = ?", teacherID).
		Order("courses.code ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListByStudent(ctx context.Context, studentID int64) ([]Course, error) {
	var out []Course
	err := r.db.WithContext(ctx).
		Joins("JOIN course_students cs ON cs.course_id = courses.id").
		Where("cs.student_id = ?", studentID).
		Order("courses.code ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) TeacherCourseIDs(ctx context.Context, teacherID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&CourseTeacher{}).
		Where("teacher_id = ?", teacherID).
		Pluck("course_id", &ids).Error
	return ids, err
}

func (r *repository) IsTeacherOf(ctx context.Context, courseID, teacherID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&CourseTeacher{}).
		Where("course_id = ? AND teacher_id = ?", courseID, teacherID).
		Count(&n).Error
	return n > 0, err
}

func (r *repository) TeachersOfStudent(ctx context.Context, studentID int64) ([]TeacherRow, error) {
	var rows []TeacherRow
	err := r.db.WithContext(ctx).
		Table("course_students cs").
		Select("u.id AS teacher_id, u.username, u.email, u.full_name, c.id AS course_id, c.name AS course_name").
		Joins("JOIN course_teachers ct ON ct.course_id = cs.course_id").
		Joins("JOIN courses c ON c.id = cs.course_id").
		Joins("JOIN users u ON u.id = ct.teacher_id").
		Where("cs.student_id = ?", studentID).
		Order("u.id ASC, c.code ASC").
		Scan(&rows).Error
	return rows, err
}
