package course

import (
	"context"
	"strings"

	"edushareqa/internal/domain/auth"
	"edushareqa/internal/pkg/logger"
	"edushareqa/internal/pkg/pagination"

	"go.uber.org/zap"
)

// UserLookup resolves accounts for membership checks.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

type Service struct {
	repo  Repository
	users UserLookup
	log   *zap.Logger
}

func NewService(repo Repository, users UserLookup, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, users: users, log: log.Named("course")}
}

type CourseRequest struct {
	Code        string `json:"code" validate:"required,max=32"`
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	Faculty     string `json:"faculty" validate:"max=128"`
}

func (s *Service) Create(ctx context.Context, req CourseRequest) (*Course, error) {
	c := &Course{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Faculty:     strings.TrimSpace(req.Faculty),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.FromContext(ctx, s.log).Info("course created", zap.Int64("id", c.ID), zap.String("code", c.Code))
	return c, nil
}

func (s *Service) Update(ctx context.Context, id int64, req CourseRequest) (*Course, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	c.Name = strings.TrimSpace(req.Name)
	c.Description = req.Description
	c.Faculty = strings.TrimSpace(req.Faculty)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Course, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, keyword string, p pagination.Params) ([]Course, int64, error) {
	return s.repo.List(ctx, strings.TrimSpace(keyword), p.Normalize())
}

func (s *Service) AssignTeacher(ctx context.Context, courseID, teacherID int64) error {
	if _, err := s.repo.GetByID(ctx, courseID); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		return err
	}
	if !u.HasRole(auth.RoleTeacher) {
		return ErrNotTeacher
	}
	return s.repo.AddTeacher(ctx, courseID, teacherID)
}

func (s *Service) UnassignTeacher(ctx context.Context, courseID, teacherID int64) error {
	return s.repo.RemoveTeacher(ctx, courseID, teacherID)
}

func (s *Service) EnrollStudent(ctx context.Context, courseID, studentID int64) error {
	if _, err := s.repo.GetByID(ctx, courseID); err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if !u.HasRole(auth.RoleStudent) {
		return ErrNotStudent
	}
	return s.repo.AddStudent(ctx, courseID, studentID)
}

func (s *Service) UnenrollStudent(ctx context.Context, courseID, studentID int64) error {
	return s.repo.RemoveStudent(ctx, courseID, studentID)
}

func (s *Service) TeacherCourses(ctx context.Context, teacherID int64) ([]Course, error) {
	return s.repo.ListByTeacher(ctx, teacherID)
}

func (s *Service) StudentCourses(ctx context.Context, studentID int64) ([]Course, error) {
	return s.repo.ListByStudent(ctx, studentID)
}

// TeacherCourseIDs lists the courses a teacher is assigned to.
func (s *Service) TeacherCourseIDs(ctx context.Context, teacherID int64) ([]int64, error) {
	return s.repo.TeacherCourseIDs(ctx, teacherID)
}

func (s *Service) IsTeacherOf(ctx context.Context, courseID, teacherID int64) (bool, error) {
	return s.repo.IsTeacherOf(ctx, courseID, teacherID)
}

// StudentTeachers lists the teachers of the student's courses, each once,
// with the courses they share with the student.
func (s *Service) StudentTeachers(ctx context.Context, studentID int64) ([]Teacher, error) {
	rows, err := s.repo.TeachersOfStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	out := []Teacher{}
	for _, row := range rows {
		if n := len(out); n > 0 && out[n-1].ID == row.TeacherID {
			out[n-1].CourseIDs = append(out[n-1].CourseIDs, row.CourseID)
			out[n-1].CourseNames = append(out[n-1].CourseNames, row.CourseName)
			continue
		}
		out = append(out, Teacher{
			ID:          row.TeacherID,
			Username:    row.Username,
			Email:       row.Email,
			FullName:    row.FullName,
			CourseIDs:   []int64{row.CourseID},
			CourseNames: []string{row.CourseName},
		})
	}
	return out, nil
}
