package qa

import (
	"context"
	"fmt"
)

type DashboardStats struct {
	PendingQuestions int64 `json:"pendingQuestions"`
	TotalResources   int64 `json:"totalResources"`
	TotalAnswers     int64 `json:"totalAnswers"`
}

// TeacherStats summarises the teacher's workload: open questions in their
// courses, their live resources and the answers they have written.
func (s *Service) TeacherStats(ctx context.Context, teacherID int64) (*DashboardStats, error) {
	ids, err := s.courses.TeacherCourseIDs(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	var st DashboardStats
	if st.PendingQuestions, err = s.repo.CountOpen(ctx, ids); err != nil {
		return nil, fmt.Errorf("count open questions: %w", err)
	}
	if st.TotalAnswers, err = s.repo.CountAnswersBy(ctx, teacherID); err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}
	if s.resources != nil {
		if st.TotalResources, err = s.resources.CountByUploader(ctx, teacherID); err != nil {
			return nil, fmt.Errorf("count resources: %w", err)
		}
	}
	return &st, nil
}
