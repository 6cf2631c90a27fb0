package qa

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"edushareqa/internal/storage"
	"edushareqa/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionEndpoints(t *testing.T) {
	f := setupTestService(t)
	r, protected := testutil.NewRouter()
	RegisterRoutes(protected, NewHandler(f.svc))

	student := testutil.As(studentID, "STUDENT")
	teacher := testutil.As(teacherID, "TEACHER")
	stranger := testutil.As(outsider, "TEACHER")
	admin := testutil.As(1, "ADMIN")

	rr := testutil.DoMultipart(r, student, http.MethodPost, "/api/student/questions",
		map[string]any{"courseId": f.course.ID, "title": "Why nil?", "content": "panic"},
		testutil.Part{Field: "attachments", Filename: "trace.txt", Content: []byte("goroutine 1")},
		testutil.Part{Field: "attachments", Filename: "shot.png", Content: []byte("\x89PNG\r\n\x1a\n")},
		testutil.Part{Field: "attachments", Filename: "empty.txt", Content: nil},
	)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created QuestionDetail
	testutil.Decode(t, rr, &created)
	require.Len(t, created.Attachments, 2)
	for _, att := range created.Attachments {
		assert.True(t, strings.HasPrefix(att.FilePath, "question-attachments/"), att.FilePath)
		_, err := f.store.Resolve(att.FilePath)
		require.NoError(t, err)
	}

	t.Run("validation", func(t *testing.T) {
		rr := testutil.DoMultipart(r, student, http.MethodPost, "/api/student/questions",
			map[string]any{"courseId": f.course.ID})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = testutil.DoJSON(r, student, http.MethodGet, "/api/student/questions?status=WHATEVER", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = testutil.DoJSON(r, teacher, http.MethodPost, "/api/student/questions", nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	var answer AnswerResponse
	t.Run("answer", func(t *testing.T) {
		rr := testutil.DoMultipart(r, stranger, http.MethodPost, "/api/teacher/answers",
			map[string]any{"questionId": created.ID, "content": "not mine"})
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = testutil.DoMultipart(r, teacher, http.MethodPost, "/api/teacher/answers",
			map[string]any{"questionId": created.ID, "content": "check the map"},
			testutil.Part{Field: "attachments", Filename: "fix.go", Content: []byte("package main")})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		testutil.Decode(t, rr, &answer)
		require.Len(t, answer.Attachments, 1)
		assert.True(t, strings.HasPrefix(answer.Attachments[0].FilePath, string(storage.CategoryAnswerAttachments)+"/"))

		rr = testutil.DoJSON(r, student, http.MethodGet, fmt.Sprintf("/api/student/questions/%d", created.ID), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var detail QuestionDetail
		testutil.Decode(t, rr, &detail)
		assert.Equal(t, StatusAnswered, detail.Status)
		assert.Equal(t, 1, detail.AnswerCount)
		require.Len(t, detail.Answers, 1)
		assert.Equal(t, "check the map", detail.Answers[0].Content)

		rr = testutil.DoJSON(r, stranger, http.MethodGet, fmt.Sprintf("/api/teacher/questions/%d", created.ID), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = testutil.DoJSON(r, teacher, http.MethodGet, "/api/teacher/questions?status=answered", nil)
		var page struct {
			Items []QuestionResponse `json:"items"`
			Total int64              `json:"total"`
		}
		testutil.Decode(t, rr, &page)
		assert.Equal(t, int64(1), page.Total)
	})

	t.Run("update locked", func(t *testing.T) {
		rr := testutil.DoJSON(r, student, http.MethodPut, fmt.Sprintf("/api/student/questions/%d", created.ID),
			map[string]any{"title": "edit"})
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("delete answer", func(t *testing.T) {
		rr := testutil.DoJSON(r, stranger, http.MethodDelete, fmt.Sprintf("/api/teacher/answers/%d", answer.ID), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = testutil.DoJSON(r, teacher, http.MethodDelete, fmt.Sprintf("/api/teacher/answers/%d", answer.ID), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		_, err := f.store.Resolve(answer.Attachments[0].FilePath)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		rr = testutil.DoJSON(r, student, http.MethodGet, fmt.Sprintf("/api/student/questions/%d", created.ID), nil)
		var detail QuestionDetail
		testutil.Decode(t, rr, &detail)
		assert.Equal(t, StatusOpen, detail.Status)
	})

	t.Run("admin delete", func(t *testing.T) {
		rr := testutil.DoJSON(r, admin, http.MethodGet, "/api/admin/questions", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = testutil.DoJSON(r, admin, http.MethodDelete, fmt.Sprintf("/api/admin/questions/%d", created.ID), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		for _, att := range created.Attachments {
			_, err := f.store.Resolve(att.FilePath)
			assert.ErrorIs(t, err, storage.ErrNotFound)
		}

		rr = testutil.DoJSON(r, student, http.MethodGet, fmt.Sprintf("/api/student/questions/%d", created.ID), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestTeacherStatsEndpoint(t *testing.T) {
	f := setupTestService(t)
	r, protected := testutil.NewRouter()
	RegisterRoutes(protected, NewHandler(f.svc))
	f.ask(t, "Open question")

	rr := testutil.DoJSON(r, testutil.As(teacherID, "TEACHER"), http.MethodGet, "/api/teacher/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var st DashboardStats
	testutil.Decode(t, rr, &st)
	assert.Equal(t, int64(1), st.PendingQuestions)
	assert.Equal(t, int64(3), st.TotalResources)
	assert.Zero(t, st.TotalAnswers)

	rr = testutil.DoJSON(r, testutil.As(studentID, "STUDENT"), http.MethodGet, "/api/teacher/dashboard/stats", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
