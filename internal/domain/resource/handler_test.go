package resource

import (
	"fmt"
	"mime"
	"net/http"
	"testing"

	"edushareqa/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceEndpoints(t *testing.T) {
	f := setupTestService(t)
	r, protected := testutil.NewRouter()
	RegisterRoutes(protected, NewHandler(f.svc))

	student := testutil.As(10, "STUDENT")
	teacher := testutil.As(20, "TEACHER")
	admin := testutil.As(30, "ADMIN")

	pdf := []byte("%PDF-1.4\n%test\n")
	rr := testutil.DoMultipart(r, student, http.MethodPost, "/api/student/resources",
		map[string]any{"title": "Lecture 1", "courseId": f.course.ID},
		testutil.Part{Field: "file", Filename: "slides.pdf", Content: pdf})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created Response
	testutil.Decode(t, rr, &created)
	assert.Equal(t, "STUDENT", created.UploaderRole)
	assert.Equal(t, "application/pdf", created.FileType)
	assert.Equal(t, fmt.Sprintf("/student/resources/%d/download", created.ID), created.FileURL)

	rr = testutil.DoMultipart(r, teacher, http.MethodPost, "/api/teacher/resources",
		map[string]any{"title": "Syllabus", "courseId": f.course.ID})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var syllabus Response
	testutil.Decode(t, rr, &syllabus)
	assert.Equal(t, "TEACHER", syllabus.UploaderRole)

	t.Run("validation", func(t *testing.T) {
		rr := testutil.DoMultipart(r, student, http.MethodPost, "/api/student/resources", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "METADATA_REQUIRED", testutil.Decode(t, rr, nil).Error.Code)

		rr = testutil.DoMultipart(r, student, http.MethodPost, "/api/student/resources",
			map[string]any{"courseId": f.course.ID})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "VALIDATION_ERROR", testutil.Decode(t, rr, nil).Error.Code)

		rr = testutil.DoMultipart(r, student, http.MethodPost, "/api/student/resources",
			map[string]any{"title": "x", "courseId": 999})
		assert.Equal(t, http.StatusNotFound, rr.Code)

		rr = testutil.DoMultipart(r, student, http.MethodPost, "/api/teacher/resources",
			map[string]any{"title": "x", "courseId": f.course.ID})
		assert.Equal(t, http.StatusForbidden, rr.Code)

		for _, who := range []testutil.Caller{teacher, admin} {
			rr = testutil.DoMultipart(r, who, http.MethodPost, "/api/student/resources",
				map[string]any{"title": "x", "courseId": f.course.ID})
			assert.Equal(t, http.StatusForbidden, rr.Code)
		}
	})

	t.Run("download", func(t *testing.T) {
		path := fmt.Sprintf("/api/student/resources/%d/download", created.ID)
		rr := testutil.DoJSON(r, student, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, pdf, rr.Body.Bytes())
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename*=UTF-8''Lecture%201.pdf", rr.Header().Get("Content-Disposition"))

		rr = testutil.DoJSON(r, student, http.MethodGet, fmt.Sprintf("/api/student/resources/%d", created.ID), nil)
		var got Response
		testutil.Decode(t, rr, &got)
		assert.Equal(t, int64(1), got.DownloadCount)

		rr = testutil.DoJSON(r, student, http.MethodGet, fmt.Sprintf("/api/student/resources/%d/download", syllabus.ID), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "FILE_NOT_FOUND", testutil.Decode(t, rr, nil).Error.Code)

		rr = testutil.DoJSON(r, student, http.MethodGet, "/api/student/resources/abc/download", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("list", func(t *testing.T) {
		rr := testutil.DoJSON(r, student, http.MethodGet, fmt.Sprintf("/api/student/resources?courseId=%d&page=1&pageSize=1", f.course.ID), nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var page struct {
			Items []Response `json:"items"`
			Total int64      `json:"total"`
		}
		testutil.Decode(t, rr, &page)
		assert.Equal(t, int64(2), page.Total)
		assert.Len(t, page.Items, 1)

		rr = testutil.DoJSON(r, teacher, http.MethodGet, "/api/teacher/resources", nil)
		testutil.Decode(t, rr, &page)
		require.Len(t, page.Items, 1)
		assert.Equal(t, syllabus.ID, page.Items[0].ID)
	})

	t.Run("ownership", func(t *testing.T) {
		rr := testutil.DoJSON(r, teacher, http.MethodDelete, fmt.Sprintf("/api/teacher/resources/%d", created.ID), nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("admin", func(t *testing.T) {
		rr := testutil.DoJSON(r, student, http.MethodGet, "/api/admin/resources", nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)

		rr = testutil.DoJSON(r, admin, http.MethodPut, fmt.Sprintf("/api/admin/resources/%d", syllabus.ID),
			map[string]any{"title": "Syllabus 2026"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = testutil.DoJSON(r, admin, http.MethodPut, fmt.Sprintf("/api/admin/resources/%d", syllabus.ID),
			map[string]any{"title": ""})
		assert.Equal(t, http.StatusBadRequest, rr.Code)

		rr = testutil.DoJSON(r, admin, http.MethodDelete, fmt.Sprintf("/api/admin/resources/%d", syllabus.ID), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		rr = testutil.DoJSON(r, admin, http.MethodDelete, fmt.Sprintf("/api/admin/resources/%d", syllabus.ID), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("delete own", func(t *testing.T) {
		rr := testutil.DoJSON(r, student, http.MethodDelete, fmt.Sprintf("/api/student/resources/%d", created.ID), nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		rr = testutil.DoJSON(r, student, http.MethodGet, fmt.Sprintf("/api/student/resources/%d/download", created.ID), nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDownloadDisposition(t *testing.T) {
	f := setupTestService(t)
	r, protected := testutil.NewRouter()
	RegisterRoutes(protected, NewHandler(f.svc))
	student := testutil.As(10, "STUDENT")

	rr := testutil.DoMultipart(r, student, http.MethodPost, "/api/student/resources",
		map[string]any{"title": "Lecture 1; Part=2, notes", "courseId": f.course.ID},
		testutil.Part{Field: "file", Filename: "x.pdf", Content: []byte("%PDF-1.4\n")})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created Response
	testutil.Decode(t, rr, &created)

	rr = testutil.DoJSON(r, student, http.MethodGet, fmt.Sprintf("/api/student/resources/%d/download", created.ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)
	disposition, params, err := mime.ParseMediaType(rr.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "Lecture 1; Part=2, notes.pdf", params["filename"])
}
