package upload

import (
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"testing"

	"edushareqa/internal/storage"
	"edushareqa/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *storage.Storage) {
	t.Helper()
	store, err := storage.New(storage.Config{UploadDir: t.TempDir()}, nil)
	require.NoError(t, err)
	r, protected := testutil.NewRouter()
	RegisterRoutes(protected, NewHandler(store, nil))
	return r, store
}

func put(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestDownload(t *testing.T) {
	r, store := setupRouter(t)
	who := testutil.As(1, "STUDENT")

	put(t, store.Dir(storage.CategoryAnswerAttachments), "2025/12/notes.pdf", "%PDF-1.4\n")
	put(t, store.Dir(storage.CategoryQuestionAttachments), "2024/02/legacy.txt", "plain text")

	cases := []struct {
		name        string
		path        string
		status      int
		body        string
		contentType string
	}{
		{"typed", "/api/uploads/answer-attachments/2025/12/notes.pdf", http.StatusOK, "%PDF-1.4\n", "application/pdf"},
		{"bare scans categories", "/api/uploads/2024/02/legacy.txt", http.StatusOK, "plain text", "text/plain; charset=utf-8"},
		{"wrong category", "/api/uploads/resources/2025/12/notes.pdf", http.StatusNotFound, "", ""},
		{"unknown category", "/api/uploads/avatars/2025/12/notes.pdf", http.StatusNotFound, "", ""},
		{"missing", "/api/uploads/2025/12/missing.pdf", http.StatusNotFound, "", ""},
		{"too short", "/api/uploads/notes.pdf", http.StatusNotFound, "", ""},
		{"traversal", "/api/uploads/resources/../../etc/passwd", http.StatusNotFound, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := testutil.DoJSON(r, who, http.MethodGet, tc.path, nil)
			require.Equal(t, tc.status, rr.Code, rr.Body.String())
			if tc.status != http.StatusOK {
				assert.Equal(t, "FILE_NOT_FOUND", testutil.Decode(t, rr, nil).Error.Code)
				return
			}
			assert.Equal(t, tc.body, rr.Body.String())
			assert.Equal(t, tc.contentType, rr.Header().Get("Content-Type"))
			_, params, err := mime.ParseMediaType(rr.Header().Get("Content-Disposition"))
			require.NoError(t, err)
			assert.Equal(t, path.Base(tc.path), params["filename"])
		})
	}
}

func TestDownload_RequiresAuth(t *testing.T) {
	r, _ := setupRouter(t)
	rr := testutil.DoJSON(r, testutil.Caller{}, http.MethodGet, "/api/uploads/2025/12/a.pdf", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
