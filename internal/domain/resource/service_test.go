package resource

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"edushareqa/internal/domain/course"
	"edushareqa/internal/pkg/pagination"
	"edushareqa/internal/storage"
	"edushareqa/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc    *Service
	db     *gorm.DB
	store  *storage.Storage
	course *course.Course
}

func setupTestService(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, append(course.Models(), &Resource{})...)
	store, err := storage.New(storage.Config{UploadDir: t.TempDir(), MaxFileSize: 1 << 20}, nil)
	require.NoError(t, err)

	c := &course.Course{Code: "CS101", Name: "Intro"}
	require.NoError(t, db.Create(c).Error)

	courses := course.NewService(course.NewRepository(db), nil, nil)
	return &fixture{
		svc:    NewService(NewRepository(db), store, courses, nil),
		db:     db,
		store:  store,
		course: c,
	}
}

// storeLegacy writes a file straight into the resources root, the way rows
// written before the category layout left them.
func storeLegacy(t *testing.T, s *storage.Storage, rel, content string) {
	t.Helper()
	p := filepath.Join(s.Dir(storage.CategoryResources), filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func TestUpload_WithoutFile(t *testing.T) {
	f := setupTestService(t)

	res, err := f.svc.Upload(context.Background(), 7, "STUDENT", UploadRequest{Title: " Notes ", CourseID: f.course.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Notes", res.Title)
	assert.Equal(t, VisibilityPublic, res.Visibility)
	assert.Equal(t, StatusActive, res.Status)
	assert.Empty(t, res.FilePath)
	assert.Empty(t, ToResponse(res).FileURL)
}

func TestUpload_UnknownCourse(t *testing.T) {
	f := setupTestService(t)

	_, err := f.svc.Upload(context.Background(), 7, "STUDENT", UploadRequest{Title: "x", CourseID: 999}, nil)
	assert.ErrorIs(t, err, course.ErrCourseNotFound)
}

type failingRepo struct {
	Repository
}

func (failingRepo) Create(context.Context, *Resource) error {
	return errors.New("insert failed")
}

func TestUpload_DiscardsFileWhenInsertFails(t *testing.T) {
	f := setupTestService(t)
	courses := course.NewService(course.NewRepository(f.db), nil, nil)
	svc := NewService(failingRepo{NewRepository(f.db)}, f.store, courses, nil)

	r, _ := testutil.NewRouter()
	var fileErr error
	r.POST("/upload", func(c *gin.Context) {
		fh, err := c.FormFile("file")
		require.NoError(t, err)
		_, fileErr = svc.Upload(c.Request.Context(), 7, "STUDENT", UploadRequest{Title: "x", CourseID: f.course.ID}, fh)
	})
	testutil.DoMultipart(r, testutil.Caller{}, "POST", "/upload", nil,
		testutil.Part{Field: "file", Filename: "a.txt", Content: []byte("hello")})

	require.Error(t, fileErr)
	var files []string
	_ = filepath.Walk(f.store.Dir(storage.CategoryResources), func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	assert.Empty(t, files)
}

func TestDownload_CountsOnlyWhenFileExists(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	storeLegacy(t, f.store, "2024/03/old.pdf", "%PDF-1.4")
	legacy := &Resource{Title: "Old", CourseID: f.course.ID, UploaderID: 1, UploaderRole: "TEACHER",
		FilePath: "http://localhost:8080/api/uploads/2024/03/old.pdf", Visibility: VisibilityPublic, Status: StatusActive}
	require.NoError(t, f.db.Create(legacy).Error)

	res, file, err := f.svc.Download(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DownloadCount)
	assert.Equal(t, "old.pdf", file.Name)

	missing := &Resource{Title: "Gone", CourseID: f.course.ID, UploaderID: 1, UploaderRole: "TEACHER",
		FilePath: "resources/2024/03/gone.pdf", Visibility: VisibilityPublic, Status: StatusActive}
	require.NoError(t, f.db.Create(missing).Error)

	_, _, err = f.svc.Download(ctx, missing.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)

	var reloaded Resource
	require.NoError(t, f.db.First(&reloaded, missing.ID).Error)
	assert.Zero(t, reloaded.DownloadCount)

	noFile, err := f.svc.Upload(ctx, 1, "TEACHER", UploadRequest{Title: "Link", CourseID: f.course.ID}, nil)
	require.NoError(t, err)
	_, _, err = f.svc.Download(ctx, noFile.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)

	unsafe := &Resource{Title: "Bad", CourseID: f.course.ID, UploaderID: 1, UploaderRole: "TEACHER",
		FilePath: "../../etc/passwd", Visibility: VisibilityPublic, Status: StatusActive}
	require.NoError(t, f.db.Create(unsafe).Error)
	_, _, err = f.svc.Download(ctx, unsafe.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDeleteOwn(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	storeLegacy(t, f.store, "2025/01/mine.txt", "mine")
	res := &Resource{Title: "Mine", CourseID: f.course.ID, UploaderID: 5, UploaderRole: "STUDENT",
		FilePath: "resources/2025/01/mine.txt", Visibility: VisibilityPublic, Status: StatusActive}
	require.NoError(t, f.db.Create(res).Error)

	assert.ErrorIs(t, f.svc.DeleteOwn(ctx, 6, res.ID), ErrNotOwner)
	require.NoError(t, f.svc.DeleteOwn(ctx, 5, res.ID))

	_, err := f.svc.Get(ctx, res.ID)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	_, err = f.store.Resolve(res.FilePath)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, f.svc.DeleteOwn(ctx, 5, res.ID), ErrResourceNotFound)
}

func TestListAndAdmin(t *testing.T) {
	f := setupTestService(t)
	ctx := context.Background()

	other := &course.Course{Code: "MA201", Name: "Algebra"}
	require.NoError(t, f.db.Create(other).Error)

	a, err := f.svc.Upload(ctx, 1, "TEACHER", UploadRequest{Title: "Lecture slides", CourseID: f.course.ID}, nil)
	require.NoError(t, err)
	_, err = f.svc.Upload(ctx, 2, "STUDENT", UploadRequest{Title: "Exam notes", Summary: "slides summary", CourseID: other.ID}, nil)
	require.NoError(t, err)
	c, err := f.svc.Upload(ctx, 2, "STUDENT", UploadRequest{Title: "Cheat sheet", CourseID: other.ID}, nil)
	require.NoError(t, err)
	require.NoError(t, f.svc.AdminDelete(ctx, c.ID))

	n, err := f.svc.CountByUploader(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	items, total, err := f.svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	_, total, err = f.svc.List(ctx, Filter{Keyword: "slides"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	items, total, err = f.svc.List(ctx, Filter{CourseID: f.course.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, items[0].ID)

	_, total, err = f.svc.List(ctx, Filter{UploaderID: 2, Params: pagination.Params{Page: 1, PageSize: 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = f.svc.AdminList(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	updated, err := f.svc.AdminUpdate(ctx, a.ID, UpdateRequest{Title: "Slides v2", CourseID: other.ID, Visibility: VisibilityCourseOnly})
	require.NoError(t, err)
	assert.Equal(t, "Slides v2", updated.Title)
	assert.Equal(t, other.ID, updated.CourseID)
	assert.Equal(t, VisibilityCourseOnly, updated.Visibility)

	_, err = f.svc.AdminUpdate(ctx, a.ID, UpdateRequest{Title: "x", CourseID: 999})
	assert.ErrorIs(t, err, course.ErrCourseNotFound)
	_, err = f.svc.AdminUpdate(ctx, c.ID, UpdateRequest{Title: "x"})
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.ErrorIs(t, f.svc.AdminDelete(ctx, c.ID), ErrResourceNotFound)
}

func TestDownloadName(t *testing.T) {
	assert.Equal(t, "Lecture 1.pdf", downloadName("Lecture 1", "abc.pdf"))
	assert.Equal(t, "Lecture 1.PDF", downloadName("Lecture 1.PDF", "abc.pdf"))
	assert.Equal(t, "abc.pdf", downloadName("  ", "abc.pdf"))
	assert.Equal(t, "Notes", downloadName("Notes", "abc"))
}
