package upload

import (
	"errors"
	"net/http"
	"strings"

	"edushareqa/internal/pkg/response"
	"edushareqa/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Resolver finds stored files for download.
type Resolver interface {
	Resolve(raw string) (*storage.File, error)
	ResolveTyped(c storage.Category, relPath string) (*storage.File, error)
}

// Handler serves stored attachments by path.
type Handler struct {
	files Resolver
	log   *zap.Logger
}

func NewHandler(files Resolver, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{files: files, log: log.Named("upload")}
}

// Download godoc
// @Summary Download a stored attachment
// @Description `/uploads/{category}/{year}/{month}/{filename}` reads one category;
// @Description `/uploads/{year}/{month}/{filename}` scans every category.
// @Tags Uploads
// @Produce octet-stream
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{}
// @Router /uploads/{path} [get]
func (h *Handler) Download(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")
	segments := strings.Split(rel, "/")

	var (
		f   *storage.File
		err error
	)
	switch len(segments) {
	case 4:
		cat, perr := storage.ParseCategory(segments[0])
		if perr != nil {
			err = storage.ErrNotFound
			break
		}
		f, err = h.files.ResolveTyped(cat, strings.Join(segments[1:], "/"))
	case 3:
		f, err = h.files.Resolve(rel)
	default:
		err = storage.ErrNotFound
	}
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrInvalidReference) {
			h.log.Error("resolve upload", zap.String("path", rel), zap.Error(err))
		}
		response.CustomError(c, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
		return
	}

	file, err := f.Open()
	if err != nil {
		h.log.Error("open upload", zap.String("path", f.Path), zap.Error(err))
		response.CustomError(c, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
		return
	}
	defer file.Close()

	c.Header("Content-Type", storage.DetectContentType(f.Path))
	c.Header("Content-Disposition", response.Attachment(f.Name))
	http.ServeContent(c.Writer, c.Request, f.Name, f.ModTime, file)
}
