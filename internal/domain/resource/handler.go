package resource

import (
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"

	"edushareqa/internal/domain/auth"
	"edushareqa/internal/domain/course"
	"edushareqa/internal/middleware"
	"edushareqa/internal/pkg/form"
	"edushareqa/internal/pkg/pagination"
	"edushareqa/internal/pkg/response"
	"edushareqa/internal/pkg/validator"
	"edushareqa/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload godoc
// @Summary Upload a course resource
// @Description multipart: `metadata` (JSON) and an optional `file`
// @Tags Resources
// @Accept multipart/form-data
// @Security BearerAuth
// @Success 201 {object} Response
// @Failure 400,404,413,500 {object} map[string]interface{}
// @Router /student/resources [post]
func (h *Handler) StudentUpload(c *gin.Context) {
	h.upload(c, auth.RoleStudent)
}

// TeacherUpload godoc
// @Summary Upload a course resource as a teacher
// @Tags Resources
// @Accept multipart/form-data
// @Security BearerAuth
// @Router /teacher/resources [post]
func (h *Handler) TeacherUpload(c *gin.Context) {
	h.upload(c, auth.RoleTeacher)
}

func (h *Handler) upload(c *gin.Context, role auth.Role) {
	var req UploadRequest
	if err := form.BindMetadata(c, &req); err != nil {
		form.WriteBindError(c, err)
		return
	}
	fh, err := form.OptionalFile(c, "file")
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_FILE", "Invalid file part")
		return
	}

	res, err := h.service.Upload(c.Request.Context(), middleware.UserID(c), string(role), req, fh)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToResponse(res))
}

// List godoc
// @Summary List active resources
// @Tags Resources
// @Security BearerAuth
// @Param courseId query int false "course"
// @Param keyword query string false "title or summary"
// @Router /student/resources [get]
func (h *Handler) List(c *gin.Context) {
	f := filterFromQuery(c)
	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, toResponses(items), total, f.Page, f.PageSize)
}

// ListMine lists the caller's own uploads.
func (h *Handler) ListMine(c *gin.Context) {
	f := filterFromQuery(c)
	f.UploaderID = middleware.UserID(c)
	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, toResponses(items), total, f.Page, f.PageSize)
}

// Get godoc
// @Summary Get an active resource
// @Tags Resources
// @Security BearerAuth
// @Router /student/resources/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(res))
}

// Download godoc
// @Summary Download the file of a resource
// @Description Streams the file as an attachment named after the resource title and counts the download.
// @Tags Resources
// @Security BearerAuth
// @Produce octet-stream
// @Failure 404 {object} map[string]interface{}
// @Router /student/resources/{id}/download [get]
func (h *Handler) Download(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, f, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	file, err := f.Open()
	if err != nil {
		_ = c.Error(err)
		response.CustomError(c, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
		return
	}
	defer file.Close()

	contentType := res.FileType
	if contentType == "" {
		contentType = storage.DetectContentType(f.Path)
	}
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", response.Attachment(downloadName(res.Title, f.Name)))
	http.ServeContent(c.Writer, c.Request, f.Name, f.ModTime, file)
}

// Delete godoc
// @Summary Delete one of my resources
// @Tags Resources
// @Security BearerAuth
// @Router /student/resources/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteOwn(c.Request.Context(), middleware.UserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AdminList godoc
// @Summary List all resources that are not deleted
// @Tags Admin
// @Security BearerAuth
// @Router /admin/resources [get]
func (h *Handler) AdminList(c *gin.Context) {
	f := filterFromQuery(c)
	items, total, err := h.service.AdminList(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, toResponses(items), total, f.Page, f.PageSize)
}

// AdminUpdate godoc
// @Summary Update resource metadata
// @Tags Admin
// @Security BearerAuth
// @Router /admin/resources/{id} [put]
func (h *Handler) AdminUpdate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}
	res, err := h.service.AdminUpdate(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToResponse(res))
}

// AdminDelete godoc
// @Summary Delete any resource
// @Tags Admin
// @Security BearerAuth
// @Router /admin/resources/{id} [delete]
func (h *Handler) AdminDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.AdminDelete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	if form.WriteStorageError(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrResourceNotFound):
		response.CustomError(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found")
	case errors.Is(err, ErrFileNotFound):
		response.CustomError(c, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
	case errors.Is(err, course.ErrCourseNotFound):
		response.CustomError(c, http.StatusNotFound, "COURSE_NOT_FOUND", "Course not found")
	case errors.Is(err, ErrNotOwner):
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "You do not own this resource")
	default:
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func filterFromQuery(c *gin.Context) Filter {
	courseID, _ := strconv.ParseInt(c.Query("courseId"), 10, 64)
	return Filter{
		CourseID: courseID,
		Keyword:  c.Query("keyword"),
		Params:   pagination.FromQuery(c),
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid resource ID")
		return 0, false
	}
	return id, true
}

// downloadName is the resource title carrying the stored file's extension.
func downloadName(title, stored string) string {
	title = strings.TrimSpace(title)
	ext := path.Ext(stored)
	if title == "" {
		return stored
	}
	if ext == "" || strings.EqualFold(path.Ext(title), ext) {
		return title
	}
	return title + ext
}
