package qa

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"edushareqa/internal/domain/course"
	"edushareqa/internal/middleware"
	"edushareqa/internal/pkg/form"
	"edushareqa/internal/pkg/pagination"
	"edushareqa/internal/pkg/response"
	"edushareqa/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateQuestion godoc
// @Summary Ask a question
// @Description multipart: `metadata` (JSON) and repeatable `attachments`
// @Tags Questions
// @Accept multipart/form-data
// @Security BearerAuth
// @Success 201 {object} QuestionDetail
// @Router /student/questions [post]
func (h *Handler) CreateQuestion(c *gin.Context) {
	var req QuestionRequest
	if err := form.BindMetadata(c, &req); err != nil {
		form.WriteBindError(c, err)
		return
	}
	files, err := form.Files(c, "attachments")
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_FILE", "Invalid attachments")
		return
	}

	q, err := h.service.CreateQuestion(c.Request.Context(), middleware.UserID(c), req, files)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToDetail(q, nil))
}

// ListOwnQuestions godoc
// @Summary List my questions
// @Tags Questions
// @Security BearerAuth
// @Param courseId query int false "course"
// @Param status query string false "OPEN, ANSWERED or CLOSED"
// @Param keyword query string false "title or content"
// @Router /student/questions [get]
func (h *Handler) ListOwnQuestions(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	items, total, err := h.service.ListOwn(c.Request.Context(), middleware.UserID(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, toQuestionResponses(items), total, f.Page, f.PageSize)
}

// GetQuestion godoc
// @Summary Question detail with attachments and answers
// @Tags Questions
// @Security BearerAuth
// @Router /student/questions/{id} [get]
func (h *Handler) GetQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, answers, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToDetail(q, answers))
}

// UpdateQuestion godoc
// @Summary Edit my question while it is still open
// @Tags Questions
// @Security BearerAuth
// @Router /student/questions/{id} [put]
func (h *Handler) UpdateQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}
	q, err := h.service.UpdateQuestion(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToQuestionResponse(q))
}

// DeleteQuestion godoc
// @Summary Delete my question
// @Tags Questions
// @Security BearerAuth
// @Router /student/questions/{id} [delete]
func (h *Handler) DeleteQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteQuestion(c.Request.Context(), middleware.UserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// TeacherListQuestions godoc
// @Summary Questions asked in my courses
// @Tags Teacher
// @Security BearerAuth
// @Router /teacher/questions [get]
func (h *Handler) TeacherListQuestions(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	items, total, err := h.service.TeacherList(c.Request.Context(), middleware.UserID(c), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, toQuestionResponses(items), total, f.Page, f.PageSize)
}

// TeacherGetQuestion godoc
// @Summary Question detail for a teacher of its course
// @Tags Teacher
// @Security BearerAuth
// @Router /teacher/questions/{id} [get]
func (h *Handler) TeacherGetQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	q, answers, err := h.service.TeacherDetail(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToDetail(q, answers))
}

// CreateAnswer godoc
// @Summary Answer a question
// @Description multipart: `metadata` ({questionId, content}) and repeatable `attachments`
// @Tags Teacher
// @Accept multipart/form-data
// @Security BearerAuth
// @Success 201 {object} AnswerResponse
// @Router /teacher/answers [post]
func (h *Handler) CreateAnswer(c *gin.Context) {
	var req AnswerRequest
	if err := form.BindMetadata(c, &req); err != nil {
		form.WriteBindError(c, err)
		return
	}
	files, err := form.Files(c, "attachments")
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_FILE", "Invalid attachments")
		return
	}

	a, err := h.service.CreateAnswer(c.Request.Context(), middleware.UserID(c), req, files)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToAnswerResponse(a))
}

// DeleteAnswer godoc
// @Summary Delete my answer
// @Tags Teacher
// @Security BearerAuth
// @Router /teacher/answers/{id} [delete]
func (h *Handler) DeleteAnswer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAnswer(c.Request.Context(), middleware.UserID(c), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AdminListQuestions godoc
// @Summary List all questions
// @Tags Admin
// @Security BearerAuth
// @Router /admin/questions [get]
func (h *Handler) AdminListQuestions(c *gin.Context) {
	f, ok := filterFromQuery(c)
	if !ok {
		return
	}
	items, total, err := h.service.AdminList(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Paged(c, toQuestionResponses(items), total, f.Page, f.PageSize)
}

// AdminDeleteQuestion godoc
// @Summary Delete any question
// @Tags Admin
// @Security BearerAuth
// @Router /admin/questions/{id} [delete]
func (h *Handler) AdminDeleteQuestion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.AdminDeleteQuestion(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// TeacherStats godoc
// @Summary Dashboard counters for the calling teacher
// @Tags Teacher
// @Produce json
// @Security BearerAuth
// @Success 200 {object} DashboardStats
// @Router /teacher/dashboard/stats [get]
func (h *Handler) TeacherStats(c *gin.Context) {
	st, err := h.service.TeacherStats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if form.WriteStorageError(c, err) {
		return
	}
	switch {
	case errors.Is(err, ErrQuestionNotFound):
		response.CustomError(c, http.StatusNotFound, "QUESTION_NOT_FOUND", "Question not found")
	case errors.Is(err, ErrAnswerNotFound):
		response.CustomError(c, http.StatusNotFound, "ANSWER_NOT_FOUND", "Answer not found")
	case errors.Is(err, course.ErrCourseNotFound):
		response.CustomError(c, http.StatusNotFound, "COURSE_NOT_FOUND", "Course not found")
	case errors.Is(err, ErrNotOwner):
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "You are not the author")
	case errors.Is(err, ErrNotCourseTeacher):
		response.CustomError(c, http.StatusForbidden, "NOT_COURSE_TEACHER", "You do not teach this course")
	case errors.Is(err, ErrQuestionLocked), errors.Is(err, ErrQuestionClosed):
		response.CustomError(c, http.StatusConflict, "QUESTION_LOCKED", err.Error())
	default:
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func filterFromQuery(c *gin.Context) (Filter, bool) {
	courseID, _ := strconv.ParseInt(c.Query("courseId"), 10, 64)
	status := Status(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	if status != "" && !status.Valid() {
		response.CustomError(c, http.StatusBadRequest, "INVALID_STATUS", "status must be OPEN, ANSWERED or CLOSED")
		return Filter{}, false
	}
	return Filter{
		CourseID: courseID,
		Status:   status,
		Keyword:  c.Query("keyword"),
		Params:   pagination.FromQuery(c),
	}, true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}
