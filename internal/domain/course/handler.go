package course

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"edushareqa/internal/domain/auth"
	"edushareqa/internal/middleware"
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

// List godoc
// @Summary List courses
// @Tags Admin
// @Security BearerAuth
// @Param keyword query string false "code or name"
// @Router /admin/courses [get]
func (h *Handler) List(c *gin.Context) {
	p := pagination.FromQuery(c)
	items, total, err := h.service.List(c.Request.Context(), c.Query("keyword"), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	if items == nil {
		items = []Course{}
	}
	response.Paged(c, items, total, p.Page, p.PageSize)
}

// Create godoc
// @Summary Create a course
// @Tags Admin
// @Security BearerAuth
// @Param body body CourseRequest true "course"
// @Router /admin/courses [post]
func (h *Handler) Create(c *gin.Context) {
	req, ok := bindCourse(c)
	if !ok {
		return
	}
	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// Update godoc
// @Summary Update a course
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Router /admin/courses/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	req, ok := bindCourse(c)
	if !ok {
		return
	}
	course, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// Delete godoc
// @Summary Delete a course
// @Tags Admin
// @Security BearerAuth
// @Router /admin/courses/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

type memberRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}

// AssignTeacher godoc
// @Summary Assign a teacher to a course
// @Tags Admin
// @Security BearerAuth
// @Router /admin/courses/{id}/teachers [post]
func (h *Handler) AssignTeacher(c *gin.Context) {
	h.addMember(c, h.service.AssignTeacher)
}

// EnrollStudent godoc
// @Summary Enrol a student in a course
// @Tags Admin
// @Security BearerAuth
// @Router /admin/courses/{id}/students [post]
func (h *Handler) EnrollStudent(c *gin.Context) {
	h.addMember(c, h.service.EnrollStudent)
}

func (h *Handler) UnassignTeacher(c *gin.Context) {
	h.removeMember(c, "teacherId", h.service.UnassignTeacher)
}

func (h *Handler) UnenrollStudent(c *gin.Context) {
	h.removeMember(c, "studentId", h.service.UnenrollStudent)
}

// TeacherCourses godoc
// @Summary Courses taught by the caller
// @Tags Teacher
// @Security BearerAuth
// @Router /teacher/courses [get]
func (h *Handler) TeacherCourses(c *gin.Context) {
	h.myCourses(c, h.service.TeacherCourses)
}

// StudentCourses godoc
// @Summary Courses the caller is enrolled in
// @Tags Student
// @Security BearerAuth
// @Router /student/courses [get]
func (h *Handler) StudentCourses(c *gin.Context) {
	h.myCourses(c, h.service.StudentCourses)
}

// StudentTeachers godoc
// @Summary Teachers of the caller's courses
// @Tags Student
// @Security BearerAuth
// @Success 200 {array} Teacher
// @Router /student/teachers [get]
func (h *Handler) StudentTeachers(c *gin.Context) {
	items, err := h.service.StudentTeachers(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) myCourses(c *gin.Context, list func(ctx context.Context, userID int64) ([]Course, error)) {
	items, err := list(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if items == nil {
		items = []Course{}
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) addMember(c *gin.Context, add func(ctx context.Context, courseID, userID int64) error) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req memberRequest
	if err := c.ShouldBindJSON(&req); err != nil || validator.Validate(req) != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "userId is required")
		return
	}
	if err := add(c.Request.Context(), courseID, req.UserID); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"courseId": courseID, "userId": req.UserID})
}

func (h *Handler) removeMember(c *gin.Context, param string, remove func(ctx context.Context, courseID, userID int64) error) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, param)
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), courseID, userID); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCourseNotFound):
		response.CustomError(c, http.StatusNotFound, "COURSE_NOT_FOUND", "Course not found")
	case errors.Is(err, auth.ErrUserNotFound):
		response.CustomError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrMembershipMissing):
		response.CustomError(c, http.StatusNotFound, "MEMBERSHIP_NOT_FOUND", "Membership not found")
	case errors.Is(err, ErrCodeAlreadyExists):
		response.CustomError(c, http.StatusConflict, "COURSE_CODE_EXISTS", "Course code already exists")
	case errors.Is(err, ErrAlreadyAssigned):
		response.CustomError(c, http.StatusConflict, "ALREADY_ASSIGNED", "Teacher already assigned")
	case errors.Is(err, ErrAlreadyEnrolled):
		response.CustomError(c, http.StatusConflict, "ALREADY_ENROLLED", "Student already enrolled")
	case errors.Is(err, ErrNotTeacher):
		response.CustomError(c, http.StatusBadRequest, "NOT_A_TEACHER", "User is not a teacher")
	case errors.Is(err, ErrNotStudent):
		response.CustomError(c, http.StatusBadRequest, "NOT_A_STUDENT", "User is not a student")
	default:
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func bindCourse(c *gin.Context) (CourseRequest, bool) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return req, false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return req, false
	}
	return req, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}
