package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

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

// Login godoc
// @Summary Log in with username or email
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "credentials"
// @Success 200 {object} LoginResponse
// @Failure 400,401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to log in")
		return
	}
	response.Success(c, http.StatusOK, res)
}

// Register godoc
// @Summary Self-register a student account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "account"
// @Success 201 {object} LoginResponse
// @Failure 400,409 {object} map[string]interface{}
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			response.CustomError(c, http.StatusConflict, "USER_EXISTS", "Username or email already exists")
			return
		}
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register")
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// GetMe godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Router /auth/me [get]
// @Router /profile/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	u, err := h.service.GetByID(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.CustomError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
			return
		}
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		return
	}
	response.Success(c, http.StatusOK, ToResponse(u))
}

// CreateUser godoc
// @Summary Create a teacher or student account
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateUserRequest true "account"
// @Success 201 {object} UserResponse
// @Failure 400,409 {object} map[string]interface{}
// @Router /admin/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.Role = Role(strings.ToUpper(string(req.Role)))
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return
	}

	u, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserAlreadyExists):
			response.CustomError(c, http.StatusConflict, "USER_EXISTS", "Username or email already exists")
		case errors.Is(err, ErrInvalidRole):
			response.CustomError(c, http.StatusBadRequest, "INVALID_ROLE", "Role must be STUDENT or TEACHER")
		default:
			_ = c.Error(err)
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		}
		return
	}
	response.Success(c, http.StatusCreated, ToResponse(u))
}

// ListUsers godoc
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "STUDENT, TEACHER or ADMIN"
// @Param keyword query string false "username, email or name"
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	f := UserFilter{
		Role:    Role(strings.ToUpper(c.Query("role"))),
		Keyword: strings.TrimSpace(c.Query("keyword")),
		Params:  pagination.FromQuery(c),
	}
	users, total, err := h.service.ListUsers(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			response.CustomError(c, http.StatusBadRequest, "INVALID_ROLE", "Unknown role")
			return
		}
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list users")
		return
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, ToResponse(&users[i]))
	}
	response.Paged(c, items, total, f.Page, f.PageSize)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Router /admin/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), middleware.UserID(c), id); err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.CustomError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		case errors.Is(err, ErrCannotDeleteSelf):
			response.CustomError(c, http.StatusBadRequest, "CANNOT_DELETE_SELF", "You cannot delete your own account")
		default:
			_ = c.Error(err)
			response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UpdateProfile godoc
// @Summary Update own name or email
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "fields to change"
// @Success 200 {object} UserResponse
// @Router /profile/me [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		writeUserError(c, err, "Failed to update profile")
		return
	}
	response.Success(c, http.StatusOK, ToResponse(u))
}

// ChangePassword godoc
// @Summary Change own password
// @Tags Profile
// @Accept json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "old and new password"
// @Failure 400 {object} map[string]interface{}
// @Router /profile/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), middleware.UserID(c), req); err != nil {
		if errors.Is(err, ErrWrongPassword) {
			response.CustomError(c, http.StatusBadRequest, "WRONG_PASSWORD", "Current password is incorrect")
			return
		}
		writeUserError(c, err, "Failed to change password")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true})
}

// UpdateTeacher godoc
// @Summary Update a teacher account
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Param body body UpdateProfileRequest true "fields to change"
// @Success 200 {object} UserResponse
// @Router /admin/teachers/{id} [put]
func (h *Handler) UpdateTeacher(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.service.UpdateTeacher(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotTeacher) {
			response.CustomError(c, http.StatusNotFound, "TEACHER_NOT_FOUND", "Teacher not found")
			return
		}
		writeUserError(c, err, "Failed to update teacher")
		return
	}
	response.Success(c, http.StatusOK, ToResponse(u))
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", errs)
		return false
	}
	return true
}

func writeUserError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.CustomError(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrUserAlreadyExists):
		response.CustomError(c, http.StatusConflict, "USER_EXISTS", "Username or email already exists")
	default:
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
	}
}
