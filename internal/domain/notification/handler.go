package notification

import (
	"errors"
	"net/http"
	"strconv"

	"edushareqa/internal/middleware"
	"edushareqa/internal/pkg/pagination"
	"edushareqa/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	hub     *Hub
}

func NewHandler(service *Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

type ListResponse struct {
	Items       []Notification `json:"items"`
	Total       int64          `json:"total"`
	UnreadCount int64          `json:"unreadCount"`
	Page        int            `json:"page"`
	PageSize    int            `json:"pageSize"`
}

// GetNotifications godoc
// @Summary List my notifications
// @Tags Notifications
// @Security BearerAuth
// @Param page query int false "page (1-based)"
// @Param pageSize query int false "page size"
// @Success 200 {object} ListResponse
// @Router /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	userID := middleware.UserID(c)
	p := pagination.FromQuery(c)

	items, total, unread, err := h.service.List(c.Request.Context(), userID, p)
	if err != nil {
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get notifications")
		return
	}
	if items == nil {
		items = []Notification{}
	}
	response.Success(c, http.StatusOK, ListResponse{
		Items:       items,
		Total:       total,
		UnreadCount: unread,
		Page:        p.Page,
		PageSize:    p.PageSize,
	})
}

// GetUnreadCount godoc
// @Summary Unread notification count
// @Tags Notifications
// @Security BearerAuth
// @Router /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to count notifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": count})
}

// MarkAsRead godoc
// @Summary Mark one notification read
// @Tags Notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Router /notifications/{id}/read [patch]
func (h *Handler) MarkAsRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update notification")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": id, "isRead": true})
}

// MarkAllAsRead godoc
// @Summary Mark all notifications read
// @Tags Notifications
// @Security BearerAuth
// @Router /notifications/read-all [post]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	n, err := h.service.MarkAllAsRead(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update notifications")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": n})
}

// Stream upgrades to a websocket that receives the caller's notifications.
// Browsers pass the access token as ?token= because they cannot set headers.
func (h *Handler) Stream(c *gin.Context) {
	userID := middleware.UserID(c)
	unread, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		response.CustomError(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to open stream")
		return
	}
	hello := &Event{Type: EventUnreadCount, Payload: map[string]int64{"count": unread}}
	if err := h.hub.Serve(c.Writer, c.Request, userID, hello); err != nil {
		// the upgrader has already written the HTTP error
		h.service.log.Debug("ws upgrade failed", zap.Error(err))
	}
}
