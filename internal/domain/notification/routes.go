package notification

import "github.com/gin-gonic/gin"

func RegisterRoutes(protected *gin.RouterGroup, handler *Handler) {
	notifGroup := protected.Group("/notifications")
	{
		notifGroup.GET("", handler.GetNotifications)
		notifGroup.GET("/unread-count", handler.GetUnreadCount)
		notifGroup.PATCH("/:id/read", handler.MarkAsRead)
		notifGroup.POST("/read-all", handler.MarkAllAsRead)
	}
	protected.GET("/ws/notifications", handler.Stream)
}
