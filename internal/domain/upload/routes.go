package upload

import "github.com/gin-gonic/gin"

func RegisterRoutes(protected *gin.RouterGroup, h *Handler) {
	protected.GET("/uploads/*filepath", h.Download)
}
