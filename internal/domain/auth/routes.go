package auth

import (
	"edushareqa/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)

	profile := protected.Group("/profile")
	{
		profile.GET("/me", h.GetMe)
		profile.PUT("/me", h.UpdateProfile)
		profile.PUT("/password", h.ChangePassword)
	}

	protected.PUT("/admin/teachers/:id", middleware.RequireRole(string(RoleAdmin)), h.UpdateTeacher)

	admin := protected.Group("/admin/users", middleware.RequireRole(string(RoleAdmin)))
	{
		admin.POST("", h.CreateUser)
		admin.GET("", h.ListUsers)
		admin.DELETE("/:id", h.DeleteUser)
	}
}
