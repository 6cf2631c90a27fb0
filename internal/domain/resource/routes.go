package resource

import (
	"edushareqa/internal/domain/auth"
	"edushareqa/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(protected *gin.RouterGroup, h *Handler) {
	student := protected.Group("/student/resources", middleware.RequireRole(string(auth.RoleStudent), string(auth.RoleTeacher), string(auth.RoleAdmin)))
	{
		student.GET("", h.List)
		student.POST("", middleware.RequireRole(string(auth.RoleStudent)), h.StudentUpload)
		student.GET("/mine", h.ListMine)
		student.GET("/:id", h.Get)
		student.GET("/:id/download", h.Download)
		student.DELETE("/:id", h.Delete)
	}

	teacher := protected.Group("/teacher/resources", middleware.RequireRole(string(auth.RoleTeacher)))
	{
		teacher.GET("", h.ListMine)
		teacher.POST("", h.TeacherUpload)
		teacher.DELETE("/:id", h.Delete)
	}

	admin := protected.Group("/admin/resources", middleware.RequireRole(string(auth.RoleAdmin)))
	{
		admin.GET("", h.AdminList)
		admin.PUT("/:id", h.AdminUpdate)
		admin.DELETE("/:id", h.AdminDelete)
	}
}
