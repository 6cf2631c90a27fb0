package qa

import (
	"edushareqa/internal/domain/auth"
	"edushareqa/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(protected *gin.RouterGroup, h *Handler) {
	student := protected.Group("/student/questions", middleware.RequireRole(string(auth.RoleStudent)))
	{
		student.GET("", h.ListOwnQuestions)
		student.POST("", h.CreateQuestion)
		student.GET("/:id", h.GetQuestion)
		student.PUT("/:id", h.UpdateQuestion)
		student.DELETE("/:id", h.DeleteQuestion)
	}

	teacher := protected.Group("/teacher", middleware.RequireRole(string(auth.RoleTeacher)))
	{
		teacher.GET("/questions", h.TeacherListQuestions)
		teacher.GET("/questions/:id", h.TeacherGetQuestion)
		teacher.POST("/answers", h.CreateAnswer)
		teacher.DELETE("/answers/:id", h.DeleteAnswer)
		teacher.GET("/dashboard/stats", h.TeacherStats)
	}

	admin := protected.Group("/admin/questions", middleware.RequireRole(string(auth.RoleAdmin)))
	{
		admin.GET("", h.AdminListQuestions)
		admin.DELETE("/:id", h.AdminDeleteQuestion)
	}
}
