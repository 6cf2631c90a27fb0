package course

import (
	"edushareqa/internal/domain/auth"
	"edushareqa/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(protected *gin.RouterGroup, h *Handler) {
	admin := protected.Group("/admin/courses", middleware.RequireRole(string(auth.RoleAdmin)))
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.PUT("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.POST("/:id/teachers", h.AssignTeacher)
		admin.DELETE("/:id/teachers/:teacherId", h.UnassignTeacher)
		admin.POST("/:id/students", h.EnrollStudent)
		admin.DELETE("/:id/students/:studentId", h.UnenrollStudent)
	}

	protected.GET("/teacher/courses", middleware.RequireRole(string(auth.RoleTeacher)), h.TeacherCourses)
	protected.GET("/student/courses", middleware.RequireRole(string(auth.RoleStudent)), h.StudentCourses)
	protected.GET("/student/teachers", middleware.RequireRole(string(auth.RoleStudent)), h.StudentTeachers)
}
