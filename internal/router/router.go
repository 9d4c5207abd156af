package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/handler"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/middleware"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/service"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Students    *handler.StudentHandler
	Assignments *handler.AssignmentHandler
	Calls       *handler.CallHandler
	Users       *handler.UserHandler
	Dashboard   *handler.DashboardHandler
	Audit       *handler.AuditHandler
}

// Register mounts all API routes on the engine.
func Register(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService, metrics *service.MetricsService) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))

	authed.GET("/auth/check", h.Auth.Check)

	staff := authed.Group("")
	staff.Use(middleware.RequireRoles(models.RoleTeacher, models.RoleSubAdmin, models.RoleSuperAdmin))
	{
		staff.GET("/teacher/students", h.Students.TeacherStudents)
		staff.GET("/teacher/performance/:teacher", h.Calls.Performance)
		staff.PUT("/students/:id/preferred-unit", h.Assignments.RecordPreference)
		staff.POST("/call-update", h.Calls.Record)
		staff.GET("/students/:id/calls", h.Calls.History)
	}

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleSuperAdmin))
	{
		admin.GET("/students", h.Students.List)
		admin.GET("/students/:id", h.Students.Get)
		admin.POST("/students/import", h.Students.Import)

		admin.GET("/admin/unassigned-students", h.Assignments.Unassigned)
		admin.GET("/admin/unassigned-students/export", h.Dashboard.ExportUnassignedCSV)
		admin.GET("/admin/reassignment-queue", h.Assignments.ReassignmentQueue)
		admin.GET("/admin/teachers-by-unit/:unit", h.Users.TeachersByUnit)
		admin.PUT("/admin/students/:id/assign", h.Assignments.Ensure)
		admin.PUT("/admin/students/:id/assign-sub-admin", h.Assignments.AssignSubAdmin)
		admin.PUT("/admin/students/:id/reassign", h.Assignments.Reassign)

		admin.GET("/users", h.Users.List)
		admin.PUT("/users/:id/status", h.Users.SetStatus)
		admin.PUT("/users/:id/reset-password", h.Users.ResetPassword)
		admin.POST("/users/import", h.Users.Import)

		admin.GET("/dashboard/summary", h.Dashboard.Summary)
		admin.GET("/dashboard/summary/export", h.Dashboard.ExportSummaryPDF)

		admin.GET("/audit-logs", h.Audit.Recent)
	}
}
