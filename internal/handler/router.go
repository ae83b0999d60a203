package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/luct-reporting-api/internal/middleware"
	"github.com/noah-isme/luct-reporting-api/internal/models"
	"github.com/noah-isme/luct-reporting-api/internal/service"
)

// RouterParams bundles everything mounted under the API prefix.
type RouterParams struct {
	Prefix         string
	TokenValidator middleware.TokenValidator
	Metrics        *service.MetricsService

	Health        *HealthHandler
	Auth          *AuthHandler
	Lecturer      *LecturerHandler
	PRL           *PRLHandler
	PL            *PLHandler
	Reporting     *ReportingHandler
	Student       *StudentHandler
	Notifications *NotificationHandler
	Classes       *ClassHandler
}

// RegisterRoutes mounts probes at the root and the portal API under Prefix.
func RegisterRoutes(r *gin.Engine, p RouterParams) {
	if p.Metrics != nil {
		r.Use(middleware.Metrics(p.Metrics))
		r.GET("/metrics", p.Health.Prometheus)
	}
	r.GET("/health", p.Health.Health)
	r.GET("/ready", p.Health.Ready)

	api := r.Group(p.Prefix)
	api.Use(middleware.WithResponseMeta())
	authn := middleware.JWT(p.TokenValidator)

	auth := api.Group("/auth")
	auth.POST("/register", p.Auth.Register)
	auth.POST("/login", p.Auth.Login)
	auth.GET("/streams", p.Auth.Streams)
	auth.GET("/me", authn, p.Auth.Me)

	lecturer := api.Group("/lecturer", authn, middleware.RequireRole(models.RoleLecturer))
	lecturer.GET("/classes", p.Lecturer.Classes)
	lecturer.GET("/streams", p.Lecturer.Streams)
	lecturer.GET("/streams/:streamId/modules", p.Lecturer.StreamModules)
	lecturer.GET("/reports", p.Lecturer.Reports)
	lecturer.POST("/reports", p.Lecturer.SubmitReport)
	lecturer.GET("/modules/:moduleId/students", p.Lecturer.ModuleStudents)
	lecturer.GET("/monitoring", p.Lecturer.Monitoring)
	lecturer.GET("/prls", p.Lecturer.PRLs)
	lecturer.POST("/rate-prl", p.Lecturer.RatePRL)

	prl := api.Group("/prl", authn, middleware.RequireRole(models.RolePRL))
	prl.GET("/courses", p.PRL.Courses)
	prl.GET("/reports", p.PRL.Reports)
	prl.PUT("/reports/:id/feedback", p.PRL.Feedback)
	prl.GET("/lecturers", p.PRL.Lecturers)
	prl.GET("/stream", p.PRL.Stream)
	prl.POST("/rate-lecturer", p.PRL.RateLecturer)

	pl := api.Group("/pl", authn, middleware.RequireRole(models.RolePL))
	pl.GET("/courses", p.PL.Courses)
	pl.POST("/courses", p.PL.CreateCourse)
	pl.PUT("/courses/:id/assign-lecturer", p.PL.AssignLecturer)
	pl.GET("/reports", p.PL.Reports)
	pl.GET("/reports/export", p.PL.ExportReports)
	pl.PUT("/reports/:id/feedback", p.PL.Feedback)
	pl.GET("/lecturers", p.PL.Lecturers)
	pl.GET("/prls", p.PL.PRLs)
	pl.GET("/streams", p.PL.Streams)
	pl.GET("/dashboard", p.PL.Dashboard)
	pl.GET("/all-ratings", p.PL.AllRatings)
	pl.POST("/rate-prl", p.PL.RatePRL)

	reporting := api.Group("/reporting", authn)
	reporting.POST("/ratings", p.Reporting.SubmitRating)
	reporting.GET("/ratings/:userId", p.Reporting.UserRatings)
	reporting.GET("/my-ratings", p.Reporting.MyRatings)
	reporting.GET("/reports/:id", p.Reporting.Report)
	reporting.GET("/monitoring/recent", p.Reporting.Recent)
	reporting.GET("/monitoring/streams", p.Reporting.StreamStats)

	student := api.Group("/student", authn, middleware.RequireRole(models.RoleStudent))
	student.GET("/modules", p.Student.Modules)
	student.GET("/stream-lecturers", p.Student.StreamLecturers)
	student.GET("/attendance", p.Student.Attendance)
	student.POST("/attendance", p.Student.MarkAttendance)
	student.GET("/complaints", p.Student.Complaints)
	student.POST("/complaints", p.Student.SubmitComplaint)

	notifications := api.Group("/notifications", authn)
	notifications.GET("", p.Notifications.List)
	notifications.GET("/unread-count", p.Notifications.UnreadCount)
	notifications.PUT("/mark-all-read", p.Notifications.MarkAllRead)
	notifications.PUT("/:id/read", p.Notifications.MarkRead)
	notifications.DELETE("/:id", p.Notifications.Delete)

	classes := api.Group("/classes", authn, middleware.RequireRoles(models.RoleLecturer, models.RolePRL, models.RolePL))
	classes.GET("/:moduleId/students", p.Classes.Students)
	classes.POST("/:moduleId/students", p.Classes.Enroll)
	classes.DELETE("/:moduleId/students/:studentId", p.Classes.Remove)
}
