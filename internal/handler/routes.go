package handler

import "github.com/gin-gonic/gin"

// Handlers groups the API handlers mounted under the API prefix.
type Handlers struct {
	Attendance *AttendanceHandler
	Directory  *DirectoryHandler
	Dashboard  *DashboardHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts every API route on group.
func RegisterRoutes(group *gin.RouterGroup, h Handlers) {
	group.GET("/branches", h.Directory.Branches)
	group.GET("/branches/:id/batches", h.Directory.BranchBatches)
	group.GET("/batches/unassigned", h.Directory.UnassignedBatches)
	group.PUT("/batches/:id", h.Directory.UpdateBatch)
	group.GET("/batches/:id/students", h.Directory.Roster)
	group.PUT("/batches/:id/coach", h.Directory.AssignCoach)
	group.DELETE("/batches/:id/coach", h.Directory.UnassignCoach)
	group.GET("/students", h.Directory.Students)
	group.GET("/coaches", h.Directory.Coaches)
	group.PUT("/coaches/:id", h.Directory.UpdateCoach)

	attendance := group.Group("/attendance")
	attendance.POST("", h.Attendance.Mark)
	attendance.POST("/bulk", h.Attendance.MarkBatch)
	attendance.GET("/status", h.Attendance.Status)
	attendance.GET("/daily", h.Attendance.Daily)
	attendance.GET("/monthly", h.Attendance.Monthly)
	attendance.GET("/yearly", h.Attendance.Yearly)
	attendance.GET("/yearly/export", h.Attendance.ExportYearly)
	attendance.POST("/save", h.Attendance.Save)
	attendance.GET("/snapshot", h.Attendance.Snapshot)
	attendance.POST("/restore", h.Attendance.Restore)

	group.GET("/dashboard", h.Dashboard.Overview)

	if h.Metrics != nil {
		group.GET("/metrics/summary", h.Metrics.Summary)
	}
}
