package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-attendance-api/internal/dto"
	"github.com/noah-isme/academy-attendance-api/internal/middleware"
	"github.com/noah-isme/academy-attendance-api/internal/models"
	"github.com/noah-isme/academy-attendance-api/internal/service"
	appErrors "github.com/noah-isme/academy-attendance-api/pkg/errors"
	"github.com/noah-isme/academy-attendance-api/pkg/response"
)

type attendanceService interface {
	Mark(ctx context.Context, req service.MarkAttendanceRequest) (*models.AttendanceRecord, error)
	MarkBatch(ctx context.Context, req service.BulkMarkRequest) (*dto.BulkMarkResponse, error)
	Status(ctx context.Context, studentID, date string) (*dto.AttendanceStatusResponse, error)
	DailyReport(ctx context.Context, batchID string, date models.Date) (*dto.DailyReport, error)
	MonthlyReport(ctx context.Context, batchID string, year, month int) (*dto.MonthlyReport, error)
	YearlyReport(ctx context.Context, batchID string, year int) (*dto.YearlyReport, bool, error)
	ExportYearly(ctx context.Context, batchID string, year int, format string) (*dto.ExportFile, error)
	Save(ctx context.Context) (*dto.SnapshotJobResponse, error)
	Restore(ctx context.Context) (*dto.RestoreResponse, error)
	LatestSnapshot(ctx context.Context) (*models.AttendanceSnapshot, error)
}

// AttendanceHandler exposes marking, reports and snapshots over HTTP.
type AttendanceHandler struct {
	service attendanceService
	now     func() time.Time
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service, now: time.Now}
}

// Mark godoc
// @Summary Mark one student's attendance
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance mark"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	record, err := h.service.Mark(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// MarkBatch godoc
// @Summary Mark every student of a batch
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.BulkMarkRequest true "Bulk mark"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /attendance/bulk [post]
func (h *AttendanceHandler) MarkBatch(c *gin.Context) {
	var req service.BulkMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	result, err := h.service.MarkBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Status godoc
// @Summary Attendance status of one student on one day
// @Tags Attendance
// @Produce json
// @Param studentId query string true "Student ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/status [get]
func (h *AttendanceHandler) Status(c *gin.Context) {
	result, err := h.service.Status(c.Request.Context(), strings.TrimSpace(c.Query("studentId")), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Daily godoc
// @Summary Daily attendance of a batch
// @Tags Attendance
// @Produce json
// @Param batchId query string true "Batch ID"
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance/daily [get]
func (h *AttendanceHandler) Daily(c *gin.Context) {
	date, err := parseDateParam(c.Query("date"), h.now())
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.DailyReport(c.Request.Context(), strings.TrimSpace(c.Query("batchId")), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Monthly godoc
// @Summary Monthly attendance of a batch
// @Tags Attendance
// @Produce json
// @Param batchId query string true "Batch ID"
// @Param year query int false "Year. Defaults to the current year"
// @Param month query int false "Month 1-12. Defaults to the current month"
// @Success 200 {object} response.Envelope
// @Router /attendance/monthly [get]
func (h *AttendanceHandler) Monthly(c *gin.Context) {
	now := h.now()
	year, err := parseQueryInt(c, "year", now.Year())
	if err != nil {
		response.Error(c, err)
		return
	}
	month, err := parseQueryInt(c, "month", int(now.Month()))
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.MonthlyReport(c.Request.Context(), strings.TrimSpace(c.Query("batchId")), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Yearly godoc
// @Summary Yearly attendance of a batch
// @Tags Attendance
// @Produce json
// @Param batchId query string true "Batch ID"
// @Param year query int false "Year. Defaults to the current year"
// @Success 200 {object} response.Envelope
// @Router /attendance/yearly [get]
func (h *AttendanceHandler) Yearly(c *gin.Context) {
	year, err := parseQueryInt(c, "year", h.now().Year())
	if err != nil {
		response.Error(c, err)
		return
	}
	report, cacheHit, err := h.service.YearlyReport(c.Request.Context(), strings.TrimSpace(c.Query("batchId")), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, report, nil, middleware.ResponseMeta(c))
}

// ExportYearly godoc
// @Summary Download the yearly attendance of a batch
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param batchId query string true "Batch ID"
// @Param year query int false "Year. Defaults to the current year"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param lang query string false "Locale for headings"
// @Success 200 {file} file
// @Router /attendance/yearly/export [get]
func (h *AttendanceHandler) ExportYearly(c *gin.Context) {
	year, err := parseQueryInt(c, "year", h.now().Year())
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.ExportYearly(c.Request.Context(), strings.TrimSpace(c.Query("batchId")), year, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// Save godoc
// @Summary Queue a snapshot of all attendance records
// @Tags Attendance
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /attendance/save [post]
func (h *AttendanceHandler) Save(c *gin.Context) {
	job, err := h.service.Save(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// Snapshot godoc
// @Summary Describe the most recently saved snapshot
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /attendance/snapshot [get]
func (h *AttendanceHandler) Snapshot(c *gin.Context) {
	snapshot, err := h.service.LatestSnapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}

// Restore godoc
// @Summary Replace attendance records with the saved snapshot
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /attendance/restore [post]
func (h *AttendanceHandler) Restore(c *gin.Context) {
	result, err := h.service.Restore(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
