package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-attendance-api/internal/dto"
	"github.com/noah-isme/academy-attendance-api/internal/models"
	"github.com/noah-isme/academy-attendance-api/internal/service"
	appErrors "github.com/noah-isme/academy-attendance-api/pkg/errors"
	"github.com/noah-isme/academy-attendance-api/pkg/response"
)

type directoryService interface {
	Branches(ctx context.Context) []models.Branch
	BranchBatches(ctx context.Context, branchID string) ([]models.Batch, error)
	UnassignedBatches(ctx context.Context) []models.Batch
	Roster(ctx context.Context, batchID string) ([]models.Student, error)
	ListStudents(ctx context.Context, req service.StudentListRequest) (*dto.StudentList, error)
	Coaches(ctx context.Context, branchID string) ([]models.CoachDetail, error)
	AssignCoach(ctx context.Context, batchID, coachID string) (*models.Batch, error)
	UnassignCoach(ctx context.Context, batchID string) (*models.Batch, error)
	UpdateCoach(ctx context.Context, coachID string, req service.UpdateCoachRequest) (*models.Coach, error)
	UpdateBatch(ctx context.Context, batchID string, req service.UpdateBatchRequest) (*models.Batch, error)
}

// DirectoryHandler serves branches, batches, students and coaches.
type DirectoryHandler struct {
	service directoryService
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(service directoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// Branches godoc
// @Summary List branches
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /branches [get]
func (h *DirectoryHandler) Branches(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Branches(c.Request.Context()), nil)
}

// BranchBatches godoc
// @Summary List the batches of a branch
// @Tags Directory
// @Produce json
// @Param id path string true "Branch ID, or all"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /branches/{id}/batches [get]
func (h *DirectoryHandler) BranchBatches(c *gin.Context) {
	batches, err := h.service.BranchBatches(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, nil)
}

// UnassignedBatches godoc
// @Summary List batches without a coach
// @Tags Directory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /batches/unassigned [get]
func (h *DirectoryHandler) UnassignedBatches(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.UnassignedBatches(c.Request.Context()), nil)
}

// Roster godoc
// @Summary List the students of a batch
// @Tags Directory
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/students [get]
func (h *DirectoryHandler) Roster(c *gin.Context) {
	students, err := h.service.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Students godoc
// @Summary Search students
// @Tags Directory
// @Produce json
// @Param branchId query string false "Branch ID, or all"
// @Param batchId query string false "Batch ID"
// @Param feeStatus query string false "paid, due or partial"
// @Param search query string false "Name or phone fragment"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students [get]
func (h *DirectoryHandler) Students(c *gin.Context) {
	page, err := parseQueryInt(c, "page", 1)
	if err != nil {
		response.Error(c, err)
		return
	}
	limit, err := parseQueryInt(c, "limit", 50)
	if err != nil {
		response.Error(c, err)
		return
	}
	req := service.StudentListRequest{
		BranchID:  c.Query("branchId"),
		BatchID:   c.Query("batchId"),
		FeeStatus: c.Query("feeStatus"),
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  limit,
	}
	list, err := h.service.ListStudents(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list.Students, list.Pagination, map[string]interface{}{"fee_summary": list.FeeSummary})
}

// Coaches godoc
// @Summary List coaches with their workload
// @Tags Directory
// @Produce json
// @Param branchId query string false "Branch ID, or all"
// @Success 200 {object} response.Envelope
// @Router /coaches [get]
func (h *DirectoryHandler) Coaches(c *gin.Context) {
	coaches, err := h.service.Coaches(c.Request.Context(), strings.TrimSpace(c.Query("branchId")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coaches, nil)
}

// AssignCoach godoc
// @Summary Assign a coach to a batch
// @Tags Directory
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body dto.AssignCoachRequest true "Coach"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/coach [put]
func (h *DirectoryHandler) AssignCoach(c *gin.Context) {
	var req dto.AssignCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "coach_id is required"))
		return
	}
	batch, err := h.service.AssignCoach(c.Request.Context(), c.Param("id"), req.CoachID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch, nil)
}

// UnassignCoach godoc
// @Summary Remove the coach from a batch
// @Tags Directory
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/coach [delete]
func (h *DirectoryHandler) UnassignCoach(c *gin.Context) {
	batch, err := h.service.UnassignCoach(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch, nil)
}

// UpdateCoach godoc
// @Summary Edit a coach's profile and branch
// @Tags Directory
// @Accept json
// @Produce json
// @Param id path string true "Coach ID"
// @Param payload body service.UpdateCoachRequest true "Coach profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /coaches/{id} [put]
func (h *DirectoryHandler) UpdateCoach(c *gin.Context) {
	var req service.UpdateCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	coach, err := h.service.UpdateCoach(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coach, nil)
}

// UpdateBatch godoc
// @Summary Edit a batch's timing, days and branch
// @Tags Directory
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body service.UpdateBatchRequest true "Batch schedule"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id} [put]
func (h *DirectoryHandler) UpdateBatch(c *gin.Context) {
	var req service.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	batch, err := h.service.UpdateBatch(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch, nil)
}
