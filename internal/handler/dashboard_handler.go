package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-attendance-api/internal/dto"
	"github.com/noah-isme/academy-attendance-api/internal/models"
	"github.com/noah-isme/academy-attendance-api/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context, date models.Date) (*dto.DashboardOverview, error)
}

// DashboardHandler serves the landing summary.
type DashboardHandler struct {
	service dashboardService
	now     func() time.Time
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service, now: time.Now}
}

// Overview godoc
// @Summary Per-branch students, coaches, batches and today's presence
// @Tags Dashboard
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD). Defaults to today"
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	date, err := parseDateParam(c.Query("date"), h.now())
	if err != nil {
		response.Error(c, err)
		return
	}
	overview, err := h.service.Overview(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}
