package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/academy-attendance-api/internal/dto"
	"github.com/noah-isme/academy-attendance-api/internal/i18n"
	"github.com/noah-isme/academy-attendance-api/internal/models"
	appErrors "github.com/noah-isme/academy-attendance-api/pkg/errors"
)

type dayRecords interface {
	RecordsOn(date models.Date, studentIDs ...string) []models.AttendanceRecord
}

type branchDirectory interface {
	Branches() []models.Branch
	BatchesByBranch(branchID string) []models.Batch
	Students(filter models.StudentFilter) []models.Student
	Coaches(branchID string) []models.Coach
}

// DashboardService composes the per-branch landing summary.
type DashboardService struct {
	records    dayRecords
	directory  branchDirectory
	translator *i18n.Translator
	logger     *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(records dayRecords, directory branchDirectory, translator *i18n.Translator, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{records: records, directory: directory, translator: translator, logger: logger}
}

// Overview returns per-branch counts for date. Present counts use the record's branch.
func (s *DashboardService) Overview(ctx context.Context, date models.Date) (*dto.DashboardOverview, error) {
	if !date.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}

	presentByBranch := map[string]int{}
	for _, rec := range s.records.RecordsOn(date) {
		if rec.Status == models.AttendanceStatusPresent {
			presentByBranch[rec.BranchID]++
		}
	}

	branches := s.directory.Branches()
	overview := &dto.DashboardOverview{
		Date:     date,
		Overall:  dto.BranchOverview{BranchID: models.AllBranchesID, BranchName: s.translator.T(ctx, "dashboard.all_branches")},
		Branches: make([]dto.BranchOverview, len(branches)),
	}
	for i, b := range branches {
		row := dto.BranchOverview{
			BranchID:      b.ID,
			BranchName:    b.Name,
			TotalStudents: len(s.directory.Students(models.StudentFilter{BranchID: b.ID})),
			PresentToday:  presentByBranch[b.ID],
			Coaches:       len(s.directory.Coaches(b.ID)),
			Batches:       len(s.directory.BatchesByBranch(b.ID)),
		}
		overview.Branches[i] = row
		overview.Overall.TotalStudents += row.TotalStudents
		overview.Overall.PresentToday += row.PresentToday
		overview.Overall.Coaches += row.Coaches
		overview.Overall.Batches += row.Batches
	}
	return overview, nil
}
