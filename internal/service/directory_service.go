package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-attendance-api/internal/dto"
	"github.com/noah-isme/academy-attendance-api/internal/models"
	appErrors "github.com/noah-isme/academy-attendance-api/pkg/errors"
)

type academyDirectory interface {
	Branches() []models.Branch
	Branch(id string) (models.Branch, bool)
	BatchesByBranch(branchID string) []models.Batch
	Batch(id string) (models.Batch, bool)
	Roster(batchID string) []models.Student
	Students(filter models.StudentFilter) []models.Student
	Coaches(branchID string) []models.Coach
	Coach(id string) (models.Coach, bool)
	BatchesByCoach(coachID string) []models.Batch
	UnassignedBatches() []models.Batch
	AssignCoach(batchID, coachID string) bool
	UnassignCoach(batchID string) bool
	UpdateCoach(coach models.Coach) bool
	UpdateBatch(batch models.Batch) bool
}

// DirectoryService exposes branches, batches, coaches and students.
type DirectoryService struct {
	directory academyDirectory
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDirectoryService constructs the directory service.
func NewDirectoryService(directory academyDirectory, validate *validator.Validate, logger *zap.Logger) *DirectoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{directory: directory, validator: validate, logger: logger}
}

// Branches lists every branch.
func (s *DirectoryService) Branches(ctx context.Context) []models.Branch {
	return s.directory.Branches()
}

func (s *DirectoryService) requireBranch(branchID string) error {
	if branchID == "" || branchID == models.AllBranchesID {
		return nil
	}
	if _, ok := s.directory.Branch(branchID); !ok {
		return appErrors.Clone(appErrors.ErrBranchNotFound, "")
	}
	return nil
}

// BranchBatches lists the batches of a branch. The "all" branch lists every batch.
func (s *DirectoryService) BranchBatches(ctx context.Context, branchID string) ([]models.Batch, error) {
	if err := s.requireBranch(branchID); err != nil {
		return nil, err
	}
	return s.directory.BatchesByBranch(branchID), nil
}

// UnassignedBatches lists batches without a coach.
func (s *DirectoryService) UnassignedBatches(ctx context.Context) []models.Batch {
	return s.directory.UnassignedBatches()
}

// Roster lists the students enrolled in a batch.
func (s *DirectoryService) Roster(ctx context.Context, batchID string) ([]models.Student, error) {
	if _, ok := s.directory.Batch(batchID); !ok {
		return nil, appErrors.Clone(appErrors.ErrBatchNotFound, "")
	}
	return s.directory.Roster(batchID), nil
}

// StudentListRequest carries the student list filters.
type StudentListRequest struct {
	BranchID  string
	BatchID   string
	FeeStatus string
	Search    string
	Page      int
	PageSize  int
}

// ListStudents filters students and summarises fees over the whole filtered set.
func (s *DirectoryService) ListStudents(ctx context.Context, req StudentListRequest) (*dto.StudentList, error) {
	filter := models.StudentFilter{
		BranchID: strings.TrimSpace(req.BranchID),
		BatchID:  strings.TrimSpace(req.BatchID),
		Search:   req.Search,
	}
	if raw := strings.ToLower(strings.TrimSpace(req.FeeStatus)); raw != "" && raw != "all" {
		status := models.FeeStatus(raw)
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "feeStatus must be paid, due or partial")
		}
		filter.FeeStatus = &status
	}
	if err := s.requireBranch(filter.BranchID); err != nil {
		return nil, err
	}

	matched := s.directory.Students(filter)
	summary := models.FeeSummary{Total: len(matched)}
	for _, st := range matched {
		switch st.FeeStatus {
		case models.FeeStatusPaid:
			summary.Paid++
		case models.FeeStatusDue:
			summary.Due++
		case models.FeeStatusPartial:
			summary.Partial++
		}
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = 50
	}
	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	return &dto.StudentList{
		Students:   matched[start:end],
		FeeSummary: summary,
		Pagination: &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)},
	}, nil
}

// Coaches lists a branch's coaches with their batch and student counts.
func (s *DirectoryService) Coaches(ctx context.Context, branchID string) ([]models.CoachDetail, error) {
	if err := s.requireBranch(branchID); err != nil {
		return nil, err
	}
	coaches := s.directory.Coaches(branchID)
	studentsByBranch := map[string]int{}
	for _, st := range s.directory.Students(models.StudentFilter{}) {
		studentsByBranch[st.BranchID]++
	}
	out := make([]models.CoachDetail, len(coaches))
	for i, c := range coaches {
		out[i] = models.CoachDetail{
			Coach:        c,
			BatchCount:   len(s.directory.BatchesByCoach(c.ID)),
			StudentCount: studentsByBranch[c.BranchID],
		}
	}
	return out, nil
}

// AssignCoach puts a coach in charge of a batch.
func (s *DirectoryService) AssignCoach(ctx context.Context, batchID, coachID string) (*models.Batch, error) {
	if _, ok := s.directory.Batch(batchID); !ok {
		return nil, appErrors.Clone(appErrors.ErrBatchNotFound, "")
	}
	if _, ok := s.directory.Coach(coachID); !ok {
		return nil, appErrors.Clone(appErrors.ErrCoachNotFound, "")
	}
	if !s.directory.AssignCoach(batchID, coachID) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "batch or coach not found")
	}
	batch, _ := s.directory.Batch(batchID)
	s.logger.Info("coach assigned", zap.String("batch_id", batchID), zap.String("coach_id", coachID))
	return &batch, nil
}

// UnassignCoach removes the coach from a batch.
func (s *DirectoryService) UnassignCoach(ctx context.Context, batchID string) (*models.Batch, error) {
	if !s.directory.UnassignCoach(batchID) {
		return nil, appErrors.Clone(appErrors.ErrBatchNotFound, "")
	}
	batch, _ := s.directory.Batch(batchID)
	s.logger.Info("coach unassigned", zap.String("batch_id", batchID))
	return &batch, nil
}

// UpdateCoachRequest is the payload for PUT /coaches/:id.
type UpdateCoachRequest struct {
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone"`
	Email          string `json:"email" validate:"omitempty,email"`
	Experience     int    `json:"experience" validate:"gte=0"`
	Specialization string `json:"specialization"`
	Salary         int    `json:"salary" validate:"gte=0"`
	BranchID       string `json:"branch_id" validate:"required"`
}

// UpdateCoach edits a coach's profile and branch.
func (s *DirectoryService) UpdateCoach(ctx context.Context, coachID string, req UpdateCoachRequest) (*models.Coach, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.BranchID = strings.TrimSpace(req.BranchID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if _, ok := s.directory.Coach(coachID); !ok {
		return nil, appErrors.Clone(appErrors.ErrCoachNotFound, "")
	}
	if _, ok := s.directory.Branch(req.BranchID); !ok {
		return nil, appErrors.Clone(appErrors.ErrBranchNotFound, "")
	}

	coach := models.Coach{
		ID:             coachID,
		Name:           req.Name,
		BranchID:       req.BranchID,
		Experience:     req.Experience,
		Phone:          req.Phone,
		Email:          req.Email,
		Specialization: strings.TrimSpace(req.Specialization),
		Salary:         req.Salary,
	}
	if !s.directory.UpdateCoach(coach) {
		return nil, appErrors.Clone(appErrors.ErrCoachNotFound, "")
	}
	s.logger.Info("coach updated", zap.String("coach_id", coachID), zap.String("branch_id", coach.BranchID))
	return &coach, nil
}

// UpdateBatchRequest is the payload for PUT /batches/:id. Times accept
// "6:00 AM" or "18:00".
type UpdateBatchRequest struct {
	StartTime string   `json:"start_time" validate:"required"`
	EndTime   string   `json:"end_time" validate:"required"`
	Days      []string `json:"days" validate:"required,min=1,unique,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	BranchID  string   `json:"branch_id" validate:"required"`
}

var clockLayouts = []string{"3:04 PM", "3:04PM", "15:04"}

func parseClock(raw string) (time.Time, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", raw)
}

// formatTiming renders the batch timing the way the directory stores it.
func formatTiming(start, end time.Time) string {
	return start.Format("3:04 PM") + " - " + end.Format("3:04 PM")
}

// UpdateBatch edits a batch's timing, days and branch. The coach is kept.
func (s *DirectoryService) UpdateBatch(ctx context.Context, batchID string, req UpdateBatchRequest) (*models.Batch, error) {
	req.BranchID = strings.TrimSpace(req.BranchID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	start, err := parseClock(req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must look like 6:00 AM or 18:00")
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must look like 6:00 AM or 18:00")
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start time must be before end time")
	}

	batch, ok := s.directory.Batch(batchID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrBatchNotFound, "")
	}
	if _, ok := s.directory.Branch(req.BranchID); !ok {
		return nil, appErrors.Clone(appErrors.ErrBranchNotFound, "")
	}

	batch.Timing = formatTiming(start, end)
	batch.Days = append([]string(nil), req.Days...)
	batch.BranchID = req.BranchID
	if !s.directory.UpdateBatch(batch) {
		return nil, appErrors.Clone(appErrors.ErrBatchNotFound, "")
	}
	s.logger.Info("batch updated", zap.String("batch_id", batchID), zap.String("timing", batch.Timing))
	return &batch, nil
}
