package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-attendance-api/internal/dto"
	"github.com/noah-isme/academy-attendance-api/internal/i18n"
	"github.com/noah-isme/academy-attendance-api/internal/models"
	"github.com/noah-isme/academy-attendance-api/internal/store"
	appErrors "github.com/noah-isme/academy-attendance-api/pkg/errors"
	"github.com/noah-isme/academy-attendance-api/pkg/export"
	"github.com/noah-isme/academy-attendance-api/pkg/jobs"
)

const (
	yearlyCachePrefix = "yearly:"
	snapshotJobType   = "attendance.snapshot"

	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type attendanceStore interface {
	MarkAttendance(studentID string, date models.Date, status models.AttendanceStatus, branchID string) models.AttendanceRecord
	MarkAllAs(roster []models.Student, date models.Date, status models.AttendanceStatus, branchID string) []models.AttendanceRecord
	ReplaceAll(records []models.AttendanceRecord)
	GetStatus(studentID string, date models.Date) (models.AttendanceStatus, bool)
	Records() []models.AttendanceRecord
	Len() int
	RecordsOn(date models.Date, studentIDs ...string) []models.AttendanceRecord
	MonthlyStats(studentID string, year int, month time.Month) models.MonthlyStats
	YearlyStats(studentID string, year int) models.YearlyStats
	MonthlyPercentage(studentID string, year int, month time.Month) models.MonthPercentage
	Subscribe(fn func(store.ChangeEvent)) func()
}

type rosterDirectory interface {
	Branch(id string) (models.Branch, bool)
	Batch(id string) (models.Batch, bool)
	Roster(batchID string) []models.Student
	Student(id string) (models.Student, bool)
}

type snapshotRepository interface {
	Save(ctx context.Context, records []models.AttendanceRecord) (*models.AttendanceSnapshot, error)
	Load(ctx context.Context) ([]models.AttendanceRecord, error)
	Latest(ctx context.Context) (*models.AttendanceSnapshot, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) (string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

var contentTypes = map[string]string{
	ExportFormatCSV: export.ContentTypeCSV,
	ExportFormatPDF: export.ContentTypePDF,
}

func defaultRenderers() map[string]datasetRenderer {
	return map[string]datasetRenderer{
		ExportFormatCSV: export.NewCSVExporter(),
		ExportFormatPDF: export.NewPDFExporter(),
	}
}

// AttendanceService validates requests and builds reports on top of the attendance store.
type AttendanceService struct {
	store      attendanceStore
	directory  rosterDirectory
	cache      *CacheService
	metrics    *MetricsService
	translator *i18n.Translator
	renderers  map[string]datasetRenderer
	validator  *validator.Validate
	logger     *zap.Logger

	snapshots snapshotRepository
	queue     jobEnqueuer

	generation  uint64
	unsubscribe func()
}

// NewAttendanceService constructs the attendance service and subscribes it to store changes.
func NewAttendanceService(st attendanceStore, dir rosterDirectory, cache *CacheService, metrics *MetricsService, translator *i18n.Translator, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{
		store:      st,
		directory:  dir,
		cache:      cache,
		metrics:    metrics,
		translator: translator,
		renderers:  defaultRenderers(),
		validator:  validate,
		logger:     logger,
	}
	svc.validator.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		_, err := models.ParseAttendanceStatus(fl.Field().String())
		return err == nil
	})
	svc.validator.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})
	svc.unsubscribe = st.Subscribe(svc.onChange)
	return svc
}

// EnablePersistence attaches the snapshot repository and the queue that runs saves.
func (s *AttendanceService) EnablePersistence(repo snapshotRepository, queue jobEnqueuer) {
	s.snapshots = repo
	s.queue = queue
}

// Close detaches the service from the store.
func (s *AttendanceService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *AttendanceService) onChange(evt store.ChangeEvent) {
	atomic.AddUint64(&s.generation, 1)
	if evt.Kind != store.ChangeReplaced {
		s.metrics.RecordMarks(evt.Records)
	}
	s.metrics.SetRecordCount(s.store.Len())
	s.cache.Invalidate(context.Background(), yearlyCachePrefix)
}

// MarkAttendanceRequest is the payload for POST /attendance.
type MarkAttendanceRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required,calendar_date"`
	Status    string `json:"status" validate:"required,attendance_status"`
	BranchID  string `json:"branch_id"`
}

// BulkMarkRequest is the payload for POST /attendance/bulk.
type BulkMarkRequest struct {
	BatchID string `json:"batch_id" validate:"required"`
	Date    string `json:"date" validate:"required,calendar_date"`
	Status  string `json:"status" validate:"required,attendance_status"`
}

// Mark records a single student's status for a day.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	student, ok := s.directory.Student(req.StudentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "")
	}
	date, _ := models.ParseDate(req.Date)
	status, _ := models.ParseAttendanceStatus(req.Status)
	branchID := strings.TrimSpace(req.BranchID)
	if branchID == "" {
		branchID = student.BranchID
	}
	rec := s.store.MarkAttendance(student.ID, date, status, branchID)
	s.logger.Debug("attendance marked",
		zap.String("student_id", rec.StudentID),
		zap.String("date", rec.Date.String()),
		zap.String("status", string(rec.Status)),
	)
	return &rec, nil
}

// MarkBatch marks every student of a batch with the same status on one day.
func (s *AttendanceService) MarkBatch(ctx context.Context, req BulkMarkRequest) (*dto.BulkMarkResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	batch, ok := s.directory.Batch(req.BatchID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrBatchNotFound, "")
	}
	date, _ := models.ParseDate(req.Date)
	status, _ := models.ParseAttendanceStatus(req.Status)
	records := s.store.MarkAllAs(s.directory.Roster(batch.ID), date, status, batch.BranchID)
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	s.logger.Info("batch attendance marked",
		zap.String("batch_id", batch.ID),
		zap.String("date", date.String()),
		zap.String("status", string(status)),
		zap.Int("count", len(records)),
	)
	return &dto.BulkMarkResponse{BatchID: batch.ID, Date: date, Status: status, Count: len(records), Records: records}, nil
}

// Status looks up one student's mark. An unmarked day is not an error.
func (s *AttendanceService) Status(ctx context.Context, studentID, rawDate string) (*dto.AttendanceStatusResponse, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	date, err := models.ParseDate(rawDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}
	resp := &dto.AttendanceStatusResponse{StudentID: studentID, Date: date}
	if status, ok := s.store.GetStatus(studentID, date); ok {
		resp.Status = &status
		resp.Marked = true
	}
	return resp, nil
}

func (s *AttendanceService) roster(batchID string) (models.Batch, []models.Student, error) {
	if strings.TrimSpace(batchID) == "" {
		return models.Batch{}, nil, appErrors.Clone(appErrors.ErrValidation, "batchId is required")
	}
	batch, ok := s.directory.Batch(batchID)
	if !ok {
		return models.Batch{}, nil, appErrors.Clone(appErrors.ErrBatchNotFound, "")
	}
	return batch, s.directory.Roster(batch.ID), nil
}

func validYear(year int) error {
	if year < 1 || year > 9999 {
		return appErrors.Clone(appErrors.ErrValidation, "year must be between 1 and 9999")
	}
	return nil
}

// DailyReport returns the batch's counts and per-student statuses for a day.
// Counts only include records of students on the roster.
func (s *AttendanceService) DailyReport(ctx context.Context, batchID string, date models.Date) (*dto.DailyReport, error) {
	if !date.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date")
	}
	batch, roster, err := s.roster(batchID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(roster))
	for i, st := range roster {
		ids[i] = st.ID
	}
	records := s.store.RecordsOn(date, ids...)
	byStudent := make(map[string]models.AttendanceStatus, len(records))
	for _, rec := range records {
		if _, seen := byStudent[rec.StudentID]; !seen {
			byStudent[rec.StudentID] = rec.Status
		}
	}

	report := &dto.DailyReport{
		BatchID:  batch.ID,
		Date:     date,
		Stats:    store.TallyDaily(records, len(roster), date),
		Students: make([]dto.StudentDayStatus, len(roster)),
	}
	for i, st := range roster {
		row := dto.StudentDayStatus{StudentID: st.ID, StudentName: st.Name}
		if status, ok := byStudent[st.ID]; ok {
			row.Status = &status
		}
		report.Students[i] = row
	}
	return report, nil
}

// MonthlyReport returns per-student statistics for a month.
func (s *AttendanceService) MonthlyReport(ctx context.Context, batchID string, year, month int) (*dto.MonthlyReport, error) {
	if err := validYear(year); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	batch, roster, err := s.roster(batchID)
	if err != nil {
		return nil, err
	}
	m := time.Month(month)
	report := &dto.MonthlyReport{
		BatchID:     batch.ID,
		Year:        year,
		Month:       month,
		DaysInMonth: models.DaysIn(year, m),
		Students:    make([]dto.StudentMonthlyRow, len(roster)),
	}
	for i, st := range roster {
		report.Students[i] = dto.StudentMonthlyRow{
			StudentID:   st.ID,
			StudentName: st.Name,
			Stats:       s.store.MonthlyStats(st.ID, year, m),
		}
	}
	return report, nil
}

func yearlyCacheKey(batchID string, year int) string {
	return fmt.Sprintf("%s%s:%d", yearlyCachePrefix, batchID, year)
}

// YearlyReport returns yearly totals and monthly percentages per student, and
// whether the report came from the cache.
func (s *AttendanceService) YearlyReport(ctx context.Context, batchID string, year int) (*dto.YearlyReport, bool, error) {
	if err := validYear(year); err != nil {
		return nil, false, err
	}
	batch, roster, err := s.roster(batchID)
	if err != nil {
		return nil, false, err
	}

	key := yearlyCacheKey(batch.ID, year)
	var cached dto.YearlyReport
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	gen := atomic.LoadUint64(&s.generation)
	report := &dto.YearlyReport{BatchID: batch.ID, Year: year, Students: make([]dto.StudentYearlyRow, len(roster))}
	for i, st := range roster {
		row := dto.StudentYearlyRow{
			StudentID:   st.ID,
			StudentName: st.Name,
			Stats:       s.store.YearlyStats(st.ID, year),
		}
		for m := time.January; m <= time.December; m++ {
			row.Months[m-1] = s.store.MonthlyPercentage(st.ID, year, m)
		}
		report.Students[i] = row
	}
	// A change during the build makes the result stale for the cache.
	if atomic.LoadUint64(&s.generation) == gen {
		s.cache.Set(ctx, key, report)
	}
	return report, false, nil
}

// ExportYearly renders the yearly report as CSV or PDF using the locale on ctx.
func (s *AttendanceService) ExportYearly(ctx context.Context, batchID string, year int, format string) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	report, _, err := s.YearlyReport(ctx, batchID, year)
	if err != nil {
		return nil, err
	}
	batch, _ := s.directory.Batch(report.BatchID)
	branch, _ := s.directory.Branch(batch.BranchID)

	data, err := renderer.Render(s.yearlyDataset(ctx, report, batch, branch))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("attendance-%s-%d.%s", report.BatchID, report.Year, format),
		ContentType: contentTypes[format],
		Data:        data,
	}, nil
}

func (s *AttendanceService) yearlyDataset(ctx context.Context, report *dto.YearlyReport, batch models.Batch, branch models.Branch) export.Dataset {
	t := s.translator
	student := t.T(ctx, "export.column.student")
	present := t.T(ctx, "export.column.present")
	absent := t.T(ctx, "export.column.absent")
	leave := t.T(ctx, "export.column.leave")
	total := t.T(ctx, "export.column.total")
	percentage := t.T(ctx, "export.column.percentage")

	months := make([]string, 12)
	for i := range months {
		months[i] = t.T(ctx, "month."+strconv.Itoa(i+1))
	}

	headers := append([]string{student}, months...)
	headers = append(headers, present, absent, leave, total, percentage)

	rows := make([]map[string]string, len(report.Students))
	for i, st := range report.Students {
		row := map[string]string{
			student:    st.StudentName,
			present:    strconv.Itoa(st.Stats.Present),
			absent:     strconv.Itoa(st.Stats.Absent),
			leave:      strconv.Itoa(st.Stats.Leave),
			total:      strconv.Itoa(st.Stats.Total),
			percentage: strconv.FormatFloat(st.Stats.Percentage, 'f', 1, 64) + "%",
		}
		for m, cell := range st.Months {
			row[months[m]] = cell.String()
		}
		rows[i] = row
	}

	return export.Dataset{
		Title:    t.T(ctx, "export.yearly.title", map[string]any{"Year": report.Year}),
		Subtitle: t.T(ctx, "export.yearly.subtitle", map[string]any{"Batch": batch.Name, "Branch": branch.Name}),
		Headers:  headers,
		Rows:     rows,
	}
}

// Save queues a snapshot of the current records for persistence.
func (s *AttendanceService) Save(ctx context.Context) (*dto.SnapshotJobResponse, error) {
	if s.snapshots == nil || s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrPersistenceDisabled, "")
	}
	records := s.store.Records()
	id, err := s.queue.Enqueue(jobs.Job{Type: snapshotJobType, Payload: records})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "snapshot queue unavailable")
	}
	s.logger.Info("attendance snapshot queued", zap.String("job_id", id), zap.Int("records", len(records)))
	return &dto.SnapshotJobResponse{JobID: id, RecordCount: len(records)}, nil
}

// HandleSnapshotJob persists a queued snapshot. It is the queue's job handler.
func (s *AttendanceService) HandleSnapshotJob(ctx context.Context, job jobs.Job) error {
	if s.snapshots == nil {
		return fmt.Errorf("persistence is disabled")
	}
	records, ok := job.Payload.([]models.AttendanceRecord)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	snapshot, err := s.snapshots.Save(ctx, records)
	s.metrics.RecordSnapshot("save", err)
	if err != nil {
		return err
	}
	s.logger.Info("attendance snapshot saved",
		zap.String("job_id", job.ID),
		zap.String("snapshot_id", snapshot.ID),
		zap.Int("records", snapshot.RecordCount),
	)
	return nil
}

// LatestSnapshot describes the most recently persisted snapshot.
func (s *AttendanceService) LatestSnapshot(ctx context.Context) (*models.AttendanceSnapshot, error) {
	if s.snapshots == nil {
		return nil, appErrors.Clone(appErrors.ErrPersistenceDisabled, "")
	}
	snapshot, err := s.snapshots.Latest(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read snapshot")
	}
	if snapshot == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no snapshot saved yet")
	}
	return snapshot, nil
}

// Restore replaces the in-memory records with the persisted snapshot.
func (s *AttendanceService) Restore(ctx context.Context) (*dto.RestoreResponse, error) {
	if s.snapshots == nil {
		return nil, appErrors.Clone(appErrors.ErrPersistenceDisabled, "")
	}
	records, err := s.snapshots.Load(ctx)
	s.metrics.RecordSnapshot("restore", err)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load snapshot")
	}
	s.store.ReplaceAll(records)
	s.logger.Info("attendance snapshot restored", zap.Int("records", len(records)))
	return &dto.RestoreResponse{RecordCount: s.store.Len()}, nil
}
