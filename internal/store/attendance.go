package store

import (
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/academy-attendance-api/internal/models"
)

// ChangeKind identifies the mutation that produced a ChangeEvent.
type ChangeKind string

const (
	ChangeMarked   ChangeKind = "marked"
	ChangeBulk     ChangeKind = "bulk_marked"
	ChangeReplaced ChangeKind = "replaced"
)

// ChangeEvent is delivered to subscribers after a mutation completes.
type ChangeEvent struct {
	Kind    ChangeKind
	Records []models.AttendanceRecord
}

type recordKey struct {
	studentID string
	date      models.Date
}

// AttendanceStore holds the session's attendance records in insertion order.
// Every query is total: unknown ids simply match nothing.
type AttendanceStore struct {
	mu      sync.RWMutex
	records []models.AttendanceRecord
	index   map[recordKey]int
	newID   func() string

	subMu       sync.Mutex
	subscribers map[int]func(ChangeEvent)
	nextSubID   int
}

// Option customises an AttendanceStore.
type Option func(*AttendanceStore)

// WithIDGenerator overrides the record id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *AttendanceStore) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewAttendanceStore constructs an empty store.
func NewAttendanceStore(opts ...Option) *AttendanceStore {
	s := &AttendanceStore{
		index:       make(map[recordKey]int),
		newID:       uuid.NewString,
		subscribers: make(map[int]func(ChangeEvent)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for change notifications and returns a func that removes it.
func (s *AttendanceStore) Subscribe(fn func(ChangeEvent)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *AttendanceStore) notify(evt ChangeEvent) {
	s.subMu.Lock()
	fns := make([]func(ChangeEvent), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(evt)
	}
}

// upsert must be called with mu held for writing.
func (s *AttendanceStore) upsert(studentID string, date models.Date, status models.AttendanceStatus, branchID string) models.AttendanceRecord {
	key := recordKey{studentID: studentID, date: date}
	if idx, ok := s.index[key]; ok {
		s.records[idx].Status = status
		s.records[idx].BranchID = branchID
		return s.records[idx]
	}
	rec := models.AttendanceRecord{
		ID:        s.newID(),
		StudentID: studentID,
		Date:      date,
		Status:    status,
		BranchID:  branchID,
	}
	s.index[key] = len(s.records)
	s.records = append(s.records, rec)
	return rec
}

// MarkAttendance records status for the student on date, overwriting any earlier mark.
func (s *AttendanceStore) MarkAttendance(studentID string, date models.Date, status models.AttendanceStatus, branchID string) models.AttendanceRecord {
	s.mu.Lock()
	rec := s.upsert(studentID, date, status, branchID)
	s.mu.Unlock()

	s.notify(ChangeEvent{Kind: ChangeMarked, Records: []models.AttendanceRecord{rec}})
	return rec
}

// MarkAllAs marks every roster student with the same status for date.
// Records for other students and other dates are left untouched.
func (s *AttendanceStore) MarkAllAs(roster []models.Student, date models.Date, status models.AttendanceStatus, branchID string) []models.AttendanceRecord {
	if len(roster) == 0 {
		return nil
	}
	s.mu.Lock()
	written := make([]models.AttendanceRecord, 0, len(roster))
	for _, student := range roster {
		written = append(written, s.upsert(student.ID, date, status, branchID))
	}
	s.mu.Unlock()

	s.notify(ChangeEvent{Kind: ChangeBulk, Records: written})
	return written
}

// ReplaceAll swaps the entire record set. When the input repeats a
// (student, date) pair the first occurrence is kept.
func (s *AttendanceStore) ReplaceAll(records []models.AttendanceRecord) {
	next := make([]models.AttendanceRecord, 0, len(records))
	index := make(map[recordKey]int, len(records))
	for _, rec := range records {
		key := recordKey{studentID: rec.StudentID, date: rec.Date}
		if _, dup := index[key]; dup {
			continue
		}
		if rec.ID == "" {
			rec.ID = s.newID()
		}
		index[key] = len(next)
		next = append(next, rec)
	}

	s.mu.Lock()
	s.records = next
	s.index = index
	s.mu.Unlock()

	s.notify(ChangeEvent{Kind: ChangeReplaced, Records: cloneRecords(next)})
}

// GetStatus returns the status marked for the student on date. The boolean is
// false when the pair is unmarked.
func (s *AttendanceStore) GetStatus(studentID string, date models.Date) (models.AttendanceStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[recordKey{studentID: studentID, date: date}]
	if !ok {
		return "", false
	}
	return s.records[idx].Status, true
}

// Records returns a copy of every record in insertion order.
func (s *AttendanceStore) Records() []models.AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records)
}

// Len returns the number of stored records.
func (s *AttendanceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// RecordsOn returns the records dated date. When studentIDs are given only
// those students' records are returned.
func (s *AttendanceStore) RecordsOn(date models.Date, studentIDs ...string) []models.AttendanceRecord {
	var allowed map[string]struct{}
	if len(studentIDs) > 0 {
		allowed = make(map[string]struct{}, len(studentIDs))
		for _, id := range studentIDs {
			allowed[id] = struct{}{}
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AttendanceRecord, 0)
	for _, rec := range s.records {
		if rec.Date != date {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[rec.StudentID]; !ok {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}

// DailyStats counts every record dated date by status. Total is the roster
// size; the counts are not intersected with the roster.
func (s *AttendanceStore) DailyStats(roster []models.Student, date models.Date) models.DailyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TallyDaily(s.records, len(roster), date)
}

// TallyDaily counts records dated date by status.
func TallyDaily(records []models.AttendanceRecord, rosterSize int, date models.Date) models.DailyStats {
	stats := models.DailyStats{Total: rosterSize}
	for _, rec := range records {
		if rec.Date != date {
			continue
		}
		switch rec.Status {
		case models.AttendanceStatusPresent:
			stats.Present++
		case models.AttendanceStatusAbsent:
			stats.Absent++
		case models.AttendanceStatusLeave:
			stats.Leave++
		}
	}
	return stats
}

// DaysOfMonth lists every calendar day of the month in order.
func DaysOfMonth(year int, month time.Month) []models.Date {
	n := models.DaysIn(year, month)
	days := make([]models.Date, n)
	for i := range days {
		days[i] = models.NewDate(year, month, i+1)
	}
	return days
}

// MonthlyStats tallies the student's marks for each day of the month.
func (s *AttendanceStore) MonthlyStats(studentID string, year int, month time.Month) models.MonthlyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.MonthlyStats
	for _, day := range DaysOfMonth(year, month) {
		idx, ok := s.index[recordKey{studentID: studentID, date: day}]
		if !ok {
			continue
		}
		switch s.records[idx].Status {
		case models.AttendanceStatusPresent:
			stats.PresentDays++
		case models.AttendanceStatusAbsent:
			stats.AbsentDays++
		case models.AttendanceStatusLeave:
			stats.LeaveDays++
		}
	}
	stats.TotalMarked = stats.PresentDays + stats.AbsentDays + stats.LeaveDays
	if stats.TotalMarked > 0 {
		stats.AttendancePercentage = round1(float64(stats.PresentDays) / float64(stats.TotalMarked) * 100)
	}
	return stats
}

// YearlyStats tallies every record of the student dated within year.
func (s *AttendanceStore) YearlyStats(studentID string, year int) models.YearlyStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats models.YearlyStats
	for _, rec := range s.records {
		if rec.StudentID != studentID || rec.Date.Year != year {
			continue
		}
		switch rec.Status {
		case models.AttendanceStatusPresent:
			stats.Present++
		case models.AttendanceStatusAbsent:
			stats.Absent++
		case models.AttendanceStatusLeave:
			stats.Leave++
		}
		stats.Total++
	}
	if stats.Total > 0 {
		stats.Percentage = round1(float64(stats.Present) / float64(stats.Total) * 100)
	}
	return stats
}

// MonthlyPercentage returns the whole-number present rate for the month, or
// no data when nothing was marked.
func (s *AttendanceStore) MonthlyPercentage(studentID string, year int, month time.Month) models.MonthPercentage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	present, marked := 0, 0
	for _, day := range DaysOfMonth(year, month) {
		idx, ok := s.index[recordKey{studentID: studentID, date: day}]
		if !ok {
			continue
		}
		marked++
		if s.records[idx].Status == models.AttendanceStatusPresent {
			present++
		}
	}
	if marked == 0 {
		return models.MonthPercentage{}
	}
	return models.MonthPercentage{
		Percent: int(math.Round(float64(present) / float64(marked) * 100)),
		HasData: true,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func cloneRecords(in []models.AttendanceRecord) []models.AttendanceRecord {
	out := make([]models.AttendanceRecord, len(in))
	copy(out, in)
	return out
}
