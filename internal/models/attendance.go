package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLeave   AttendanceStatus = "leave"
)

// AttendanceStatuses lists every status in display order.
var AttendanceStatuses = []AttendanceStatus{AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLeave}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLeave:
		return true
	default:
		return false
	}
}

// ParseAttendanceStatus normalises raw input into a status.
func ParseAttendanceStatus(raw string) (AttendanceStatus, error) {
	status := AttendanceStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown attendance status %q", raw)
	}
	return status, nil
}

// AttendanceRecord is a single mark for a student on a calendar day.
type AttendanceRecord struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	Date      Date             `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	BranchID  string           `db:"branch_id" json:"branch_id"`
}

// DailyStats summarises a single day.
type DailyStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Leave   int `json:"leave"`
}

// MonthlyStats summarises a student's month. Unmarked days count nowhere.
type MonthlyStats struct {
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	LeaveDays            int     `json:"leave_days"`
	TotalMarked          int     `json:"total_marked"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// YearlyStats summarises a student's calendar year.
type YearlyStats struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Leave      int     `json:"leave"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// NoDataMarker is rendered for months without any marked day.
const NoDataMarker = "-"

// MonthPercentage is a whole-number monthly attendance rate, or no data.
type MonthPercentage struct {
	Percent int
	HasData bool
}

// String renders "-" when no day was marked, otherwise "<n>%".
func (p MonthPercentage) String() string {
	if !p.HasData {
		return NoDataMarker
	}
	return strconv.Itoa(p.Percent) + "%"
}

// MarshalJSON encodes the percentage as a number, or null without data.
func (p MonthPercentage) MarshalJSON() ([]byte, error) {
	if !p.HasData {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(p.Percent)), nil
}

// UnmarshalJSON accepts a number or null.
func (p *MonthPercentage) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*p = MonthPercentage{}
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("decode month percentage: %w", err)
	}
	*p = MonthPercentage{Percent: n, HasData: true}
	return nil
}

// AttendanceSnapshot describes one persisted copy of the record set.
type AttendanceSnapshot struct {
	ID          string    `db:"id" json:"id"`
	SavedAt     time.Time `db:"saved_at" json:"saved_at"`
	RecordCount int       `db:"record_count" json:"record_count"`
}
