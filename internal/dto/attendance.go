package dto

import "github.com/noah-isme/academy-attendance-api/internal/models"

// AttendanceStatusResponse answers a single (student, date) lookup. Status is nil when unmarked.
type AttendanceStatusResponse struct {
	StudentID string                   `json:"student_id"`
	Date      models.Date              `json:"date"`
	Status    *models.AttendanceStatus `json:"status"`
	Marked    bool                     `json:"marked"`
}

// BulkMarkResponse summarises a batch-wide mark.
type BulkMarkResponse struct {
	BatchID string                    `json:"batch_id"`
	Date    models.Date               `json:"date"`
	Status  models.AttendanceStatus   `json:"status"`
	Count   int                       `json:"count"`
	Records []models.AttendanceRecord `json:"records"`
}

// StudentDayStatus is one roster row of a daily report.
type StudentDayStatus struct {
	StudentID   string                   `json:"student_id"`
	StudentName string                   `json:"student_name"`
	Status      *models.AttendanceStatus `json:"status"`
}

// DailyReport lists a batch's attendance on one day.
type DailyReport struct {
	BatchID  string             `json:"batch_id"`
	Date     models.Date        `json:"date"`
	Stats    models.DailyStats  `json:"stats"`
	Students []StudentDayStatus `json:"students"`
}

// StudentMonthlyRow is one roster row of a monthly report.
type StudentMonthlyRow struct {
	StudentID   string              `json:"student_id"`
	StudentName string              `json:"student_name"`
	Stats       models.MonthlyStats `json:"stats"`
}

// MonthlyReport lists per-student statistics for a month.
type MonthlyReport struct {
	BatchID     string              `json:"batch_id"`
	Year        int                 `json:"year"`
	Month       int                 `json:"month"`
	DaysInMonth int                 `json:"days_in_month"`
	Students    []StudentMonthlyRow `json:"students"`
}

// StudentYearlyRow is one roster row of a yearly report. Months[0] is January.
type StudentYearlyRow struct {
	StudentID   string                     `json:"student_id"`
	StudentName string                     `json:"student_name"`
	Stats       models.YearlyStats         `json:"stats"`
	Months      [12]models.MonthPercentage `json:"months"`
}

// YearlyReport lists per-student statistics for a calendar year.
type YearlyReport struct {
	BatchID  string             `json:"batch_id"`
	Year     int                `json:"year"`
	Students []StudentYearlyRow `json:"students"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SnapshotJobResponse is returned when a save is queued.
type SnapshotJobResponse struct {
	JobID       string `json:"job_id"`
	RecordCount int    `json:"record_count"`
}

// RestoreResponse reports how many records were loaded.
type RestoreResponse struct {
	RecordCount int `json:"record_count"`
}
