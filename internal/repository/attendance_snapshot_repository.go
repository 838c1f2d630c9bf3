package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academy-attendance-api/internal/models"
)

const attendanceSchema = `CREATE TABLE IF NOT EXISTS attendance_records (
    id TEXT PRIMARY KEY,
    student_id TEXT NOT NULL,
    date DATE NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('present', 'absent', 'leave')),
    branch_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    UNIQUE (student_id, date)
);
CREATE TABLE IF NOT EXISTS attendance_snapshots (
    id TEXT PRIMARY KEY,
    saved_at TIMESTAMPTZ NOT NULL,
    record_count INTEGER NOT NULL
)`

// AttendanceSnapshotRepository persists whole copies of the in-memory attendance set.
type AttendanceSnapshotRepository struct {
	db *sqlx.DB
}

// NewAttendanceSnapshotRepository constructs the repository.
func NewAttendanceSnapshotRepository(db *sqlx.DB) *AttendanceSnapshotRepository {
	return &AttendanceSnapshotRepository{db: db}
}

// EnsureSchema creates the snapshot tables when missing.
func (r *AttendanceSnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, attendanceSchema); err != nil {
		return fmt.Errorf("ensure attendance schema: %w", err)
	}
	return nil
}

// Save replaces the stored records with records inside a single transaction.
func (r *AttendanceSnapshotRepository) Save(ctx context.Context, records []models.AttendanceRecord) (*models.AttendanceSnapshot, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin attendance snapshot: %w", err)
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records`); err != nil {
		return nil, fmt.Errorf("clear attendance records: %w", err)
	}

	insert := `INSERT INTO attendance_records (id, student_id, date, status, branch_id, position)
VALUES ($1, $2, $3, $4, $5, $6)`
	for i, rec := range records {
		if _, err := tx.ExecContext(ctx, insert, rec.ID, rec.StudentID, rec.Date, rec.Status, rec.BranchID, i); err != nil {
			return nil, fmt.Errorf("insert attendance record %s: %w", rec.ID, err)
		}
	}

	snapshot := &models.AttendanceSnapshot{
		ID:          uuid.NewString(),
		SavedAt:     time.Now().UTC(),
		RecordCount: len(records),
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO attendance_snapshots (id, saved_at, record_count) VALUES ($1, $2, $3)`,
		snapshot.ID, snapshot.SavedAt, snapshot.RecordCount); err != nil {
		return nil, fmt.Errorf("insert attendance snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attendance snapshot: %w", err)
	}
	commit = true
	return snapshot, nil
}

// Load returns the stored records in their saved order.
func (r *AttendanceSnapshotRepository) Load(ctx context.Context) ([]models.AttendanceRecord, error) {
	query := `SELECT id, student_id, date, status, branch_id FROM attendance_records ORDER BY position ASC`
	var rows []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load attendance records: %w", err)
	}
	return rows, nil
}

// Latest returns metadata for the most recent snapshot, or nil when none exists.
func (r *AttendanceSnapshotRepository) Latest(ctx context.Context) (*models.AttendanceSnapshot, error) {
	query := `SELECT id, saved_at, record_count FROM attendance_snapshots ORDER BY saved_at DESC LIMIT 1`
	var snapshot models.AttendanceSnapshot
	if err := r.db.GetContext(ctx, &snapshot, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest attendance snapshot: %w", err)
	}
	return &snapshot, nil
}
