package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
)

// CallLogRepository appends outreach attempts and keeps student status in
// step with them.
type CallLogRepository struct {
	db *sqlx.DB
}

// NewCallLogRepository constructs a CallLogRepository.
func NewCallLogRepository(db *sqlx.DB) *CallLogRepository {
	return &CallLogRepository{db: db}
}

// RecordCall appends a call log row and updates the student in one
// transaction. Completion is terminal: when the student is already Completed
// the logged and persisted status stays Completed regardless of the incoming
// one. Address is only written when provided.
func (r *CallLogRepository) RecordCall(ctx context.Context, studentID int64, teacher, unit, callStatus string, remarks, address *string) (finalStatus string, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin call transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current struct {
		Status string `db:"status"`
	}
	const selectQuery = `SELECT status FROM students WHERE student_id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, selectQuery, studentID); err != nil {
		return "", err
	}

	finalStatus = callStatus
	if current.Status == models.StudentStatusCompleted {
		finalStatus = models.StudentStatusCompleted
	}

	now := time.Now().UTC()
	const insertQuery = `INSERT INTO call_logs (student_id, teacher, unit, call_status, remarks, called_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, insertQuery, studentID, teacher, unit, finalStatus, remarks, now); err != nil {
		return "", fmt.Errorf("insert call log: %w", err)
	}

	const updateQuery = `UPDATE students SET status = $1, address = COALESCE($2, address), updated_at = $3 WHERE student_id = $4`
	if _, err = tx.ExecContext(ctx, updateQuery, finalStatus, address, now, studentID); err != nil {
		return "", fmt.Errorf("update student status: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit call transaction: %w", err)
	}
	return finalStatus, nil
}

// ListByStudent returns the full outreach history for one student, latest
// first.
func (r *CallLogRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.CallLog, error) {
	const query = `SELECT call_id, student_id, teacher, unit, call_status, remarks, called_at
        FROM call_logs WHERE student_id = $1 ORDER BY called_at DESC`
	var logs []models.CallLog
	if err := r.db.SelectContext(ctx, &logs, query, studentID); err != nil {
		return nil, fmt.Errorf("list call logs: %w", err)
	}
	return logs, nil
}

// TeacherPerformance counts distinct students a teacher has called and how
// many of those calls closed as Completed.
func (r *CallLogRepository) TeacherPerformance(ctx context.Context, teacher string) (*models.TeacherPerformance, error) {
	const query = `SELECT COUNT(DISTINCT student_id) AS total_called,
        COUNT(DISTINCT student_id) FILTER (WHERE call_status = 'Completed') AS completed_by_me
        FROM call_logs WHERE teacher = $1`
	var perf models.TeacherPerformance
	if err := r.db.GetContext(ctx, &perf, query, teacher); err != nil {
		return nil, fmt.Errorf("teacher performance: %w", err)
	}
	return &perf, nil
}
