package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
)

// AssignmentRepository manages the one-row-per-student assignment ledger.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs an AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Get fetches the current assignment for a student.
func (r *AssignmentRepository) Get(ctx context.Context, studentID int64) (*models.Assignment, error) {
	const query = `SELECT student_id, unit, teacher, assigned_to_role, assigned_by_role, assigned_by, updated_at
        FROM assignments WHERE student_id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, studentID); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Ensure creates the assignment row when missing, or repairs a row whose unit
// was left NULL. A populated unit is never overwritten through this path. The
// read-decide-write runs in one transaction with the row locked, so a
// concurrent import and manual assignment cannot race each other.
func (r *AssignmentRepository) Ensure(ctx context.Context, studentID int64, unit string) (outcome models.EnsureOutcome, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin ensure transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current struct {
		Unit *string `db:"unit"`
	}
	const selectQuery = `SELECT unit FROM assignments WHERE student_id = $1 FOR UPDATE`
	if err = tx.GetContext(ctx, &current, selectQuery, studentID); err != nil {
		if err != sql.ErrNoRows {
			return "", fmt.Errorf("lock assignment: %w", err)
		}
		const insertQuery = `INSERT INTO assignments (student_id, unit, teacher, assigned_to_role, assigned_by_role, assigned_by, updated_at)
            VALUES ($1, $2, NULL, $3, $4, $4, $5)`
		if _, err = tx.ExecContext(ctx, insertQuery, studentID, unit, models.RoleSuperAdmin, models.RoleSystem, time.Now().UTC()); err != nil {
			return "", fmt.Errorf("insert assignment: %w", err)
		}
		outcome = models.EnsureCreated
	} else if current.Unit == nil || *current.Unit == "" {
		if unit == "" {
			outcome = models.EnsureUnchanged
		} else {
			const repairQuery = `UPDATE assignments
                SET unit = $1, teacher = NULL, assigned_to_role = $2, updated_at = $3
                WHERE student_id = $4`
			if _, err = tx.ExecContext(ctx, repairQuery, unit, models.RoleSuperAdmin, time.Now().UTC(), studentID); err != nil {
				return "", fmt.Errorf("repair assignment: %w", err)
			}
			outcome = models.EnsureRepaired
		}
	} else {
		outcome = models.EnsureUnchanged
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit ensure transaction: %w", err)
	}
	return outcome, nil
}

// UpsertSubAdmin records an explicit administrative delegation. Unlike
// Ensure, this path always overwrites the row.
func (r *AssignmentRepository) UpsertSubAdmin(ctx context.Context, studentID int64, unit, subAdmin, admin string) error {
	const query = `INSERT INTO assignments (student_id, unit, teacher, assigned_to_role, assigned_by_role, assigned_by, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (student_id) DO UPDATE
        SET unit = EXCLUDED.unit,
            teacher = EXCLUDED.teacher,
            assigned_to_role = EXCLUDED.assigned_to_role,
            assigned_by_role = EXCLUDED.assigned_by_role,
            assigned_by = EXCLUDED.assigned_by,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, studentID, unit, subAdmin, models.RoleSubAdmin, models.RoleSuperAdmin, admin, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert sub-admin assignment: %w", err)
	}
	return nil
}

// Reassign overwrites unit and teacher on an existing row. It returns the
// number of affected rows; zero means the student was never assigned.
func (r *AssignmentRepository) Reassign(ctx context.Context, studentID int64, newUnit, newTeacher string) (int64, error) {
	const query = `UPDATE assignments SET unit = $1, teacher = $2, updated_at = $3 WHERE student_id = $4`
	result, err := r.db.ExecContext(ctx, query, newUnit, newTeacher, time.Now().UTC(), studentID)
	if err != nil {
		return 0, fmt.Errorf("reassign student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign rows affected: %w", err)
	}
	return affected, nil
}

// ListUnassigned returns students who are not actionably assigned: no
// assignment row, a row with no assigned role, or a SUB_ADMIN row with no
// sub-admin identity recorded.
func (r *AssignmentRepository) ListUnassigned(ctx context.Context) ([]models.UnassignedStudent, error) {
	const query = `SELECT s.student_id, s.name, s.mobile, s.preferred_unit, s.status
        FROM students s
        LEFT JOIN assignments a ON a.student_id = s.student_id
        WHERE a.student_id IS NULL
           OR a.assigned_to_role IS NULL
           OR (a.assigned_to_role = 'SUB_ADMIN' AND a.teacher IS NULL)
        ORDER BY s.student_id`
	var students []models.UnassignedStudent
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list unassigned students: %w", err)
	}
	return students, nil
}

// ListReassignmentQueue returns students whose stated preference differs from
// their assigned unit. Students without an assignment row are excluded; they
// belong to the unassigned queue instead.
func (r *AssignmentRepository) ListReassignmentQueue(ctx context.Context) ([]models.ReassignmentCandidate, error) {
	const query = `SELECT s.student_id, s.name, s.mobile, s.preferred_unit, a.unit AS assigned_unit, a.teacher
        FROM students s
        JOIN assignments a ON a.student_id = s.student_id
        WHERE s.preferred_unit IS NOT NULL
          AND s.preferred_unit <> a.unit
        ORDER BY s.student_id`
	var candidates []models.ReassignmentCandidate
	if err := r.db.SelectContext(ctx, &candidates, query); err != nil {
		return nil, fmt.Errorf("list reassignment queue: %w", err)
	}
	return candidates, nil
}
