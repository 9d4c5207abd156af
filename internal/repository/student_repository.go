package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students s"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Unit != "" {
		conditions = append(conditions, fmt.Sprintf("s.preferred_unit = $%d", len(args)+1))
		args = append(args, filter.Unit)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.name) LIKE $%d OR s.mobile LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"name":       "s.name",
		"status":     "s.status",
		"created_at": "s.created_at",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.student_id, s.name, s.mobile, s.address, s.preferred_unit, s.status, s.created_at, s.updated_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	const query = `SELECT student_id, name, mobile, address, preferred_unit, status, created_at, updated_at
        FROM students WHERE student_id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Upsert inserts a student by mobile number or, when the mobile already
// exists, fills preferred_unit only when the stored value is NULL. A
// manually-set preference is never clobbered by a bulk import.
func (r *StudentRepository) Upsert(ctx context.Context, row models.StudentImportRow) (int64, error) {
	const query = `INSERT INTO students (name, mobile, address, preferred_unit, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)
        ON CONFLICT (mobile) DO UPDATE
        SET preferred_unit = COALESCE(students.preferred_unit, EXCLUDED.preferred_unit),
            updated_at = EXCLUDED.updated_at
        RETURNING student_id`
	var id int64
	now := time.Now().UTC()
	if err := r.db.GetContext(ctx, &id, query, row.Name, row.Mobile, row.Address, row.PreferredUnit, models.StudentStatusNew, now); err != nil {
		return 0, fmt.Errorf("upsert student: %w", err)
	}
	return id, nil
}

// UpdatePreferredUnit records a student's stated preference. It returns the
// number of affected rows so callers can surface a not-found result.
func (r *StudentRepository) UpdatePreferredUnit(ctx context.Context, id int64, preferredUnit string) (int64, error) {
	const query = `UPDATE students SET preferred_unit = $1, updated_at = $2 WHERE student_id = $3`
	result, err := r.db.ExecContext(ctx, query, preferredUnit, time.Now().UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("update preferred unit: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update preferred unit rows: %w", err)
	}
	return affected, nil
}

// ListByTeacher returns the worklist for a teacher based on current
// assignments.
func (r *StudentRepository) ListByTeacher(ctx context.Context, teacher string) ([]models.Student, error) {
	const query = `SELECT s.student_id, s.name, s.mobile, s.address, s.preferred_unit, s.status, s.created_at, s.updated_at
        FROM students s
        JOIN assignments a ON a.student_id = s.student_id
        WHERE a.teacher = $1
        ORDER BY s.student_id`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, teacher); err != nil {
		return nil, fmt.Errorf("list students by teacher: %w", err)
	}
	return students, nil
}
