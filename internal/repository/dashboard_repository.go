package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
)

// DashboardRepository runs the aggregate queries behind the admin dashboard.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Totals returns overall and completed student counts.
func (r *DashboardRepository) Totals(ctx context.Context) (total int, completed int, err error) {
	if err = r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, 0, fmt.Errorf("count students: %w", err)
	}
	if err = r.db.GetContext(ctx, &completed, `SELECT COUNT(*) FROM students WHERE status = 'Completed'`); err != nil {
		return 0, 0, fmt.Errorf("count completed students: %w", err)
	}
	return total, completed, nil
}

// UnitSummary aggregates assigned and completed students per unit.
func (r *DashboardRepository) UnitSummary(ctx context.Context) ([]models.UnitSummary, error) {
	const query = `SELECT a.unit,
               COUNT(*) AS assigned,
               COUNT(CASE WHEN s.status = 'Completed' THEN 1 END) AS completed
        FROM assignments a
        JOIN students s ON s.student_id = a.student_id
        WHERE a.unit IS NOT NULL
        GROUP BY a.unit
        ORDER BY a.unit`
	var summary []models.UnitSummary
	if err := r.db.SelectContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("unit summary: %w", err)
	}
	return summary, nil
}

// TeacherSummary aggregates assigned and completed students per teacher.
func (r *DashboardRepository) TeacherSummary(ctx context.Context) ([]models.TeacherSummary, error) {
	const query = `SELECT a.teacher,
               COUNT(*) AS assigned,
               COUNT(CASE WHEN s.status = 'Completed' THEN 1 END) AS completed
        FROM assignments a
        JOIN students s ON s.student_id = a.student_id
        WHERE a.teacher IS NOT NULL
        GROUP BY a.teacher
        ORDER BY a.teacher`
	var summary []models.TeacherSummary
	if err := r.db.SelectContext(ctx, &summary, query); err != nil {
		return nil, fmt.Errorf("teacher summary: %w", err)
	}
	return summary, nil
}
