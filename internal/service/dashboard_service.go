package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/export"
)

const dashboardSummaryCacheKey = "dashboard:summary"

type dashboardRepository interface {
	Totals(ctx context.Context) (int, int, error)
	UnitSummary(ctx context.Context) ([]models.UnitSummary, error)
	TeacherSummary(ctx context.Context) ([]models.TeacherSummary, error)
}

type unassignedLister interface {
	ListUnassigned(ctx context.Context) ([]models.UnassignedStudent, error)
}

// DashboardService composes the admin dashboard payload and its exports.
type DashboardService struct {
	repo       dashboardRepository
	unassigned unassignedLister
	cache      *CacheService
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(repo dashboardRepository, unassigned unassignedLister, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:       repo,
		unassigned: unassigned,
		cache:      cache,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Summary returns admission totals plus per-unit and per-teacher progress.
// The payload is cached; call InvalidateSummary after bulk writes.
func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	var cached models.DashboardSummary
	if hit, err := s.cache.Get(ctx, dashboardSummaryCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	total, completed, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard totals")
	}
	units, err := s.repo.UnitSummary(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load unit summary")
	}
	teachers, err := s.repo.TeacherSummary(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher summary")
	}

	summary := &models.DashboardSummary{
		TotalStudents:     total,
		CompletedStudents: completed,
		PendingStudents:   total - completed,
		UnitSummary:       units,
		TeacherSummary:    teachers,
	}
	if err := s.cache.Set(ctx, dashboardSummaryCacheKey, summary, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard summary cache set failed", zap.Error(err))
	}
	return summary, nil
}

// InvalidateSummary drops the cached dashboard payload.
func (s *DashboardService) InvalidateSummary(ctx context.Context) {
	s.cache.Invalidate(ctx, dashboardSummaryCacheKey)
}

// ExportSummaryPDF renders the unit summary as a PDF report.
func (s *DashboardService) ExportSummaryPDF(ctx context.Context) ([]byte, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(summary.UnitSummary))
	for _, unit := range summary.UnitSummary {
		rows = append(rows, map[string]string{
			"Unit":      unit.Unit,
			"Assigned":  strconv.Itoa(unit.Assigned),
			"Completed": strconv.Itoa(unit.Completed),
		})
	}
	data := export.Dataset{
		Headers: []string{"Unit", "Assigned", "Completed"},
		Rows:    rows,
	}
	title := fmt.Sprintf("Admission Summary (%d students, %d completed)", summary.TotalStudents, summary.CompletedStudents)
	payload, err := s.pdf.Render(data, title)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render summary pdf")
	}
	return payload, nil
}

// ExportUnassignedCSV renders the unassigned queue for offline triage.
func (s *DashboardService) ExportUnassignedCSV(ctx context.Context) ([]byte, error) {
	students, err := s.unassigned.ListUnassigned(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unassigned students")
	}

	rows := make([]map[string]string, 0, len(students))
	for _, student := range students {
		preferred := ""
		if student.PreferredUnit != nil {
			preferred = *student.PreferredUnit
		}
		rows = append(rows, map[string]string{
			"student_id":     strconv.FormatInt(student.StudentID, 10),
			"name":           student.Name,
			"mobile":         student.Mobile,
			"preferred_unit": preferred,
			"status":         student.Status,
		})
	}
	data := export.Dataset{
		Headers: []string{"student_id", "name", "mobile", "preferred_unit", "status"},
		Rows:    rows,
	}
	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render unassigned csv")
	}
	return payload, nil
}
