package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/importer"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Upsert(ctx context.Context, row models.StudentImportRow) (int64, error)
	ListByTeacher(ctx context.Context, teacher string) ([]models.Student, error)
}

// StudentService handles the student registry and bulk import use-cases.
type StudentService struct {
	repo      studentRepository
	audit     auditSink
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, audit auditSink, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// ImportOrUpsert resolves one import row to a student id. Inserting by
// mobile is idempotent; an existing preference survives a re-import with an
// empty preferred_unit.
func (s *StudentService) ImportOrUpsert(ctx context.Context, row models.StudentImportRow) (int64, error) {
	if row.Name == "" || row.Mobile == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "name and mobile are required")
	}
	id, err := s.repo.Upsert(ctx, row)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert student")
	}
	return id, nil
}

// BulkImport drains a CSV row source. Rows missing required fields are
// skipped, a store failure aborts only that row, and rows already committed
// stay committed. The report carries accurate per-outcome counts.
func (s *StudentService) BulkImport(ctx context.Context, src *importer.RowSource, actor string) (*models.ImportReport, error) {
	report := &models.ImportReport{}
	for {
		row, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, importer.ErrTooManyRows) {
				return report, appErrors.Clone(appErrors.ErrValidation, "import exceeds the row limit")
			}
			report.Skipped++
			continue
		}

		name := row.Get("name")
		mobile := row.Get("mobile")
		if name == "" || mobile == "" {
			report.Skipped++
			continue
		}

		importRow := models.StudentImportRow{
			Name:          name,
			Mobile:        mobile,
			Address:       optional(row.Get("address")),
			PreferredUnit: optional(row.Get("preferred_unit")),
		}
		if _, err := s.repo.Upsert(ctx, importRow); err != nil {
			s.logger.Warn("student import row failed", zap.String("mobile", mobile), zap.Error(err))
			report.Failed++
			continue
		}
		report.Imported++
	}

	target := fmt.Sprintf("%d rows", report.Imported)
	s.audit.Record(ctx, models.AuditActionCSVImportStudents, actor, models.RoleSuperAdmin, &target)
	return report, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// ListByTeacher returns a teacher's current worklist.
func (s *StudentService) ListByTeacher(ctx context.Context, teacher string) ([]models.Student, error) {
	if teacher == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher is required")
	}
	students, err := s.repo.ListByTeacher(ctx, teacher)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher students")
	}
	return students, nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
