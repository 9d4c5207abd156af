package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/importer"
)

type studentRepoStub struct {
	listFn          func(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	findByIDFn      func(ctx context.Context, id int64) (*models.Student, error)
	upsertFn        func(ctx context.Context, row models.StudentImportRow) (int64, error)
	listByTeacherFn func(ctx context.Context, teacher string) ([]models.Student, error)
}

func (s *studentRepoStub) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	return s.listFn(ctx, filter)
}

func (s *studentRepoStub) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.findByIDFn(ctx, id)
}

func (s *studentRepoStub) Upsert(ctx context.Context, row models.StudentImportRow) (int64, error) {
	return s.upsertFn(ctx, row)
}

func (s *studentRepoStub) ListByTeacher(ctx context.Context, teacher string) ([]models.Student, error) {
	return s.listByTeacherFn(ctx, teacher)
}

func newRowSource(t *testing.T, csv string, opts importer.Options) *importer.RowSource {
	t.Helper()
	src, err := importer.NewRowSource(strings.NewReader(csv), opts)
	require.NoError(t, err)
	return src
}

func TestStudentServiceBulkImportCountsOutcomes(t *testing.T) {
	audit := &auditRecorderStub{}
	var upserted []models.StudentImportRow
	repo := &studentRepoStub{
		upsertFn: func(_ context.Context, row models.StudentImportRow) (int64, error) {
			if row.Mobile == "9999999999" {
				return 0, assert.AnError
			}
			upserted = append(upserted, row)
			return int64(len(upserted)), nil
		},
	}
	svc := NewStudentService(repo, audit, nil, nil)

	const csv = "name,mobile,address,preferred_unit\n" +
		"Asha,9876500001,,Engineering\n" +
		",9876500002,,Law\n" +
		"Ravi,9999999999,,Law\n" +
		"Meera,9876500003,Pune,\n"
	src := newRowSource(t, csv, importer.Options{})

	report, err := svc.BulkImport(context.Background(), src, "admin")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)

	require.Len(t, upserted, 2)
	require.NotNil(t, upserted[0].PreferredUnit)
	assert.Equal(t, "Engineering", *upserted[0].PreferredUnit)
	assert.Nil(t, upserted[1].PreferredUnit)
	require.NotNil(t, upserted[1].Address)
	assert.Equal(t, "Pune", *upserted[1].Address)

	require.Len(t, audit.actions, 1)
	assert.Equal(t, models.AuditActionCSVImportStudents, audit.actions[0])
	require.NotNil(t, audit.targets[0])
	assert.Equal(t, "2 rows", *audit.targets[0])
}

func TestStudentServiceBulkImportStopsAtRowLimit(t *testing.T) {
	repo := &studentRepoStub{
		upsertFn: func(_ context.Context, _ models.StudentImportRow) (int64, error) {
			return 1, nil
		},
	}
	svc := NewStudentService(repo, &auditRecorderStub{}, nil, nil)

	const csv = "name,mobile\nA,111\nB,222\nC,333\n"
	src := newRowSource(t, csv, importer.Options{MaxRows: 2})

	report, err := svc.BulkImport(context.Background(), src, "admin")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 2, report.Imported)
}

func TestStudentServiceImportOrUpsertRequiresNameAndMobile(t *testing.T) {
	svc := NewStudentService(&studentRepoStub{}, &auditRecorderStub{}, nil, nil)

	_, err := svc.ImportOrUpsert(context.Background(), models.StudentImportRow{Mobile: "111"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceGetUnknownStudent(t *testing.T) {
	repo := &studentRepoStub{
		findByIDFn: func(_ context.Context, _ int64) (*models.Student, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewStudentService(repo, &auditRecorderStub{}, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceListDefaultsPagination(t *testing.T) {
	repo := &studentRepoStub{
		listFn: func(_ context.Context, _ models.StudentFilter) ([]models.Student, int, error) {
			return []models.Student{{ID: 1, Name: "Asha"}}, 41, nil
		},
	}
	svc := NewStudentService(repo, &auditRecorderStub{}, nil, nil)

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 41, pagination.TotalCount)
}

func TestStudentServiceListByTeacherRequiresTeacher(t *testing.T) {
	svc := NewStudentService(&studentRepoStub{}, &auditRecorderStub{}, nil, nil)

	_, err := svc.ListByTeacher(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
