package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
)

type ledgerStub struct {
	getFn                   func(ctx context.Context, studentID int64) (*models.Assignment, error)
	ensureFn                func(ctx context.Context, studentID int64, unit string) (models.EnsureOutcome, error)
	upsertSubAdminFn        func(ctx context.Context, studentID int64, unit, subAdmin, admin string) error
	reassignFn              func(ctx context.Context, studentID int64, newUnit, newTeacher string) (int64, error)
	listUnassignedFn        func(ctx context.Context) ([]models.UnassignedStudent, error)
	listReassignmentQueueFn func(ctx context.Context) ([]models.ReassignmentCandidate, error)
}

func (s *ledgerStub) Get(ctx context.Context, studentID int64) (*models.Assignment, error) {
	return s.getFn(ctx, studentID)
}

func (s *ledgerStub) Ensure(ctx context.Context, studentID int64, unit string) (models.EnsureOutcome, error) {
	return s.ensureFn(ctx, studentID, unit)
}

func (s *ledgerStub) UpsertSubAdmin(ctx context.Context, studentID int64, unit, subAdmin, admin string) error {
	return s.upsertSubAdminFn(ctx, studentID, unit, subAdmin, admin)
}

func (s *ledgerStub) Reassign(ctx context.Context, studentID int64, newUnit, newTeacher string) (int64, error) {
	return s.reassignFn(ctx, studentID, newUnit, newTeacher)
}

func (s *ledgerStub) ListUnassigned(ctx context.Context) ([]models.UnassignedStudent, error) {
	return s.listUnassignedFn(ctx)
}

func (s *ledgerStub) ListReassignmentQueue(ctx context.Context) ([]models.ReassignmentCandidate, error) {
	return s.listReassignmentQueueFn(ctx)
}

type preferenceWriterStub struct {
	findByIDFn            func(ctx context.Context, id int64) (*models.Student, error)
	updatePreferredUnitFn func(ctx context.Context, id int64, preferredUnit string) (int64, error)
}

func (s *preferenceWriterStub) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.findByIDFn(ctx, id)
}

func (s *preferenceWriterStub) UpdatePreferredUnit(ctx context.Context, id int64, preferredUnit string) (int64, error) {
	return s.updatePreferredUnitFn(ctx, id, preferredUnit)
}

type auditRecorderStub struct {
	actions []string
	targets []*string
}

func (s *auditRecorderStub) Record(_ context.Context, action, _, _ string, target *string) {
	s.actions = append(s.actions, action)
	s.targets = append(s.targets, target)
}

func TestAssignmentServiceRecordPreferenceAuditsChange(t *testing.T) {
	audit := &auditRecorderStub{}
	students := &preferenceWriterStub{
		updatePreferredUnitFn: func(_ context.Context, id int64, unit string) (int64, error) {
			assert.Equal(t, int64(12), id)
			assert.Equal(t, "Engineering", unit)
			return 1, nil
		},
	}
	svc := NewAssignmentService(&ledgerStub{}, students, audit, nil, nil)

	err := svc.RecordPreference(context.Background(), 12, RecordPreferenceRequest{
		PreferredUnit: "Engineering",
		Actor:         "teacherX",
	})
	require.NoError(t, err)
	require.Len(t, audit.actions, 1)
	assert.Equal(t, models.AuditActionPreferredUnitChanged, audit.actions[0])
	require.NotNil(t, audit.targets[0])
	assert.Equal(t, "student_id:12", *audit.targets[0])
}

func TestAssignmentServiceRecordPreferenceUnknownStudent(t *testing.T) {
	audit := &auditRecorderStub{}
	students := &preferenceWriterStub{
		updatePreferredUnitFn: func(_ context.Context, _ int64, _ string) (int64, error) {
			return 0, nil
		},
	}
	svc := NewAssignmentService(&ledgerStub{}, students, audit, nil, nil)

	err := svc.RecordPreference(context.Background(), 99, RecordPreferenceRequest{
		PreferredUnit: "Engineering",
		Actor:         "teacherX",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, audit.actions)
}

func TestAssignmentServiceRecordPreferenceRejectsEmptyUnit(t *testing.T) {
	svc := NewAssignmentService(&ledgerStub{}, &preferenceWriterStub{}, &auditRecorderStub{}, nil, nil)

	err := svc.RecordPreference(context.Background(), 12, RecordPreferenceRequest{Actor: "teacherX"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceEnsureAssignmentSkipsAuditWhenUnchanged(t *testing.T) {
	audit := &auditRecorderStub{}
	ledger := &ledgerStub{
		ensureFn: func(_ context.Context, _ int64, _ string) (models.EnsureOutcome, error) {
			return models.EnsureUnchanged, nil
		},
	}
	students := &preferenceWriterStub{
		findByIDFn: func(_ context.Context, id int64) (*models.Student, error) {
			return &models.Student{ID: id}, nil
		},
	}
	svc := NewAssignmentService(ledger, students, audit, nil, nil)

	outcome, err := svc.EnsureAssignment(context.Background(), 12, EnsureAssignmentRequest{Unit: "Engineering", Actor: "admin"})
	require.NoError(t, err)
	assert.Equal(t, models.EnsureUnchanged, outcome)
	assert.Empty(t, audit.actions)
}

func TestAssignmentServiceEnsureAssignmentAuditsRepair(t *testing.T) {
	audit := &auditRecorderStub{}
	ledger := &ledgerStub{
		ensureFn: func(_ context.Context, _ int64, _ string) (models.EnsureOutcome, error) {
			return models.EnsureRepaired, nil
		},
	}
	students := &preferenceWriterStub{
		findByIDFn: func(_ context.Context, id int64) (*models.Student, error) {
			return &models.Student{ID: id}, nil
		},
	}
	svc := NewAssignmentService(ledger, students, audit, nil, nil)

	outcome, err := svc.EnsureAssignment(context.Background(), 12, EnsureAssignmentRequest{Unit: "Engineering", Actor: "admin"})
	require.NoError(t, err)
	assert.Equal(t, models.EnsureRepaired, outcome)
	require.Len(t, audit.actions, 1)
	assert.Equal(t, models.AuditActionAssignmentEnsured, audit.actions[0])
}

func TestAssignmentServiceEnsureAssignmentUnknownStudent(t *testing.T) {
	students := &preferenceWriterStub{
		findByIDFn: func(_ context.Context, _ int64) (*models.Student, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewAssignmentService(&ledgerStub{}, students, &auditRecorderStub{}, nil, nil)

	_, err := svc.EnsureAssignment(context.Background(), 99, EnsureAssignmentRequest{Unit: "Engineering", Actor: "admin"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceReassignWithoutAssignmentRow(t *testing.T) {
	audit := &auditRecorderStub{}
	ledger := &ledgerStub{
		reassignFn: func(_ context.Context, _ int64, _, _ string) (int64, error) {
			return 0, nil
		},
	}
	svc := NewAssignmentService(ledger, &preferenceWriterStub{}, audit, nil, nil)

	err := svc.Reassign(context.Background(), 12, ReassignRequest{NewUnit: "Law", NewTeacher: "teacherY", Admin: "admin"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, audit.actions)
}

func TestAssignmentServiceReassignAudits(t *testing.T) {
	audit := &auditRecorderStub{}
	ledger := &ledgerStub{
		reassignFn: func(_ context.Context, id int64, unit, teacher string) (int64, error) {
			assert.Equal(t, int64(12), id)
			assert.Equal(t, "Law", unit)
			assert.Equal(t, "teacherY", teacher)
			return 1, nil
		},
	}
	svc := NewAssignmentService(ledger, &preferenceWriterStub{}, audit, nil, nil)

	err := svc.Reassign(context.Background(), 12, ReassignRequest{NewUnit: "Law", NewTeacher: "teacherY", Admin: "admin"})
	require.NoError(t, err)
	require.Len(t, audit.actions, 1)
	assert.Equal(t, models.AuditActionStudentReassigned, audit.actions[0])
}

func TestAssignmentServiceQueuesPassThrough(t *testing.T) {
	ledger := &ledgerStub{
		listUnassignedFn: func(_ context.Context) ([]models.UnassignedStudent, error) {
			return []models.UnassignedStudent{{StudentID: 1, Name: "A", Mobile: "111", Status: models.StudentStatusNew}}, nil
		},
		listReassignmentQueueFn: func(_ context.Context) ([]models.ReassignmentCandidate, error) {
			return []models.ReassignmentCandidate{{StudentID: 2, Name: "B", Mobile: "222", PreferredUnit: "Law", AssignedUnit: "Engineering"}}, nil
		},
	}
	svc := NewAssignmentService(ledger, &preferenceWriterStub{}, &auditRecorderStub{}, nil, nil)

	unassigned, err := svc.ListUnassigned(context.Background())
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, int64(1), unassigned[0].StudentID)

	queue, err := svc.ListReassignmentQueue(context.Background())
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.NotEqual(t, queue[0].AssignedUnit, queue[0].PreferredUnit)
}
