package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
)

type assignmentLedger interface {
	Get(ctx context.Context, studentID int64) (*models.Assignment, error)
	Ensure(ctx context.Context, studentID int64, unit string) (models.EnsureOutcome, error)
	UpsertSubAdmin(ctx context.Context, studentID int64, unit, subAdmin, admin string) error
	Reassign(ctx context.Context, studentID int64, newUnit, newTeacher string) (int64, error)
	ListUnassigned(ctx context.Context) ([]models.UnassignedStudent, error)
	ListReassignmentQueue(ctx context.Context) ([]models.ReassignmentCandidate, error)
}

type studentPreferenceWriter interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	UpdatePreferredUnit(ctx context.Context, id int64, preferredUnit string) (int64, error)
}

type auditSink interface {
	Record(ctx context.Context, action, performedBy, role string, target *string)
}

// RecordPreferenceRequest carries a teacher's preference change for a student.
type RecordPreferenceRequest struct {
	PreferredUnit string `json:"preferred_unit" validate:"required"`
	Actor         string `json:"actor" validate:"required"`
	ActorRole     string `json:"actor_role"`
}

// EnsureAssignmentRequest carries a create-or-repair request.
type EnsureAssignmentRequest struct {
	Unit  string `json:"unit" validate:"required"`
	Actor string `json:"actor" validate:"required"`
}

// AssignSubAdminRequest delegates a student to a sub-admin.
type AssignSubAdminRequest struct {
	Unit     string `json:"unit" validate:"required"`
	SubAdmin string `json:"sub_admin" validate:"required"`
	Admin    string `json:"admin" validate:"required"`
}

// ReassignRequest moves an already-assigned student to a new unit/teacher.
type ReassignRequest struct {
	NewUnit    string `json:"new_unit" validate:"required"`
	NewTeacher string `json:"new_teacher" validate:"required"`
	Admin      string `json:"admin" validate:"required"`
}

// AssignmentService keeps a student's expressed preference and operational
// assignment consistent, and classifies students into the unassigned and
// reassignment queues.
type AssignmentService struct {
	assignments assignmentLedger
	students    studentPreferenceWriter
	audit       auditSink
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(assignments assignmentLedger, students studentPreferenceWriter, audit auditSink, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{assignments: assignments, students: students, audit: audit, validator: validate, logger: logger}
}

// RecordPreference sets the student's preferred unit. The assignment row is
// deliberately left alone; divergence between preference and assignment is
// what feeds the reassignment queue.
func (s *AssignmentService) RecordPreference(ctx context.Context, studentID int64, req RecordPreferenceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}
	affected, err := s.students.UpdatePreferredUnit(ctx, studentID, req.PreferredUnit)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update preferred unit")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	role := req.ActorRole
	if role == "" {
		role = models.RoleTeacher
	}
	s.audit.Record(ctx, models.AuditActionPreferredUnitChanged, req.Actor, role, studentTarget(studentID))
	return nil
}

// EnsureAssignment creates a missing assignment row or repairs one whose unit
// was left NULL. A populated unit is never overwritten through this path.
func (s *AssignmentService) EnsureAssignment(ctx context.Context, studentID int64, req EnsureAssignmentRequest) (models.EnsureOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	outcome, err := s.assignments.Ensure(ctx, studentID, req.Unit)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to ensure assignment")
	}
	if outcome != models.EnsureUnchanged {
		s.audit.Record(ctx, models.AuditActionAssignmentEnsured, req.Actor, models.RoleSuperAdmin, studentTarget(studentID))
	}
	return outcome, nil
}

// AssignToSubAdmin records an explicit administrative delegation, overwriting
// whatever assignment exists.
func (s *AssignmentService) AssignToSubAdmin(ctx context.Context, studentID int64, req AssignSubAdminRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sub-admin assignment payload")
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.assignments.UpsertSubAdmin(ctx, studentID, req.Unit, req.SubAdmin, req.Admin); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign sub-admin")
	}
	s.audit.Record(ctx, models.AuditActionAssignedSubAdmin, req.Admin, models.RoleSuperAdmin, studentTarget(studentID))
	return nil
}

// Reassign moves a student to a new unit and teacher. It presupposes a prior
// assignment; students without one belong in the unassigned queue.
func (s *AssignmentService) Reassign(ctx context.Context, studentID int64, req ReassignRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reassignment payload")
	}
	affected, err := s.assignments.Reassign(ctx, studentID, req.NewUnit, req.NewTeacher)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reassign student")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "no assignment exists for student")
	}
	s.audit.Record(ctx, models.AuditActionStudentReassigned, req.Admin, models.RoleSuperAdmin, studentTarget(studentID))
	return nil
}

// ListUnassigned returns students that are not actionably assigned.
func (s *AssignmentService) ListUnassigned(ctx context.Context) ([]models.UnassignedStudent, error) {
	students, err := s.assignments.ListUnassigned(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list unassigned students")
	}
	return students, nil
}

// ListReassignmentQueue returns students whose preference diverges from
// their assigned unit.
func (s *AssignmentService) ListReassignmentQueue(ctx context.Context) ([]models.ReassignmentCandidate, error) {
	candidates, err := s.assignments.ListReassignmentQueue(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reassignment queue")
	}
	return candidates, nil
}

func studentTarget(id int64) *string {
	target := fmt.Sprintf("student_id:%d", id)
	return &target
}
