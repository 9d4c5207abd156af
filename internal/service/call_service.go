package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
)

type callLogRepository interface {
	RecordCall(ctx context.Context, studentID int64, teacher, unit, callStatus string, remarks, address *string) (string, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.CallLog, error)
	TeacherPerformance(ctx context.Context, teacher string) (*models.TeacherPerformance, error)
}

// RecordCallRequest carries a single call outcome.
type RecordCallRequest struct {
	StudentID  int64   `json:"student_id" validate:"required"`
	Teacher    string  `json:"teacher" validate:"required"`
	Unit       string  `json:"unit" validate:"required"`
	CallStatus string  `json:"call_status" validate:"required"`
	Remarks    *string `json:"remarks,omitempty"`
	Address    *string `json:"address,omitempty"`
}

// RecordCallResult reports the status actually persisted, which may differ
// from the submitted one when completion is sticky.
type RecordCallResult struct {
	StudentID   int64  `json:"student_id"`
	FinalStatus string `json:"final_status"`
}

// CallService appends outreach attempts and keeps student status consistent
// with them.
type CallService struct {
	calls     callLogRepository
	audit     auditSink
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCallService constructs the call service.
func NewCallService(calls callLogRepository, audit auditSink, validate *validator.Validate, logger *zap.Logger) *CallService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CallService{calls: calls, audit: audit, validator: validate, logger: logger}
}

// RecordCall logs one attempt. A Completed student stays Completed no matter
// what status a later, possibly stale, call submits.
func (s *CallService) RecordCall(ctx context.Context, req RecordCallRequest) (*RecordCallResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid call payload")
	}
	finalStatus, err := s.calls.RecordCall(ctx, req.StudentID, req.Teacher, req.Unit, req.CallStatus, req.Remarks, req.Address)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record call")
	}
	s.audit.Record(ctx, models.AuditActionCallUpdate, req.Teacher, models.RoleTeacher, studentTarget(req.StudentID))
	return &RecordCallResult{StudentID: req.StudentID, FinalStatus: finalStatus}, nil
}

// History returns the full call history for one student, latest first.
func (s *CallService) History(ctx context.Context, studentID int64) ([]models.CallLog, error) {
	logs, err := s.calls.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list call history")
	}
	return logs, nil
}

// TeacherPerformance summarises a teacher's outreach outcomes.
func (s *CallService) TeacherPerformance(ctx context.Context, teacher string) (*models.TeacherPerformance, error) {
	if teacher == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher is required")
	}
	perf, err := s.calls.TeacherPerformance(ctx, teacher)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher performance")
	}
	return perf, nil
}
