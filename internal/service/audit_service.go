package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

// AuditService is a best-effort sink for administrative actions. Failures are
// logged and swallowed; a broken audit trail never aborts the business
// operation that triggered it.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs the audit sink.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record appends an audit entry. Errors are logged, never returned.
func (s *AuditService) Record(ctx context.Context, action, performedBy, role string, target *string) {
	entry := &models.AuditLog{
		Action:      action,
		PerformedBy: performedBy,
		Role:        role,
		Target:      target,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("audit log write failed",
			zap.String("action", action),
			zap.String("performed_by", performedBy),
			zap.Error(err))
	}
}

// Recent returns the latest audit entries for the admin view.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	entries, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list audit logs")
	}
	return entries, nil
}
