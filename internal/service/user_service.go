package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/importer"
)

type userRepository interface {
	List(ctx context.Context) ([]models.User, error)
	SetActive(ctx context.Context, id int64, active bool) (int64, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error)
	InsertIgnoreDuplicate(ctx context.Context, user *models.User) (bool, error)
	TeachersByUnit(ctx context.Context, unit string) ([]models.User, error)
}

// ResetPasswordRequest carries a new password for a user.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UserService handles user administration.
type UserService struct {
	repo      userRepository
	audit     auditSink
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the user service.
func NewUserService(repo userRepository, audit auditSink, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// SetActive enables or disables an account.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool, admin string) error {
	affected, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user status")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	action := models.AuditActionDisableUser
	if active {
		action = models.AuditActionEnableUser
	}
	target := fmt.Sprintf("user_id:%d", id)
	s.audit.Record(ctx, action, admin, models.RoleSuperAdmin, &target)
	return nil
}

// ResetPassword replaces a user's password with a fresh bcrypt hash.
func (s *UserService) ResetPassword(ctx context.Context, id int64, req ResetPasswordRequest, admin string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid password payload")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	affected, err := s.repo.UpdatePassword(ctx, id, string(hash))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset password")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	target := fmt.Sprintf("user_id:%d", id)
	s.audit.Record(ctx, models.AuditActionPasswordReset, admin, models.RoleSuperAdmin, &target)
	return nil
}

// TeachersByUnit lists active teachers available for a unit.
func (s *UserService) TeachersByUnit(ctx context.Context, unit string) ([]models.User, error) {
	if unit == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unit is required")
	}
	users, err := s.repo.TeachersByUnit(ctx, unit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return users, nil
}

// BulkImport drains a user CSV source. Rows missing username, password, or
// role are skipped; duplicate usernames are left untouched.
func (s *UserService) BulkImport(ctx context.Context, src *importer.RowSource, admin string) (*models.ImportReport, error) {
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

		username := row.Get("username")
		password := row.Get("password")
		role := row.Get("role")
		if username == "" || password == "" || role == "" {
			report.Skipped++
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Warn("user import hash failed", zap.String("username", username), zap.Error(err))
			report.Failed++
			continue
		}

		user := &models.User{
			Username:     username,
			PasswordHash: string(hash),
			Role:         role,
			TeacherName:  optional(row.Get("teacher_name")),
			Unit:         optional(row.Get("unit")),
		}
		inserted, err := s.repo.InsertIgnoreDuplicate(ctx, user)
		if err != nil {
			s.logger.Warn("user import row failed", zap.String("username", username), zap.Error(err))
			report.Failed++
			continue
		}
		if inserted {
			report.Imported++
		} else {
			report.Skipped++
		}
	}

	target := fmt.Sprintf("users:%d", report.Imported)
	s.audit.Record(ctx, models.AuditActionCSVImportUsers, admin, models.RoleSuperAdmin, &target)
	return report, nil
}
