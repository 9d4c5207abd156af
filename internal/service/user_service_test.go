package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
	"github.com/dattajigosavi/centralized-admission-management-system/pkg/importer"
)

type userRepoStub struct {
	listFn                  func(ctx context.Context) ([]models.User, error)
	setActiveFn             func(ctx context.Context, id int64, active bool) (int64, error)
	updatePasswordFn        func(ctx context.Context, id int64, passwordHash string) (int64, error)
	insertIgnoreDuplicateFn func(ctx context.Context, user *models.User) (bool, error)
	teachersByUnitFn        func(ctx context.Context, unit string) ([]models.User, error)
}

func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}

func (s *userRepoStub) SetActive(ctx context.Context, id int64, active bool) (int64, error) {
	return s.setActiveFn(ctx, id, active)
}

func (s *userRepoStub) UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error) {
	return s.updatePasswordFn(ctx, id, passwordHash)
}

func (s *userRepoStub) InsertIgnoreDuplicate(ctx context.Context, user *models.User) (bool, error) {
	return s.insertIgnoreDuplicateFn(ctx, user)
}

func (s *userRepoStub) TeachersByUnit(ctx context.Context, unit string) ([]models.User, error) {
	return s.teachersByUnitFn(ctx, unit)
}

func TestUserServiceSetActiveAuditsDirection(t *testing.T) {
	audit := &auditRecorderStub{}
	repo := &userRepoStub{
		setActiveFn: func(_ context.Context, _ int64, _ bool) (int64, error) {
			return 1, nil
		},
	}
	svc := NewUserService(repo, audit, nil, nil)

	require.NoError(t, svc.SetActive(context.Background(), 3, false, "admin"))
	require.NoError(t, svc.SetActive(context.Background(), 3, true, "admin"))

	require.Len(t, audit.actions, 2)
	assert.Equal(t, models.AuditActionDisableUser, audit.actions[0])
	assert.Equal(t, models.AuditActionEnableUser, audit.actions[1])
}

func TestUserServiceSetActiveUnknownUser(t *testing.T) {
	repo := &userRepoStub{
		setActiveFn: func(_ context.Context, _ int64, _ bool) (int64, error) {
			return 0, nil
		},
	}
	svc := NewUserService(repo, &auditRecorderStub{}, nil, nil)

	err := svc.SetActive(context.Background(), 99, true, "admin")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserServiceResetPasswordStoresHash(t *testing.T) {
	audit := &auditRecorderStub{}
	var storedHash string
	repo := &userRepoStub{
		updatePasswordFn: func(_ context.Context, _ int64, hash string) (int64, error) {
			storedHash = hash
			return 1, nil
		},
	}
	svc := NewUserService(repo, audit, nil, nil)

	err := svc.ResetPassword(context.Background(), 3, ResetPasswordRequest{NewPassword: "longenough"}, "admin")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("longenough")))
	require.Len(t, audit.actions, 1)
	assert.Equal(t, models.AuditActionPasswordReset, audit.actions[0])
}

func TestUserServiceResetPasswordRejectsShortPassword(t *testing.T) {
	svc := NewUserService(&userRepoStub{}, &auditRecorderStub{}, nil, nil)

	err := svc.ResetPassword(context.Background(), 3, ResetPasswordRequest{NewPassword: "short"}, "admin")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserServiceBulkImportSkipsDuplicatesAndBlanks(t *testing.T) {
	audit := &auditRecorderStub{}
	repo := &userRepoStub{
		insertIgnoreDuplicateFn: func(_ context.Context, user *models.User) (bool, error) {
			return user.Username != "existing", nil
		},
	}
	svc := NewUserService(repo, audit, nil, nil)

	const csv = "username,password,role,teacher_name,unit\n" +
		"fresh,pass1234,TEACHER,Fresh One,Engineering\n" +
		"existing,pass1234,TEACHER,,\n" +
		",pass1234,TEACHER,,\n"
	src := newRowSource(t, csv, importer.Options{})

	report, err := svc.BulkImport(context.Background(), src, "admin")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 0, report.Failed)

	require.Len(t, audit.actions, 1)
	assert.Equal(t, models.AuditActionCSVImportUsers, audit.actions[0])
	require.NotNil(t, audit.targets[0])
	assert.Equal(t, "users:1", *audit.targets[0])
}

func TestUserServiceTeachersByUnitRequiresUnit(t *testing.T) {
	svc := NewUserService(&userRepoStub{}, &auditRecorderStub{}, nil, nil)

	_, err := svc.TeachersByUnit(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
