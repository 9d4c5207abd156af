package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	"github.com/dattajigosavi/centralized-admission-management-system/internal/service"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
)

type assignmentLedgerStub struct {
	ensureFn   func(ctx context.Context, studentID int64, unit string) (models.EnsureOutcome, error)
	reassignFn func(ctx context.Context, studentID int64, newUnit, newTeacher string) (int64, error)
	queue      []models.ReassignmentCandidate
	unassigned []models.UnassignedStudent
}

func (s *assignmentLedgerStub) Get(context.Context, int64) (*models.Assignment, error) {
	return nil, nil
}

func (s *assignmentLedgerStub) Ensure(ctx context.Context, studentID int64, unit string) (models.EnsureOutcome, error) {
	return s.ensureFn(ctx, studentID, unit)
}

func (s *assignmentLedgerStub) UpsertSubAdmin(context.Context, int64, string, string, string) error {
	return nil
}

func (s *assignmentLedgerStub) Reassign(ctx context.Context, studentID int64, newUnit, newTeacher string) (int64, error) {
	return s.reassignFn(ctx, studentID, newUnit, newTeacher)
}

func (s *assignmentLedgerStub) ListUnassigned(context.Context) ([]models.UnassignedStudent, error) {
	return s.unassigned, nil
}

func (s *assignmentLedgerStub) ListReassignmentQueue(context.Context) ([]models.ReassignmentCandidate, error) {
	return s.queue, nil
}

type preferenceStub struct {
	findByIDFn func(ctx context.Context, id int64) (*models.Student, error)
	updateFn   func(ctx context.Context, id int64, preferredUnit string) (int64, error)
}

func (s *preferenceStub) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.findByIDFn(ctx, id)
}

func (s *preferenceStub) UpdatePreferredUnit(ctx context.Context, id int64, preferredUnit string) (int64, error) {
	return s.updateFn(ctx, id, preferredUnit)
}

type auditStub struct{}

func (auditStub) Record(context.Context, string, string, string, *string) {}

func newTestContext(t *testing.T, method, body string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req, err := http.NewRequest(method, "/", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	return c, recorder
}

func TestAssignmentHandlerRecordPreferenceRejectsBadID(t *testing.T) {
	h := NewAssignmentHandler(service.NewAssignmentService(&assignmentLedgerStub{}, &preferenceStub{}, auditStub{}, nil, nil))
	c, recorder := newTestContext(t, http.MethodPut, `{"preferred_unit":"Engineering"}`, gin.Params{{Key: "id", Value: "abc"}})

	h.RecordPreference(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}

func TestAssignmentHandlerReassignReturnsNotFound(t *testing.T) {
	ledger := &assignmentLedgerStub{
		reassignFn: func(_ context.Context, _ int64, _, _ string) (int64, error) {
			return 0, nil
		},
	}
	h := NewAssignmentHandler(service.NewAssignmentService(ledger, &preferenceStub{}, auditStub{}, nil, nil))
	body := `{"new_unit":"Law","new_teacher":"teacherY","admin":"admin"}`
	c, recorder := newTestContext(t, http.MethodPut, body, gin.Params{{Key: "id", Value: "12"}})

	h.Reassign(c)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAssignmentHandlerEnsureReportsOutcome(t *testing.T) {
	ledger := &assignmentLedgerStub{
		ensureFn: func(_ context.Context, _ int64, _ string) (models.EnsureOutcome, error) {
			return models.EnsureCreated, nil
		},
	}
	students := &preferenceStub{
		findByIDFn: func(_ context.Context, id int64) (*models.Student, error) {
			return &models.Student{ID: id}, nil
		},
	}
	h := NewAssignmentHandler(service.NewAssignmentService(ledger, students, auditStub{}, nil, nil))
	body := `{"unit":"Engineering","actor":"admin"}`
	c, recorder := newTestContext(t, http.MethodPut, body, gin.Params{{Key: "id", Value: "12"}})

	h.Ensure(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data struct {
			Outcome string `json:"outcome"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, string(models.EnsureCreated), envelope.Data.Outcome)
}

func TestAssignmentHandlerReassignmentQueue(t *testing.T) {
	ledger := &assignmentLedgerStub{
		queue: []models.ReassignmentCandidate{
			{StudentID: 2, Name: "B", Mobile: "222", PreferredUnit: "Law", AssignedUnit: "Engineering"},
		},
	}
	h := NewAssignmentHandler(service.NewAssignmentService(ledger, &preferenceStub{}, auditStub{}, nil, nil))
	c, recorder := newTestContext(t, http.MethodGet, "", nil)

	h.ReassignmentQueue(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data []models.ReassignmentCandidate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Law", envelope.Data[0].PreferredUnit)
}
