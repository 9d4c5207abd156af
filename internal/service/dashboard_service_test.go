package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
	appErrors "github.com/dattajigosavi/centralized-admission-management-system/pkg/errors"
)

type dashboardRepoStub struct {
	totalsCalls int
	total       int
	completed   int
	units       []models.UnitSummary
	teachers    []models.TeacherSummary
}

func (s *dashboardRepoStub) Totals(context.Context) (int, int, error) {
	s.totalsCalls++
	return s.total, s.completed, nil
}

func (s *dashboardRepoStub) UnitSummary(context.Context) ([]models.UnitSummary, error) {
	return s.units, nil
}

func (s *dashboardRepoStub) TeacherSummary(context.Context) ([]models.TeacherSummary, error) {
	return s.teachers, nil
}

type unassignedListerStub struct {
	students []models.UnassignedStudent
}

func (s *unassignedListerStub) ListUnassigned(context.Context) ([]models.UnassignedStudent, error) {
	return s.students, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	return nil
}

func (m *memoryCacheRepo) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func TestDashboardServiceSummaryComputesPending(t *testing.T) {
	repo := &dashboardRepoStub{
		total:     100,
		completed: 30,
		units:     []models.UnitSummary{{Unit: "Engineering", Assigned: 60, Completed: 20}},
	}
	cache := NewCacheService(nil, nil, time.Minute, nil, false)
	svc := NewDashboardService(repo, &unassignedListerStub{}, cache, time.Minute, nil)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, summary.TotalStudents)
	assert.Equal(t, 30, summary.CompletedStudents)
	assert.Equal(t, 70, summary.PendingStudents)
	require.Len(t, summary.UnitSummary, 1)
}

func TestDashboardServiceSummaryServesCachedPayload(t *testing.T) {
	repo := &dashboardRepoStub{total: 10, completed: 5}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewDashboardService(repo, &unassignedListerStub{}, cache, time.Minute, nil)

	_, err := svc.Summary(context.Background())
	require.NoError(t, err)
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.totalsCalls)

	svc.InvalidateSummary(context.Background())
	_, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.totalsCalls)
}

func TestDashboardServiceExportUnassignedCSV(t *testing.T) {
	unit := "Engineering"
	lister := &unassignedListerStub{
		students: []models.UnassignedStudent{
			{StudentID: 1, Name: "Asha", Mobile: "9876500001", PreferredUnit: &unit, Status: models.StudentStatusNew},
			{StudentID: 2, Name: "Ravi", Mobile: "9876500002", Status: models.StudentStatusNew},
		},
	}
	cache := NewCacheService(nil, nil, time.Minute, nil, false)
	svc := NewDashboardService(&dashboardRepoStub{}, lister, cache, time.Minute, nil)

	payload, err := svc.ExportUnassignedCSV(context.Background())
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(payload), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "student_id")
	assert.Contains(t, string(lines[1]), "Asha")
	assert.Contains(t, string(lines[2]), "Ravi")
}

func TestDashboardServiceExportSummaryPDF(t *testing.T) {
	repo := &dashboardRepoStub{
		total:     10,
		completed: 4,
		units:     []models.UnitSummary{{Unit: "Law", Assigned: 5, Completed: 2}},
	}
	cache := NewCacheService(nil, nil, time.Minute, nil, false)
	svc := NewDashboardService(repo, &unassignedListerStub{}, cache, time.Minute, nil)

	payload, err := svc.ExportSummaryPDF(context.Background())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}
