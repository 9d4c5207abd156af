package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dattajigosavi/centralized-admission-management-system/internal/models"
)

func newAuthedContext(t *testing.T, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	c.Request = req
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}
	return c, recorder
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	c, recorder := newAuthedContext(t, &models.JWTClaims{Username: "admin", Role: models.RoleSuperAdmin})

	RequireRoles(models.RoleSuperAdmin)(c)

	assert.False(t, c.IsAborted())
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireRolesRejectsOtherRole(t *testing.T) {
	c, recorder := newAuthedContext(t, &models.JWTClaims{Username: "teacher1", Role: models.RoleTeacher})

	RequireRoles(models.RoleSuperAdmin)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	c, recorder := newAuthedContext(t, nil)

	RequireRoles(models.RoleSuperAdmin)(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestClaimsReturnsStoredActor(t *testing.T) {
	c, _ := newAuthedContext(t, &models.JWTClaims{UserID: 7, Username: "teacher1", Role: models.RoleTeacher})

	claims, ok := Claims(c)
	require.True(t, ok)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}
