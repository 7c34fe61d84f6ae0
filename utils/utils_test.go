package utils_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BerniceZTT/crm_workload/models"
	"github.com/BerniceZTT/crm_workload/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTokenRoundTrip(t *testing.T) {
	utils.SetJWTSecret("test-secret")

	token, err := utils.GenerateToken("u1", "alice", models.UserRoleADMIN, time.Hour)
	require.NoError(t, err)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	user, err := utils.UserFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, &utils.LoginUser{ID: "u1", Role: "ADMIN", Username: "alice"}, user)
}

func TestTokenRejections(t *testing.T) {
	utils.SetJWTSecret("test-secret")

	_, err := utils.GenerateToken("u1", "alice", models.UserRole("ROOT"), time.Hour)
	assert.Error(t, err)

	token, err := utils.GenerateToken("u1", "alice", models.UserRoleVIEWER, time.Hour)
	require.NoError(t, err)

	utils.SetJWTSecret("other-secret")
	_, err = utils.ParseToken(token)
	assert.Error(t, err, "signature from another key")

	_, err = utils.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestHasPermission(t *testing.T) {
	assert.True(t, utils.HasPermission(models.UserRoleADMIN, utils.ResourceRegistry, utils.ActionWrite))
	assert.True(t, utils.HasPermission(models.UserRoleVIEWER, utils.ResourceDashboard, utils.ActionRead))
	assert.False(t, utils.HasPermission(models.UserRoleVIEWER, utils.ResourceRegistry, utils.ActionWrite))
	assert.False(t, utils.HasPermission(models.UserRole(""), utils.ResourceDashboard, utils.ActionRead))
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"api error", utils.CreateBadRequestError("bad date"), http.StatusBadRequest},
		{"wrapped api error", fmt.Errorf("parse: %w", utils.CreateNotFoundError("业务员")), http.StatusNotFound},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)

			utils.HandleError(c, tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, utils.SplitList([]string{"a, b", " ", "c"}))
	assert.Empty(t, utils.SplitList(nil))
}
