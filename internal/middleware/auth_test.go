package middleware

import (
	"design_sense_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-at-least-32-characters"

func newProtectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret), RoleMiddleware(util.RoleOperator), func(c *gin.Context) {
		util.Success(c, util.GetClaimsFromContext(c).Subject)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	operator, err := util.GenerateJWT("ops@example.com", util.RoleOperator, testSecret, time.Hour)
	require.NoError(t, err)
	admin, err := util.GenerateJWT("root@example.com", util.RoleAdmin, testSecret, time.Hour)
	require.NoError(t, err)
	guest, err := util.GenerateJWT("guest@example.com", "guest", testSecret, time.Hour)
	require.NoError(t, err)
	foreign, err := util.GenerateJWT("ops@example.com", util.RoleOperator, "another-secret-of-sufficient-length!!", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"operator", "Bearer " + operator, http.StatusOK},
		{"admin", "Bearer " + admin, http.StatusOK},
		{"wrong role", "Bearer " + guest, http.StatusForbidden},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
	}

	r := newProtectedRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
