package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jmtenga/attendance-api/internal/models"
	"github.com/jmtenga/attendance-api/internal/service"
)

func newTestAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, zap.NewNop(), service.AuthConfig{
		TokenSecret:   "test-secret",
		TokenExpiry:   time.Hour,
		Issuer:        "attendance-api",
		AdminUsername: "admin",
		AdminPassword: "admin123",
	})
}

func protectedRouter(authSvc *service.AuthService, roles ...models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("", JWT(authSvc))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("/protected", func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"role": claims.Role})
	})
	return r
}

func adminToken(t *testing.T, authSvc *service.AuthService) string {
	t.Helper()
	result, err := authSvc.Login(context.Background(), models.LoginRequest{Role: "admin", Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	return result.AccessToken
}

func TestJWTMissingHeader(t *testing.T) {
	r := protectedRouter(newTestAuthService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMalformedHeader(t *testing.T) {
	r := protectedRouter(newTestAuthService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTInvalidToken(t *testing.T) {
	r := protectedRouter(newTestAuthService())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTValidToken(t *testing.T) {
	authSvc := newTestAuthService()
	r := protectedRouter(authSvc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, authSvc))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ADMIN")
}

func TestRequireRolesAllows(t *testing.T) {
	authSvc := newTestAuthService()
	r := protectedRouter(authSvc, models.RoleAdmin)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, authSvc))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesBlocksOtherRole(t *testing.T) {
	authSvc := newTestAuthService()
	r := protectedRouter(authSvc, models.RoleStudent)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, authSvc))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
