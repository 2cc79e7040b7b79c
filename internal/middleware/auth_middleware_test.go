package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/pkg/auth"
)

func newTestRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(jwtService)

	router := gin.New()
	authed := router.Group("", m.RequireAuth())
	authed.GET("/me", func(c *gin.Context) {
		actor, _ := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": actor.Email})
	})
	authed.GET("/admin", m.RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func issueToken(t *testing.T, svc *auth.JWTService, role models.Role, active bool) string {
	t.Helper()
	token, _, err := svc.GenerateToken(&models.User{
		ID:       1,
		Email:    "someone@esisa.ac.ma",
		Role:     role,
		IsActive: active,
	})
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour})
	router := newTestRouter(svc)

	t.Run("missing header", func(t *testing.T) {
		w := doRequest(router, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := doRequest(router, "/me", "not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		w := doRequest(router, "/me", issueToken(t, svc, models.RoleUser, true))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "someone@esisa.ac.ma")
	})

	t.Run("disabled account", func(t *testing.T) {
		w := doRequest(router, "/me", issueToken(t, svc, models.RoleUser, false))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	svc := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour})
	router := newTestRouter(svc)

	w := doRequest(router, "/admin", issueToken(t, svc, models.RoleUser, true))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, "/admin", issueToken(t, svc, models.RoleAdmin, true))
	assert.Equal(t, http.StatusOK, w.Code)
}
