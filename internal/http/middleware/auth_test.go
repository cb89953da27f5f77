package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
	"github.com/ignatzorin/jobmarket-backend/internal/service"
)

func setupAuthRouter(tokens *service.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		userID, _ := c.Get(ContextUserIDKey)
		role, _ := c.Get(ContextRoleKey)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "role": role})
	})
	r.GET("/company-only", AuthMiddleware(tokens), RequireRole(models.RoleCompany), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	tokens := service.NewTokenManager("test-secret", time.Minute)
	r := setupAuthRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadToken(t *testing.T) {
	tokens := service.NewTokenManager("test-secret", time.Minute)
	r := setupAuthRouter(tokens)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := service.NewTokenManager("test-secret", time.Minute)
	r := setupAuthRouter(tokens)

	token, err := tokens.GenerateAccess(uuid.New(), models.RoleFreelancer)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_WrongRole(t *testing.T) {
	tokens := service.NewTokenManager("test-secret", time.Minute)
	r := setupAuthRouter(tokens)

	token, err := tokens.GenerateAccess(uuid.New(), models.RoleFreelancer)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/company-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_Match(t *testing.T) {
	tokens := service.NewTokenManager("test-secret", time.Minute)
	r := setupAuthRouter(tokens)

	token, err := tokens.GenerateAccess(uuid.New(), models.RoleCompany)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/company-only", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
