package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/http/middleware"
)

var errUserNotFound = errors.New("пользователь не найден в контексте")

// currentUserID извлекает userID из контекста.
func currentUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return uuid.Nil, errUserNotFound
	}

	userID, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, errUserNotFound
	}

	return userID, nil
}

// currentUserRole извлекает роль пользователя из контекста.
func currentUserRole(c *gin.Context) (string, error) {
	raw, exists := c.Get(middleware.ContextRoleKey)
	if !exists {
		return "", errUserNotFound
	}

	role, ok := raw.(string)
	if !ok {
		return "", errUserNotFound
	}

	return role, nil
}

// parseIntQuery читает целочисленный query-параметр с значением по умолчанию.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}

	return value
}

// respondUnauthorized отправляет 401 с сообщением.
func respondUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
}

// respondBadRequest отправляет 400 с сообщением.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// respondError передаёт ошибку централизованному обработчику.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
