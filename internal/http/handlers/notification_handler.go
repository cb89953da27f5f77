package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/repository"
)

// NotificationHandler обслуживает маршруты уведомлений.
type NotificationHandler struct {
	notifications *repository.NotificationRepository
}

// NewNotificationHandler создаёт новый хэндлер.
func NewNotificationHandler(notifications *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications обрабатывает GET /api/notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)
	unreadOnly := c.Query("unread_only") == "true"

	notifications, err := h.notifications.List(c.Request.Context(), userID, limit, offset, unreadOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkAsRead обрабатывает PUT /api/notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "неверный идентификатор уведомления")
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), id, userID); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "уведомление не найдено"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "уведомление прочитано"})
}

// CountUnread обрабатывает GET /api/notifications/unread-count.
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondUnauthorized(c, err.Error())
		return
	}

	count, err := h.notifications.CountUnread(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
