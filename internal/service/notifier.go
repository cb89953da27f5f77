package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/goroutine"
	"github.com/ignatzorin/jobmarket-backend/internal/logger"
	"github.com/ignatzorin/jobmarket-backend/internal/models"
)

// Notifier — исходящий канал уведомлений. Вызывается строго после
// фиксации бизнес-транзакции: сбой доставки логируется и не влияет на
// уже совершённую операцию.
type Notifier interface {
	Notify(userID uuid.UUID, jobID *uuid.UUID, kind, message string)
}

// NotificationStore описывает взаимодействие с хранилищем уведомлений.
type NotificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// NotificationPusher доставляет уведомление подключённым клиентам.
type NotificationPusher interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// NotificationService сохраняет уведомления и рассылает их по WebSocket.
// Оба шага выполняются в фоновой горутине, best-effort.
type NotificationService struct {
	store  NotificationStore
	pusher NotificationPusher
}

// NewNotificationService создаёт сервис уведомлений. pusher может быть nil.
func NewNotificationService(store NotificationStore, pusher NotificationPusher) *NotificationService {
	return &NotificationService{store: store, pusher: pusher}
}

// Notify сохраняет и рассылает уведомление в фоне.
func (s *NotificationService) Notify(userID uuid.UUID, jobID *uuid.UUID, kind, message string) {
	goroutine.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		payload, err := json.Marshal(map[string]any{
			"kind":    kind,
			"job_id":  jobID,
			"message": message,
		})
		if err != nil {
			logger.Log.Errorf("notifier: не удалось сериализовать уведомление: %v", err)
			return
		}

		notification := &models.Notification{
			UserID:  userID,
			JobID:   jobID,
			Kind:    kind,
			Payload: payload,
		}
		if err := s.store.Create(ctx, notification); err != nil {
			logger.Log.Errorf("notifier: не удалось сохранить уведомление: %v", err)
		}

		if s.pusher != nil {
			if err := s.pusher.BroadcastToUser(userID, kind, map[string]any{
				"job_id":  jobID,
				"message": message,
			}); err != nil {
				logger.Log.Errorf("notifier: не удалось отправить уведомление: %v", err)
			}
		}
	})
}

// NotifyMany рассылает одно и то же уведомление списку получателей.
func (s *NotificationService) NotifyMany(userIDs []uuid.UUID, jobID *uuid.UUID, kind, message string) {
	for _, id := range userIDs {
		s.Notify(id, jobID, kind, message)
	}
}
