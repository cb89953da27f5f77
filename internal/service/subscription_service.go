package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
)

// SubscriptionLedger описывает взаимодействие сервисов с учётом подписок.
type SubscriptionLedger interface {
	FindActive(ctx context.Context, companyID uuid.UUID) (*models.Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	List(ctx context.Context, companyID uuid.UUID) ([]models.Subscription, error)
}

// SubscriptionService отдаёт состояние квот компании. Создание подписок
// принадлежит платёжному сервису, списание слотов — созданию заказа.
type SubscriptionService struct {
	repo SubscriptionLedger
}

// NewSubscriptionService создаёт новый сервис.
func NewSubscriptionService(repo SubscriptionLedger) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

// GetActive возвращает пригодную подписку компании либо nil.
// nil не ошибка: зависимые операции обязаны отказать сами.
func (s *SubscriptionService) GetActive(ctx context.Context, companyID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.repo.FindActive(ctx, companyID)
	if err != nil {
		return nil, translateError(err)
	}
	return sub, nil
}

// List возвращает историю подписок компании.
func (s *SubscriptionService) List(ctx context.Context, companyID uuid.UUID) ([]models.Subscription, error) {
	subs, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, translateError(err)
	}
	return subs, nil
}
