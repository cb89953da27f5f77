package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
)

// SubscriptionRepository отвечает за учёт квот на размещение заказов.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository создаёт новый экземпляр.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// FindActive возвращает пригодную подписку компании: не истёкшую и с
// остатком размещений. При нескольких подходящих берётся та, что
// истекает позже всех; при равенстве — купленная последней.
// Отсутствие подписки не ошибка: возвращается (nil, nil).
func (r *SubscriptionRepository) FindActive(ctx context.Context, companyID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	query := `
		SELECT id, company_id, amount, job_limit, jobs_posted, purchased_at, expires_at
		FROM subscriptions
		WHERE company_id = $1 AND expires_at > NOW() AND jobs_posted < job_limit
		ORDER BY expires_at DESC, purchased_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &sub, query, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("subscription repository: find active %w", err)
	}
	return &sub, nil
}

// GetByID возвращает подписку по идентификатору.
func (r *SubscriptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	query := `
		SELECT id, company_id, amount, job_limit, jobs_posted, purchased_at, expires_at
		FROM subscriptions WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &sub, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("subscription repository: get by id %w", err)
	}
	return &sub, nil
}

// ReserveSlot атомарно списывает одно размещение. Условие jobs_posted <
// job_limit входит в сам UPDATE: из N конкурентных вызовов за последний
// слот успешен ровно один, остальные получают ErrQuotaExceeded.
func (r *SubscriptionRepository) ReserveSlot(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	sub, err := reserveSlot(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// List возвращает подписки компании, новые первыми.
func (r *SubscriptionRepository) List(ctx context.Context, companyID uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription
	query := `
		SELECT id, company_id, amount, job_limit, jobs_posted, purchased_at, expires_at
		FROM subscriptions
		WHERE company_id = $1
		ORDER BY purchased_at DESC
	`
	if err := r.db.SelectContext(ctx, &subs, query, companyID); err != nil {
		return nil, fmt.Errorf("subscription repository: list %w", err)
	}
	return subs, nil
}

// reserveSlot выполняет условное списание слота через переданный executor:
// либо соединение, либо открытую транзакцию создания заказа.
func reserveSlot(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	query := `
		UPDATE subscriptions
		SET jobs_posted = jobs_posted + 1
		WHERE id = $1 AND expires_at > NOW() AND jobs_posted < job_limit
		RETURNING id, company_id, amount, job_limit, jobs_posted, purchased_at, expires_at
	`
	if err := sqlx.GetContext(ctx, q, &sub, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuotaExceeded
		}
		return nil, fmt.Errorf("subscription repository: reserve slot %w", err)
	}
	return &sub, nil
}

// insertSubscription создаёт строку подписки. Вызывается только из
// транзакции захвата платежа: подписка не существует без завершённой оплаты.
func insertSubscription(ctx context.Context, q sqlx.ExtContext, companyID uuid.UUID, amount int64, jobLimit, durationDays int) (*models.Subscription, error) {
	var sub models.Subscription
	query := `
		INSERT INTO subscriptions (company_id, amount, job_limit, jobs_posted, purchased_at, expires_at)
		VALUES ($1, $2, $3, 0, NOW(), NOW() + make_interval(days => $4))
		RETURNING id, company_id, amount, job_limit, jobs_posted, purchased_at, expires_at
	`
	if err := sqlx.GetContext(ctx, q, &sub, query, companyID, amount, jobLimit, durationDays); err != nil {
		return nil, fmt.Errorf("subscription repository: insert %w", err)
	}
	return &sub, nil
}
