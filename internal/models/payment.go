package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы платежей и трекинга.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Типы сущностей, к которым привязан трекинг платежа.
const (
	TrackingEntitySubscription = "subscription"
	TrackingEntityJob          = "job"
)

// PaymentTracking связывает заказ внешнего платёжного шлюза с покупкой
// подписки или оплатой завершённого заказа. Захват возможен только из
// статуса pending, за счёт чего повторный захват безопасен.
type PaymentTracking struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ExternalOrderID *string    `db:"external_order_id" json:"external_order_id,omitempty"`
	EntityType      string     `db:"entity_type" json:"entity_type"`
	EntityID        *uuid.UUID `db:"entity_id" json:"entity_id,omitempty"`
	CompanyID       uuid.UUID  `db:"company_id" json:"company_id"`
	Amount          int64      `db:"amount" json:"amount"`
	JobLimit        int        `db:"job_limit" json:"job_limit"`
	DurationDays    int        `db:"duration_days" json:"duration_days"`
	Status          string     `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// JobPayment — денежный расчёт по заказу. Не более одного платежа
// в статусе completed на заказ.
type JobPayment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	JobID           uuid.UUID  `db:"job_id" json:"job_id"`
	UserID          uuid.UUID  `db:"user_id" json:"user_id"`
	CompanyID       uuid.UUID  `db:"company_id" json:"company_id"`
	AmountPaid      int64      `db:"amount_paid" json:"amount_paid"`
	ExternalOrderID *string    `db:"external_order_id" json:"external_order_id,omitempty"`
	Status          string     `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// JobCompletion фиксирует завершение заказа после успешного захвата средств.
type JobCompletion struct {
	ID         uuid.UUID `db:"id" json:"id"`
	JobID      uuid.UUID `db:"job_id" json:"job_id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	CompanyID  uuid.UUID `db:"company_id" json:"company_id"`
	AmountPaid int64     `db:"amount_paid" json:"amount_paid"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
