package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Виды уведомлений, которые порождает жизненный цикл заказа.
const (
	NotifyJobPosted          = "job.posted"
	NotifyQuoteSubmitted     = "quote.submitted"
	NotifyFreelancerSelected = "freelancer.selected"
	NotifyAgreementCreated   = "agreement.created"
	NotifyAgreementAccepted  = "agreement.accepted"
	NotifyAgreementRejected  = "agreement.rejected"
	NotifyPaymentSettled     = "payment.settled"
)

// Notification — сохранённое уведомление пользователя.
type Notification struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	JobID     *uuid.UUID      `db:"job_id" json:"job_id,omitempty"`
	Kind      string          `db:"kind" json:"kind"`
	Payload   json.RawMessage `db:"payload" json:"payload"`
	IsRead    bool            `db:"is_read" json:"is_read"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
