package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы соглашения.
const (
	AgreementStatusPending  = "pending"
	AgreementStatusAccepted = "accepted"
	AgreementStatusRejected = "rejected"
)

// Selection фиксирует выбор компанией ровно одного фрилансера по заказу.
// JobID уникален — не более одного выбора на заказ.
type Selection struct {
	ID        uuid.UUID `db:"id" json:"id"`
	JobID     uuid.UUID `db:"job_id" json:"job_id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Agreement — двустороннее соглашение, требующее явного ответа фрилансера.
// На заказ одновременно существует не более одного соглашения в статусе
// pending или accepted; отклонённое соглашение возвращает заказ в open.
type Agreement struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	JobID      uuid.UUID  `db:"job_id" json:"job_id"`
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	CompanyID  uuid.UUID  `db:"company_id" json:"company_id"`
	QuoteID    uuid.UUID  `db:"quote_id" json:"quote_id"`
	Price      int64      `db:"price" json:"price"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ResponseAt *time.Time `db:"response_at" json:"response_at,omitempty"`
}

// ContractAcceptance фиксирует факт принятия соглашения фрилансером.
type ContractAcceptance struct {
	ID          uuid.UUID `db:"id" json:"id"`
	AgreementID uuid.UUID `db:"agreement_id" json:"agreement_id"`
	JobID       uuid.UUID `db:"job_id" json:"job_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	AcceptedAt  time.Time `db:"accepted_at" json:"accepted_at"`
}
