package models

import (
	"time"

	"github.com/google/uuid"
)

// Quote представляет отклик фрилансера на открытый заказ.
// Пара (JobID, UserID) уникальна — один фрилансер даёт одну ставку.
type Quote struct {
	ID          uuid.UUID `db:"id" json:"id"`
	JobID       uuid.UUID `db:"job_id" json:"job_id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	QuotePrice  int64     `db:"quote_price" json:"quote_price"`
	CoverLetter string    `db:"cover_letter" json:"cover_letter"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// QuoteWithJob — проекция ставки вместе с данными заказа для списков.
type QuoteWithJob struct {
	Quote
	JobTitle     string    `db:"job_title" json:"job_title"`
	JobStatus    string    `db:"job_status" json:"job_status"`
	JobPrice     int64     `db:"job_price" json:"job_price"`
	CompanyID    uuid.UUID `db:"company_id" json:"company_id"`
	CategoryName string    `db:"category_name" json:"category_name"`
}
