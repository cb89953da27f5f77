package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Статусы заказа. Граф переходов:
//
//	open ──► in_progress ──► completed
//	  │
//	  └────► cancelled
//
// completed и cancelled — терминальные состояния.
const (
	JobStatusOpen       = "open"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// jobTransitions перечисляет допустимые пары (из -> в).
var jobTransitions = map[string][]string{
	JobStatusOpen:       {JobStatusInProgress, JobStatusCancelled},
	JobStatusInProgress: {JobStatusCompleted},
	// completed и cancelled — исходящих переходов нет
}

// ParseJobStatus преобразует строку в статус заказа, возвращая ошибку для неизвестных значений.
func ParseJobStatus(s string) (string, error) {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return s, nil
	}
	return "", fmt.Errorf("неизвестный статус заказа %q", s)
}

// IsJobTransitionAllowed сообщает, разрешён ли переход from -> to.
func IsJobTransitionAllowed(from, to string) bool {
	for _, s := range jobTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Job описывает размещённый компанией заказ.
// Price хранится в минорных единицах валюты (копейки/центы), чтобы
// исключить накопление ошибок плавающей точки.
type Job struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	CompanyID   uuid.UUID  `db:"company_id" json:"company_id"`
	CategoryID  uuid.UUID  `db:"category_id" json:"category_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	Price       int64      `db:"price" json:"price"`
	Location    *string    `db:"location" json:"location,omitempty"`
	DeadlineAt  *time.Time `db:"deadline_at" json:"deadline_at,omitempty"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Заполняется списочными запросами.
	QuotesCount *int `db:"quotes_count" json:"quotes_count,omitempty"`
}
