package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription — оплаченная квота на размещение заказов.
// JobsPosted только увеличивается; строка пригодна для размещения,
// пока ExpiresAt в будущем и JobsPosted < JobLimit.
type Subscription struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CompanyID   uuid.UUID `db:"company_id" json:"company_id"`
	Amount      int64     `db:"amount" json:"amount"`
	JobLimit    int       `db:"job_limit" json:"job_limit"`
	JobsPosted  int       `db:"jobs_posted" json:"jobs_posted"`
	PurchasedAt time.Time `db:"purchased_at" json:"purchased_at"`
	ExpiresAt   time.Time `db:"expires_at" json:"expires_at"`
}

// Remaining возвращает количество оставшихся размещений.
func (s *Subscription) Remaining() int {
	if s.JobsPosted >= s.JobLimit {
		return 0
	}
	return s.JobLimit - s.JobsPosted
}

// IsUsable сообщает, можно ли разместить заказ по этой подписке.
func (s *Subscription) IsUsable(now time.Time) bool {
	return s.ExpiresAt.After(now) && s.JobsPosted < s.JobLimit
}
