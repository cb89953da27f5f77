package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Ошибки уровня репозитория. Сервисный слой переводит их в apperror
// с корректным HTTP статусом.
var (
	ErrJobNotFound          = errors.New("job not found")
	ErrQuoteNotFound        = errors.New("quote not found")
	ErrSelectionNotFound    = errors.New("selection not found")
	ErrAgreementNotFound    = errors.New("agreement not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrTrackingNotFound     = errors.New("payment tracking not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrQuotaExceeded     = errors.New("subscription quota exceeded")
	ErrJobNotOpen        = errors.New("job is not open")
	ErrDuplicateQuote    = errors.New("duplicate quote")
	ErrAlreadySelected   = errors.New("freelancer already selected")
	ErrAgreementExists   = errors.New("active agreement already exists")
	ErrAlreadyResponded  = errors.New("agreement already responded")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrAlreadyCompleted  = errors.New("payment already completed")
)

// uniqueViolation — код ошибки PostgreSQL для нарушения уникальности.
const uniqueViolation = "23505"

// isUniqueViolation проверяет, что ошибка вызвана нарушением уникального
// ограничения. Через такие ограничения база удерживает инварианты
// "одна ставка на пару (заказ, фрилансер)" и "один выбор на заказ"
// при любом чередовании конкурентных запросов.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
