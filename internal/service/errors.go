package service

import (
	"errors"

	"github.com/ignatzorin/jobmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobmarket-backend/internal/repository"
)

// translateError переводит ошибки репозиториев в apperror с корректным
// HTTP статусом. Отсутствие ресурса и отсутствие прав намеренно
// неразличимы для клиента: и то и другое отдаётся как "не найдено".
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrJobNotFound):
		return apperror.ErrJobNotFound
	case errors.Is(err, repository.ErrQuoteNotFound):
		return apperror.ErrQuoteNotFound
	case errors.Is(err, repository.ErrSelectionNotFound):
		return apperror.New(apperror.ErrCodeNotFound, "исполнитель по заказу не выбран")
	case errors.Is(err, repository.ErrAgreementNotFound):
		return apperror.ErrAgreementNotFound
	case errors.Is(err, repository.ErrSubscriptionNotFound):
		return apperror.New(apperror.ErrCodeNotFound, "подписка не найдена")
	case errors.Is(err, repository.ErrTrackingNotFound):
		return apperror.New(apperror.ErrCodeNotFound, "платёж не найден или уже обработан")
	case errors.Is(err, repository.ErrPaymentNotFound):
		return apperror.New(apperror.ErrCodeNotFound, "платёж по заказу не найден")
	case errors.Is(err, repository.ErrUserNotFound):
		return apperror.ErrUserNotFound
	case errors.Is(err, repository.ErrQuotaExceeded):
		return apperror.ErrQuotaExceeded
	case errors.Is(err, repository.ErrJobNotOpen):
		return apperror.ErrJobNotOpen
	case errors.Is(err, repository.ErrDuplicateQuote):
		return apperror.ErrDuplicateQuote
	case errors.Is(err, repository.ErrAlreadySelected):
		return apperror.ErrAlreadySelected
	case errors.Is(err, repository.ErrAgreementExists):
		return apperror.ErrAgreementExists
	case errors.Is(err, repository.ErrAlreadyResponded):
		return apperror.ErrAlreadyResponded
	case errors.Is(err, repository.ErrInvalidTransition):
		return apperror.New(apperror.ErrCodeConflict, "недопустимый переход статуса заказа")
	case errors.Is(err, repository.ErrAlreadyCompleted):
		return apperror.ErrAlreadyPaid
	default:
		return apperror.Wrap(err, apperror.ErrCodeInternal, "внутренняя ошибка сервера")
	}
}
