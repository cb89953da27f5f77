package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeGateway       ErrorCode = "GATEWAY_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeConflict
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

// HTTPStatus возвращает HTTP статус для ошибки; для неизвестных ошибок — 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

var (
	ErrJobNotFound         = New(ErrCodeNotFound, "заказ не найден")
	ErrQuoteNotFound       = New(ErrCodeNotFound, "ставка не найдена")
	ErrAgreementNotFound   = New(ErrCodeNotFound, "соглашение не найдено")
	ErrUserNotFound        = New(ErrCodeNotFound, "пользователь не найден")
	ErrUnauthorized        = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden           = New(ErrCodeForbidden, "недостаточно прав")
	ErrSubscriptionNeeded  = New(ErrCodeForbidden, "требуется активная подписка")
	ErrQuotaExceeded       = New(ErrCodeConflict, "лимит размещений по подписке исчерпан")
	ErrJobNotOpen          = New(ErrCodeConflict, "заказ уже не открыт для ставок")
	ErrDuplicateQuote      = New(ErrCodeBadRequest, "вы уже оставили ставку на этот заказ")
	ErrAlreadySelected     = New(ErrCodeConflict, "исполнитель по заказу уже выбран")
	ErrAgreementExists     = New(ErrCodeConflict, "по заказу уже есть действующее соглашение")
	ErrAlreadyResponded    = New(ErrCodeConflict, "ответ на соглашение уже дан")
	ErrPaymentNotCompleted = New(ErrCodeGateway, "платёж не подтверждён шлюзом")
	ErrAlreadyPaid         = New(ErrCodeConflict, "по заказу уже есть завершённый платёж")
)
