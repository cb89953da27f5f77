package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
	"github.com/ignatzorin/jobmarket-backend/internal/pkg/apperror"
)

// PaymentGateway абстрагирует внешний платёжный шлюз.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, description string) (string, error)
	CaptureOrder(ctx context.Context, externalOrderID string) (bool, error)
}

// PaymentStore описывает взаимодействие сервиса с хранилищем платежей.
type PaymentStore interface {
	CreateTracking(ctx context.Context, companyID uuid.UUID, amount int64, jobLimit, durationDays int) (*models.PaymentTracking, error)
	SetTrackingOrderID(ctx context.Context, trackingID uuid.UUID, externalOrderID string) error
	GetPendingTracking(ctx context.Context, trackingID uuid.UUID, externalOrderID string) (*models.PaymentTracking, error)
	MarkTrackingFailed(ctx context.Context, trackingID uuid.UUID) error
	CompleteSubscriptionPurchase(ctx context.Context, trackingID uuid.UUID, externalOrderID string) (*models.Subscription, error)
	CreateJobPayment(ctx context.Context, jobID, userID, companyID uuid.UUID, amount int64) (*models.JobPayment, error)
	SetJobPaymentOrderID(ctx context.Context, paymentID uuid.UUID, externalOrderID string) error
	CompleteJobPayment(ctx context.Context, jobID uuid.UUID, externalOrderID string) (*models.JobPayment, error)
}

// SubscriptionPlan описывает тарифный план подписки.
type SubscriptionPlan struct {
	Type         string `json:"type"`
	Amount       int64  `json:"amount"`
	JobLimit     int    `json:"job_limit"`
	DurationDays int    `json:"duration_days"`
}

// Тарифные планы. Суммы в минорных единицах.
var subscriptionPlans = map[string]SubscriptionPlan{
	"basic":    {Type: "basic", Amount: 99900, JobLimit: 3, DurationDays: 30},
	"standard": {Type: "standard", Amount: 249900, JobLimit: 10, DurationDays: 30},
	"premium":  {Type: "premium", Amount: 499900, JobLimit: 30, DurationDays: 30},
}

// PaymentService управляет расчётами: покупкой подписок и оплатой
// завершённых заказов. Оба потока повторяют одну форму: создать заказ
// во внешнем шлюзе -> захватить -> согласовать локальное состояние.
type PaymentService struct {
	payments   PaymentStore
	jobs       JobStore
	agreements AgreementStore
	gateway    PaymentGateway
	notifier   Notifier
}

// NewPaymentService создаёт новый сервис.
func NewPaymentService(payments PaymentStore, jobs JobStore, agreements AgreementStore, gateway PaymentGateway, notifier Notifier) *PaymentService {
	return &PaymentService{payments: payments, jobs: jobs, agreements: agreements, gateway: gateway, notifier: notifier}
}

// Plans возвращает доступные тарифные планы.
func (s *PaymentService) Plans() []SubscriptionPlan {
	return []SubscriptionPlan{
		subscriptionPlans["basic"],
		subscriptionPlans["standard"],
		subscriptionPlans["premium"],
	}
}

// SubscriptionPaymentResult — результат создания платежа за подписку.
type SubscriptionPaymentResult struct {
	TrackingID      uuid.UUID `json:"tracking_id"`
	ExternalOrderID string    `json:"external_order_id"`
	Amount          int64     `json:"amount"`
}

// CreateSubscriptionPayment создаёт pending-трекинг, затем заказ во
// внешнем шлюзе, и сохраняет его идентификатор на трекинге. При отказе
// шлюза трекинг остаётся pending без идентификатора заказа и безвреден.
func (s *PaymentService) CreateSubscriptionPayment(ctx context.Context, companyID uuid.UUID, planType string) (*SubscriptionPaymentResult, error) {
	plan, ok := subscriptionPlans[planType]
	if !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "неизвестный тарифный план")
	}

	tracking, err := s.payments.CreateTracking(ctx, companyID, plan.Amount, plan.JobLimit, plan.DurationDays)
	if err != nil {
		return nil, translateError(err)
	}

	orderID, err := s.gateway.CreateOrder(ctx, plan.Amount, "Подписка "+plan.Type)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeGateway, "платёжный шлюз недоступен")
	}

	if err := s.payments.SetTrackingOrderID(ctx, tracking.ID, orderID); err != nil {
		return nil, translateError(err)
	}

	return &SubscriptionPaymentResult{
		TrackingID:      tracking.ID,
		ExternalOrderID: orderID,
		Amount:          plan.Amount,
	}, nil
}

// CaptureSubscriptionPayment захватывает платёж за подписку. Трекинг
// должен совпасть сразу по обоим идентификаторам и быть pending. Отказ
// шлюза помечает трекинг failed, подписка не создаётся. Ошибка связи
// оставляет трекинг pending — захват можно повторить. Успех атомарно
// завершает трекинг и создаёт подписку.
func (s *PaymentService) CaptureSubscriptionPayment(ctx context.Context, trackingID uuid.UUID, externalOrderID string) (*models.Subscription, error) {
	tracking, err := s.payments.GetPendingTracking(ctx, trackingID, externalOrderID)
	if err != nil {
		return nil, translateError(err)
	}

	approved, err := s.gateway.CaptureOrder(ctx, externalOrderID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeGateway, "платёжный шлюз недоступен")
	}
	if !approved {
		if err := s.payments.MarkTrackingFailed(ctx, tracking.ID); err != nil {
			return nil, translateError(err)
		}
		return nil, apperror.ErrPaymentNotCompleted
	}

	sub, err := s.payments.CompleteSubscriptionPurchase(ctx, trackingID, externalOrderID)
	if err != nil {
		return nil, translateError(err)
	}

	return sub, nil
}

// JobPaymentResult — результат создания платежа по заказу.
type JobPaymentResult struct {
	PaymentID       uuid.UUID `json:"payment_id"`
	ExternalOrderID string    `json:"external_order_id"`
	Amount          int64     `json:"amount"`
}

// CreateJobPayment создаёт платёж за работу по заказу. Заказ должен
// принадлежать компании и находиться в in_progress с принятым
// соглашением: заказ переводится в completed только после успешного
// захвата средств, не раньше. Сумма берётся из принятого соглашения.
func (s *PaymentService) CreateJobPayment(ctx context.Context, jobID, companyID uuid.UUID) (*JobPaymentResult, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, translateError(err)
	}
	if job.CompanyID != companyID {
		return nil, apperror.ErrJobNotFound
	}
	if job.Status != models.JobStatusInProgress {
		return nil, apperror.New(apperror.ErrCodeConflict, "оплатить можно только заказ в работе")
	}

	agreement, err := s.agreements.GetAcceptedByJob(ctx, jobID)
	if err != nil {
		return nil, translateError(err)
	}

	payment, err := s.payments.CreateJobPayment(ctx, jobID, agreement.UserID, companyID, agreement.Price)
	if err != nil {
		return nil, translateError(err)
	}

	orderID, err := s.gateway.CreateOrder(ctx, agreement.Price, fmt.Sprintf("Оплата заказа «%s»", job.Title))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeGateway, "платёжный шлюз недоступен")
	}

	if err := s.payments.SetJobPaymentOrderID(ctx, payment.ID, orderID); err != nil {
		return nil, translateError(err)
	}

	return &JobPaymentResult{
		PaymentID:       payment.ID,
		ExternalOrderID: orderID,
		Amount:          agreement.Price,
	}, nil
}

// CaptureJobPayment захватывает платёж по заказу. Неподтверждённый шлюзом
// захват оставляет платёж pending и пригодным для повтора. Успех атомарно
// завершает платёж, создаёт запись о завершении и переводит заказ в
// completed; фрилансер уведомляется суммой расчёта. Повторный захват той
// же пары идентификаторов после успеха — идемпотентный no-op: вторая
// запись не создаётся, второе уведомление не отправляется.
func (s *PaymentService) CaptureJobPayment(ctx context.Context, jobID uuid.UUID, externalOrderID string) (*models.JobPayment, error) {
	approved, err := s.gateway.CaptureOrder(ctx, externalOrderID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeGateway, "платёжный шлюз недоступен")
	}
	if !approved {
		return nil, apperror.ErrPaymentNotCompleted
	}

	payment, err := s.payments.CompleteJobPayment(ctx, jobID, externalOrderID)
	if err != nil {
		return nil, translateError(err)
	}

	s.notifier.Notify(payment.UserID, &payment.JobID, models.NotifyPaymentSettled,
		fmt.Sprintf("Оплата по заказу получена: %d.%02d", payment.AmountPaid/100, payment.AmountPaid%100))

	return payment, nil
}
