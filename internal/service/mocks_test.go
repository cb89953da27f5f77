package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/jobmarket-backend/internal/logger"
	"github.com/ignatzorin/jobmarket-backend/internal/models"
	"github.com/ignatzorin/jobmarket-backend/internal/repository"
)

func init() {
	logger.Init("error")
}

type mockJobStore struct {
	mock.Mock
}

func (m *mockJobStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Job), args.Error(1)
}

func (m *mockJobStore) CreateWithSlot(ctx context.Context, job *models.Job, subscriptionID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, job, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *mockJobStore) TransitionStatus(ctx context.Context, jobID uuid.UUID, from, to string) error {
	args := m.Called(ctx, jobID, from, to)
	return args.Error(0)
}

func (m *mockJobStore) List(ctx context.Context, params repository.JobListParams) (*repository.JobListResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.JobListResult), args.Error(1)
}

type mockSubscriptionLedger struct {
	mock.Mock
}

func (m *mockSubscriptionLedger) FindActive(ctx context.Context, companyID uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *mockSubscriptionLedger) GetByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *mockSubscriptionLedger) List(ctx context.Context, companyID uuid.UUID) ([]models.Subscription, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

type mockFreelancerDirectory struct {
	mock.Mock
}

func (m *mockFreelancerDirectory) ListFreelancersByCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type mockQuoteBook struct {
	mock.Mock
}

func (m *mockQuoteBook) Create(ctx context.Context, quote *models.Quote) error {
	args := m.Called(ctx, quote)
	return args.Error(0)
}

func (m *mockQuoteBook) GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *mockQuoteBook) GetByJobAndUser(ctx context.Context, jobID, userID uuid.UUID) (*models.Quote, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quote), args.Error(1)
}

func (m *mockQuoteBook) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Quote, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Quote), args.Error(1)
}

func (m *mockQuoteBook) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.QuoteWithJob, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.QuoteWithJob), args.Error(1)
}

type mockAgreementStore struct {
	mock.Mock
}

func (m *mockAgreementStore) CreateSelection(ctx context.Context, jobID, userID uuid.UUID) (*models.Selection, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Selection), args.Error(1)
}

func (m *mockAgreementStore) GetSelectionByJob(ctx context.Context, jobID uuid.UUID) (*models.Selection, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Selection), args.Error(1)
}

func (m *mockAgreementStore) Create(ctx context.Context, agreement *models.Agreement) error {
	args := m.Called(ctx, agreement)
	return args.Error(0)
}

func (m *mockAgreementStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Agreement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agreement), args.Error(1)
}

func (m *mockAgreementStore) GetAcceptedByJob(ctx context.Context, jobID uuid.UUID) (*models.Agreement, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agreement), args.Error(1)
}

func (m *mockAgreementStore) Accept(ctx context.Context, agreementID, userID uuid.UUID) (*models.Agreement, error) {
	args := m.Called(ctx, agreementID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agreement), args.Error(1)
}

func (m *mockAgreementStore) Reject(ctx context.Context, agreementID, userID uuid.UUID) (*models.Agreement, error) {
	args := m.Called(ctx, agreementID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agreement), args.Error(1)
}

func (m *mockAgreementStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Agreement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Agreement), args.Error(1)
}

type mockPaymentStore struct {
	mock.Mock
}

func (m *mockPaymentStore) CreateTracking(ctx context.Context, companyID uuid.UUID, amount int64, jobLimit, durationDays int) (*models.PaymentTracking, error) {
	args := m.Called(ctx, companyID, amount, jobLimit, durationDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentTracking), args.Error(1)
}

func (m *mockPaymentStore) SetTrackingOrderID(ctx context.Context, trackingID uuid.UUID, externalOrderID string) error {
	args := m.Called(ctx, trackingID, externalOrderID)
	return args.Error(0)
}

func (m *mockPaymentStore) GetPendingTracking(ctx context.Context, trackingID uuid.UUID, externalOrderID string) (*models.PaymentTracking, error) {
	args := m.Called(ctx, trackingID, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentTracking), args.Error(1)
}

func (m *mockPaymentStore) MarkTrackingFailed(ctx context.Context, trackingID uuid.UUID) error {
	args := m.Called(ctx, trackingID)
	return args.Error(0)
}

func (m *mockPaymentStore) CompleteSubscriptionPurchase(ctx context.Context, trackingID uuid.UUID, externalOrderID string) (*models.Subscription, error) {
	args := m.Called(ctx, trackingID, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *mockPaymentStore) CreateJobPayment(ctx context.Context, jobID, userID, companyID uuid.UUID, amount int64) (*models.JobPayment, error) {
	args := m.Called(ctx, jobID, userID, companyID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobPayment), args.Error(1)
}

func (m *mockPaymentStore) SetJobPaymentOrderID(ctx context.Context, paymentID uuid.UUID, externalOrderID string) error {
	args := m.Called(ctx, paymentID, externalOrderID)
	return args.Error(0)
}

func (m *mockPaymentStore) CompleteJobPayment(ctx context.Context, jobID uuid.UUID, externalOrderID string) (*models.JobPayment, error) {
	args := m.Called(ctx, jobID, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.JobPayment), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, amount int64, description string) (string, error) {
	args := m.Called(ctx, amount, description)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) CaptureOrder(ctx context.Context, externalOrderID string) (bool, error) {
	args := m.Called(ctx, externalOrderID)
	return args.Bool(0), args.Error(1)
}

// recordedNotification хранит параметры одного вызова Notify.
type recordedNotification struct {
	UserID  uuid.UUID
	JobID   *uuid.UUID
	Kind    string
	Message string
}

// recordingNotifier собирает уведомления синхронно, без горутин.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []recordedNotification
}

func (n *recordingNotifier) Notify(userID uuid.UUID, jobID *uuid.UUID, kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, recordedNotification{UserID: userID, JobID: jobID, Kind: kind, Message: message})
}

func (n *recordingNotifier) all() []recordedNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]recordedNotification, len(n.sent))
	copy(out, n.sent)
	return out
}
