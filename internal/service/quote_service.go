package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
	"github.com/ignatzorin/jobmarket-backend/internal/pkg/apperror"
)

// QuoteBook описывает взаимодействие сервиса с хранилищем ставок.
type QuoteBook interface {
	Create(ctx context.Context, quote *models.Quote) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	GetByJobAndUser(ctx context.Context, jobID, userID uuid.UUID) (*models.Quote, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Quote, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.QuoteWithJob, error)
}

// QuoteService содержит бизнес-логику работы со ставками.
type QuoteService struct {
	quotes   QuoteBook
	jobs     JobStore
	notifier Notifier
}

// NewQuoteService создаёт новый сервис.
func NewQuoteService(quotes QuoteBook, jobs JobStore, notifier Notifier) *QuoteService {
	return &QuoteService{quotes: quotes, jobs: jobs, notifier: notifier}
}

// SubmitQuote сохраняет ставку фрилансера. Открытость заказа и
// отсутствие дубля проверяются транзакционно в репозитории. Компания
// уведомляется после успешной вставки.
func (s *QuoteService) SubmitQuote(ctx context.Context, jobID, userID uuid.UUID, quotePrice int64, coverLetter string) (*models.Quote, error) {
	if quotePrice <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "цена ставки должна быть положительной")
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, translateError(err)
	}
	if job.CompanyID == userID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "нельзя оставить ставку на собственный заказ")
	}

	quote := &models.Quote{
		JobID:       jobID,
		UserID:      userID,
		QuotePrice:  quotePrice,
		CoverLetter: coverLetter,
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, translateError(err)
	}

	s.notifier.Notify(job.CompanyID, &jobID, models.NotifyQuoteSubmitted,
		fmt.Sprintf("Новая ставка на заказ «%s»", job.Title))

	return quote, nil
}

// ListForJob возвращает ставки по заказу. Доступно только компании-владельцу.
func (s *QuoteService) ListForJob(ctx context.Context, jobID, companyID uuid.UUID) ([]models.Quote, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, translateError(err)
	}
	if job.CompanyID != companyID {
		return nil, apperror.ErrJobNotFound
	}

	quotes, err := s.quotes.ListByJob(ctx, jobID)
	if err != nil {
		return nil, translateError(err)
	}
	return quotes, nil
}

// ListForUser возвращает ставки фрилансера с данными заказов.
func (s *QuoteService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.QuoteWithJob, error) {
	quotes, err := s.quotes.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateError(err)
	}
	return quotes, nil
}
