package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
	"github.com/ignatzorin/jobmarket-backend/internal/pkg/apperror"
)

// AgreementStore описывает взаимодействие сервиса с хранилищем
// выборов и соглашений.
type AgreementStore interface {
	CreateSelection(ctx context.Context, jobID, userID uuid.UUID) (*models.Selection, error)
	GetSelectionByJob(ctx context.Context, jobID uuid.UUID) (*models.Selection, error)
	Create(ctx context.Context, agreement *models.Agreement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Agreement, error)
	GetAcceptedByJob(ctx context.Context, jobID uuid.UUID) (*models.Agreement, error)
	Accept(ctx context.Context, agreementID, userID uuid.UUID) (*models.Agreement, error)
	Reject(ctx context.Context, agreementID, userID uuid.UUID) (*models.Agreement, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Agreement, error)
}

// AgreementService согласует волю двух сторон: выбор компании и ответ
// фрилансера. Состояния по заказу:
//
//	нет выбора -> выбран -> соглашение pending -> accepted | rejected
//
// rejected снимает выбор и возвращает заказ к началу цикла.
type AgreementService struct {
	agreements AgreementStore
	quotes     QuoteBook
	jobs       JobStore
	notifier   Notifier
}

// NewAgreementService создаёт новый сервис.
func NewAgreementService(agreements AgreementStore, quotes QuoteBook, jobs JobStore, notifier Notifier) *AgreementService {
	return &AgreementService{agreements: agreements, quotes: quotes, jobs: jobs, notifier: notifier}
}

// SelectFreelancer фиксирует выбор исполнителя. Заказ должен принадлежать
// компании, фрилансер — иметь ставку на него. Повторный выбор по заказу
// отклоняется уникальностью в репозитории.
func (s *AgreementService) SelectFreelancer(ctx context.Context, jobID, userID, companyID uuid.UUID) (*models.Selection, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, translateError(err)
	}
	if job.CompanyID != companyID {
		return nil, apperror.ErrJobNotFound
	}

	if _, err := s.quotes.GetByJobAndUser(ctx, jobID, userID); err != nil {
		return nil, translateError(err)
	}

	selection, err := s.agreements.CreateSelection(ctx, jobID, userID)
	if err != nil {
		return nil, translateError(err)
	}

	s.notifier.Notify(userID, &jobID, models.NotifyFreelancerSelected,
		fmt.Sprintf("Вас выбрали исполнителем по заказу «%s»", job.Title))

	return selection, nil
}

// CreateAgreementInput содержит данные нового соглашения.
type CreateAgreementInput struct {
	JobID        uuid.UUID
	FreelancerID uuid.UUID
	CompanyID    uuid.UUID
	QuoteID      uuid.UUID
	Price        int64
}

// CreateAgreement формирует соглашение в статусе pending. Ставка должна
// принадлежать выбранному фрилансеру и этому заказу; наличие выбора и
// отсутствие действующего соглашения проверяются транзакционно.
func (s *AgreementService) CreateAgreement(ctx context.Context, input CreateAgreementInput) (*models.Agreement, error) {
	if input.Price <= 0 {
		return nil, apperror.New(apperror.ErrCodeValidation, "цена соглашения должна быть положительной")
	}

	job, err := s.jobs.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, translateError(err)
	}
	if job.CompanyID != input.CompanyID {
		return nil, apperror.ErrJobNotFound
	}

	quote, err := s.quotes.GetByID(ctx, input.QuoteID)
	if err != nil {
		return nil, translateError(err)
	}
	if quote.JobID != input.JobID || quote.UserID != input.FreelancerID {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "ставка не относится к этому заказу и фрилансеру")
	}

	agreement := &models.Agreement{
		JobID:     input.JobID,
		UserID:    input.FreelancerID,
		CompanyID: input.CompanyID,
		QuoteID:   input.QuoteID,
		Price:     input.Price,
	}
	if err := s.agreements.Create(ctx, agreement); err != nil {
		return nil, translateError(err)
	}

	s.notifier.Notify(input.FreelancerID, &input.JobID, models.NotifyAgreementCreated,
		fmt.Sprintf("Компания предлагает соглашение по заказу «%s»", job.Title))

	return agreement, nil
}

// Accept принимает соглашение от имени фрилансера. Перевод соглашения в
// accepted и заказа в in_progress атомарен на уровне репозитория.
func (s *AgreementService) Accept(ctx context.Context, agreementID, userID uuid.UUID) (*models.Agreement, error) {
	agreement, err := s.agreements.Accept(ctx, agreementID, userID)
	if err != nil {
		return nil, translateError(err)
	}

	s.notifier.Notify(agreement.CompanyID, &agreement.JobID, models.NotifyAgreementAccepted,
		"Фрилансер принял соглашение, работа началась")

	return agreement, nil
}

// Reject отклоняет соглашение от имени фрилансера. Выбор снимается,
// заказ возвращается в open — компания может выбрать другую ставку.
func (s *AgreementService) Reject(ctx context.Context, agreementID, userID uuid.UUID) (*models.Agreement, error) {
	agreement, err := s.agreements.Reject(ctx, agreementID, userID)
	if err != nil {
		return nil, translateError(err)
	}

	s.notifier.Notify(agreement.CompanyID, &agreement.JobID, models.NotifyAgreementRejected,
		"Фрилансер отклонил соглашение, заказ снова открыт")

	return agreement, nil
}

// ListForUser возвращает соглашения фрилансера.
func (s *AgreementService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Agreement, error) {
	agreements, err := s.agreements.ListByUser(ctx, userID)
	if err != nil {
		return nil, translateError(err)
	}
	return agreements, nil
}
