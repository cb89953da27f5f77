package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
	"github.com/ignatzorin/jobmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobmarket-backend/internal/repository"
)

func newAgreementService() (*AgreementService, *mockAgreementStore, *mockQuoteBook, *mockJobStore, *recordingNotifier) {
	agreements := new(mockAgreementStore)
	quotes := new(mockQuoteBook)
	jobs := new(mockJobStore)
	notifier := &recordingNotifier{}
	return NewAgreementService(agreements, quotes, jobs, notifier), agreements, quotes, jobs, notifier
}

func TestAgreementService_SelectFreelancer_Success(t *testing.T) {
	svc, agreements, quotes, jobs, notifier := newAgreementService()
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()
	freelancerID := uuid.New()

	jobs.On("GetByID", ctx, jobID).Return(&models.Job{ID: jobID, CompanyID: companyID, Title: "Лендинг", Status: models.JobStatusOpen}, nil)
	quotes.On("GetByJobAndUser", ctx, jobID, freelancerID).Return(&models.Quote{ID: uuid.New(), JobID: jobID, UserID: freelancerID}, nil)
	agreements.On("CreateSelection", ctx, jobID, freelancerID).Return(&models.Selection{JobID: jobID, UserID: freelancerID}, nil)

	selection, err := svc.SelectFreelancer(ctx, jobID, freelancerID, companyID)

	assert.NoError(t, err)
	assert.Equal(t, freelancerID, selection.UserID)

	sent := notifier.all()
	assert.Len(t, sent, 1)
	assert.Equal(t, freelancerID, sent[0].UserID)
	assert.Equal(t, models.NotifyFreelancerSelected, sent[0].Kind)
}

func TestAgreementService_SelectFreelancer_NoQuote(t *testing.T) {
	svc, agreements, quotes, jobs, _ := newAgreementService()
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()
	freelancerID := uuid.New()

	jobs.On("GetByID", ctx, jobID).Return(&models.Job{ID: jobID, CompanyID: companyID, Status: models.JobStatusOpen}, nil)
	quotes.On("GetByJobAndUser", ctx, jobID, freelancerID).Return(nil, repository.ErrQuoteNotFound)

	_, err := svc.SelectFreelancer(ctx, jobID, freelancerID, companyID)

	assert.ErrorIs(t, err, apperror.ErrQuoteNotFound)
	agreements.AssertNotCalled(t, "CreateSelection", mock.Anything, mock.Anything, mock.Anything)
}

func TestAgreementService_SelectFreelancer_AlreadySelected(t *testing.T) {
	svc, agreements, quotes, jobs, notifier := newAgreementService()
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()
	freelancerID := uuid.New()

	jobs.On("GetByID", ctx, jobID).Return(&models.Job{ID: jobID, CompanyID: companyID, Status: models.JobStatusOpen}, nil)
	quotes.On("GetByJobAndUser", ctx, jobID, freelancerID).Return(&models.Quote{JobID: jobID, UserID: freelancerID}, nil)
	agreements.On("CreateSelection", ctx, jobID, freelancerID).Return(nil, repository.ErrAlreadySelected)

	_, err := svc.SelectFreelancer(ctx, jobID, freelancerID, companyID)

	assert.ErrorIs(t, err, apperror.ErrAlreadySelected)
	assert.Empty(t, notifier.all())
}

func TestAgreementService_CreateAgreement_QuoteMismatch(t *testing.T) {
	svc, agreements, quotes, jobs, _ := newAgreementService()
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()
	freelancerID := uuid.New()
	quoteID := uuid.New()

	jobs.On("GetByID", ctx, jobID).Return(&models.Job{ID: jobID, CompanyID: companyID, Status: models.JobStatusOpen}, nil)
	// ставка от другого фрилансера
	quotes.On("GetByID", ctx, quoteID).Return(&models.Quote{ID: quoteID, JobID: jobID, UserID: uuid.New()}, nil)

	_, err := svc.CreateAgreement(ctx, CreateAgreementInput{
		JobID:        jobID,
		FreelancerID: freelancerID,
		CompanyID:    companyID,
		QuoteID:      quoteID,
		Price:        100000,
	})

	assert.Error(t, err)
	agreements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAgreementService_CreateAgreement_Success(t *testing.T) {
	svc, agreements, quotes, jobs, notifier := newAgreementService()
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()
	freelancerID := uuid.New()
	quoteID := uuid.New()

	jobs.On("GetByID", ctx, jobID).Return(&models.Job{ID: jobID, CompanyID: companyID, Title: "Лендинг", Status: models.JobStatusOpen}, nil)
	quotes.On("GetByID", ctx, quoteID).Return(&models.Quote{ID: quoteID, JobID: jobID, UserID: freelancerID}, nil)
	agreements.On("Create", ctx, mock.AnythingOfType("*models.Agreement")).Return(nil)

	agreement, err := svc.CreateAgreement(ctx, CreateAgreementInput{
		JobID:        jobID,
		FreelancerID: freelancerID,
		CompanyID:    companyID,
		QuoteID:      quoteID,
		Price:        100000,
	})

	assert.NoError(t, err)
	assert.Equal(t, freelancerID, agreement.UserID)
	assert.Equal(t, int64(100000), agreement.Price)

	sent := notifier.all()
	assert.Len(t, sent, 1)
	assert.Equal(t, models.NotifyAgreementCreated, sent[0].Kind)
}

func TestAgreementService_CreateAgreement_ActiveExists(t *testing.T) {
	svc, agreements, quotes, jobs, _ := newAgreementService()
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()
	freelancerID := uuid.New()
	quoteID := uuid.New()

	jobs.On("GetByID", ctx, jobID).Return(&models.Job{ID: jobID, CompanyID: companyID, Status: models.JobStatusOpen}, nil)
	quotes.On("GetByID", ctx, quoteID).Return(&models.Quote{ID: quoteID, JobID: jobID, UserID: freelancerID}, nil)
	agreements.On("Create", ctx, mock.AnythingOfType("*models.Agreement")).Return(repository.ErrAgreementExists)

	_, err := svc.CreateAgreement(ctx, CreateAgreementInput{
		JobID:        jobID,
		FreelancerID: freelancerID,
		CompanyID:    companyID,
		QuoteID:      quoteID,
		Price:        100000,
	})

	assert.ErrorIs(t, err, apperror.ErrAgreementExists)
}

func TestAgreementService_Accept_Success(t *testing.T) {
	svc, agreements, _, _, notifier := newAgreementService()
	ctx := context.Background()
	agreementID := uuid.New()
	jobID := uuid.New()
	companyID := uuid.New()
	freelancerID := uuid.New()

	accepted := &models.Agreement{
		ID:        agreementID,
		JobID:     jobID,
		UserID:    freelancerID,
		CompanyID: companyID,
		Status:    models.AgreementStatusAccepted,
	}
	agreements.On("Accept", ctx, agreementID, freelancerID).Return(accepted, nil)

	got, err := svc.Accept(ctx, agreementID, freelancerID)

	assert.NoError(t, err)
	assert.Equal(t, models.AgreementStatusAccepted, got.Status)

	sent := notifier.all()
	assert.Len(t, sent, 1)
	assert.Equal(t, companyID, sent[0].UserID)
	assert.Equal(t, models.NotifyAgreementAccepted, sent[0].Kind)
}

func TestAgreementService_Accept_AlreadyResponded(t *testing.T) {
	svc, agreements, _, _, notifier := newAgreementService()
	ctx := context.Background()
	agreementID := uuid.New()
	freelancerID := uuid.New()

	agreements.On("Accept", ctx, agreementID, freelancerID).Return(nil, repository.ErrAlreadyResponded)

	_, err := svc.Accept(ctx, agreementID, freelancerID)

	assert.ErrorIs(t, err, apperror.ErrAlreadyResponded)
	assert.Empty(t, notifier.all())
}

func TestAgreementService_Reject_Success(t *testing.T) {
	svc, agreements, _, _, notifier := newAgreementService()
	ctx := context.Background()
	agreementID := uuid.New()
	jobID := uuid.New()
	companyID := uuid.New()
	freelancerID := uuid.New()

	rejected := &models.Agreement{
		ID:        agreementID,
		JobID:     jobID,
		UserID:    freelancerID,
		CompanyID: companyID,
		Status:    models.AgreementStatusRejected,
	}
	agreements.On("Reject", ctx, agreementID, freelancerID).Return(rejected, nil)

	got, err := svc.Reject(ctx, agreementID, freelancerID)

	assert.NoError(t, err)
	assert.Equal(t, models.AgreementStatusRejected, got.Status)

	sent := notifier.all()
	assert.Len(t, sent, 1)
	assert.Equal(t, models.NotifyAgreementRejected, sent[0].Kind)
}

func TestAgreementService_Accept_WrongUser(t *testing.T) {
	svc, agreements, _, _, _ := newAgreementService()
	ctx := context.Background()
	agreementID := uuid.New()
	strangerID := uuid.New()

	agreements.On("Accept", ctx, agreementID, strangerID).Return(nil, repository.ErrAgreementNotFound)

	_, err := svc.Accept(ctx, agreementID, strangerID)

	assert.ErrorIs(t, err, apperror.ErrAgreementNotFound)
}
