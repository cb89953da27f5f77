package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
	"github.com/ignatzorin/jobmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobmarket-backend/internal/repository"
)

func newJobService() (*JobService, *mockJobStore, *mockSubscriptionLedger, *mockFreelancerDirectory, *recordingNotifier) {
	jobs := new(mockJobStore)
	subs := new(mockSubscriptionLedger)
	users := new(mockFreelancerDirectory)
	notifier := &recordingNotifier{}
	return NewJobService(jobs, subs, users, notifier), jobs, subs, users, notifier
}

func TestJobService_CreateJob_Success(t *testing.T) {
	svc, jobs, subs, users, notifier := newJobService()
	ctx := context.Background()
	companyID := uuid.New()
	categoryID := uuid.New()
	freelancerID := uuid.New()

	sub := &models.Subscription{
		ID:         uuid.New(),
		CompanyID:  companyID,
		JobLimit:   10,
		JobsPosted: 3,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	updated := &models.Subscription{ID: sub.ID, CompanyID: companyID, JobLimit: 10, JobsPosted: 4, ExpiresAt: sub.ExpiresAt}

	subs.On("FindActive", ctx, companyID).Return(sub, nil)
	jobs.On("CreateWithSlot", ctx, mock.AnythingOfType("*models.Job"), sub.ID).Return(updated, nil)
	users.On("ListFreelancersByCategory", ctx, categoryID).Return([]uuid.UUID{freelancerID}, nil)

	job, gotSub, err := svc.CreateJob(ctx, CreateJobInput{
		CompanyID:   companyID,
		CategoryID:  categoryID,
		Title:       "Сверстать лендинг",
		Description: "Одностраничник по макету в Figma",
		Price:       500000,
	})

	assert.NoError(t, err)
	assert.Equal(t, companyID, job.CompanyID)
	assert.Equal(t, 4, gotSub.JobsPosted)

	sent := notifier.all()
	assert.Len(t, sent, 1)
	assert.Equal(t, freelancerID, sent[0].UserID)
	assert.Equal(t, models.NotifyJobPosted, sent[0].Kind)

	jobs.AssertExpectations(t)
	subs.AssertExpectations(t)
}

func TestJobService_CreateJob_NoSubscription(t *testing.T) {
	svc, jobs, subs, _, notifier := newJobService()
	ctx := context.Background()
	companyID := uuid.New()

	subs.On("FindActive", ctx, companyID).Return(nil, nil)

	_, _, err := svc.CreateJob(ctx, CreateJobInput{CompanyID: companyID, CategoryID: uuid.New(), Title: "x", Description: "y", Price: 1000})

	assert.ErrorIs(t, err, apperror.ErrSubscriptionNeeded)
	assert.Empty(t, notifier.all())
	jobs.AssertNotCalled(t, "CreateWithSlot", mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_CreateJob_QuotaExceeded(t *testing.T) {
	svc, jobs, subs, _, notifier := newJobService()
	ctx := context.Background()
	companyID := uuid.New()

	sub := &models.Subscription{ID: uuid.New(), CompanyID: companyID, JobLimit: 3, JobsPosted: 3, ExpiresAt: time.Now().Add(time.Hour)}
	subs.On("FindActive", ctx, companyID).Return(sub, nil)
	jobs.On("CreateWithSlot", ctx, mock.AnythingOfType("*models.Job"), sub.ID).Return(nil, repository.ErrQuotaExceeded)

	_, _, err := svc.CreateJob(ctx, CreateJobInput{CompanyID: companyID, CategoryID: uuid.New(), Title: "x", Description: "y", Price: 1000})

	assert.ErrorIs(t, err, apperror.ErrQuotaExceeded)
	assert.Empty(t, notifier.all())
}

func TestJobService_CancelJob_NotOwner(t *testing.T) {
	svc, jobs, _, _, _ := newJobService()
	ctx := context.Background()
	jobID := uuid.New()

	jobs.On("GetByID", ctx, jobID).Return(&models.Job{ID: jobID, CompanyID: uuid.New(), Status: models.JobStatusOpen}, nil)

	err := svc.CancelJob(ctx, jobID, uuid.New())

	// чужой заказ неотличим от несуществующего
	assert.ErrorIs(t, err, apperror.ErrJobNotFound)
	jobs.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJobService_CancelJob_Success(t *testing.T) {
	svc, jobs, _, _, _ := newJobService()
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()

	jobs.On("GetByID", ctx, jobID).Return(&models.Job{ID: jobID, CompanyID: companyID, Status: models.JobStatusOpen}, nil)
	jobs.On("TransitionStatus", ctx, jobID, models.JobStatusOpen, models.JobStatusCancelled).Return(nil)

	err := svc.CancelJob(ctx, jobID, companyID)

	assert.NoError(t, err)
	jobs.AssertExpectations(t)
}

func TestJobService_CancelJob_InProgress(t *testing.T) {
	svc, jobs, _, _, _ := newJobService()
	ctx := context.Background()
	jobID := uuid.New()
	companyID := uuid.New()

	jobs.On("GetByID", ctx, jobID).Return(&models.Job{ID: jobID, CompanyID: companyID, Status: models.JobStatusInProgress}, nil)
	jobs.On("TransitionStatus", ctx, jobID, models.JobStatusOpen, models.JobStatusCancelled).Return(repository.ErrInvalidTransition)

	err := svc.CancelJob(ctx, jobID, companyID)

	assert.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestJobService_ListJobs_ClampsLimit(t *testing.T) {
	svc, jobs, _, _, _ := newJobService()
	ctx := context.Background()

	expected := &repository.JobListResult{Jobs: []models.Job{}, Limit: 20}
	jobs.On("List", ctx, mock.MatchedBy(func(p repository.JobListParams) bool {
		return p.Limit == 20 && p.Offset == 0
	})).Return(expected, nil)

	result, err := svc.ListJobs(ctx, repository.JobListParams{Limit: 500, Offset: -5})

	assert.NoError(t, err)
	assert.Equal(t, expected, result)
}
