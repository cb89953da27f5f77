package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobmarket-backend/internal/logger"
	"github.com/ignatzorin/jobmarket-backend/internal/models"
	"github.com/ignatzorin/jobmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobmarket-backend/internal/repository"
)

// JobStore описывает взаимодействие сервиса с хранилищем заказов.
type JobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	CreateWithSlot(ctx context.Context, job *models.Job, subscriptionID uuid.UUID) (*models.Subscription, error)
	TransitionStatus(ctx context.Context, jobID uuid.UUID, from, to string) error
	List(ctx context.Context, params repository.JobListParams) (*repository.JobListResult, error)
}

// FreelancerDirectory отдаёт получателей рассылки о новых заказах.
type FreelancerDirectory interface {
	ListFreelancersByCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error)
}

// JobService владеет жизненным циклом заказа.
type JobService struct {
	jobs     JobStore
	subs     SubscriptionLedger
	users    FreelancerDirectory
	notifier Notifier
}

// NewJobService создаёт новый сервис.
func NewJobService(jobs JobStore, subs SubscriptionLedger, users FreelancerDirectory, notifier Notifier) *JobService {
	return &JobService{jobs: jobs, subs: subs, users: users, notifier: notifier}
}

// CreateJobInput содержит данные нового заказа.
type CreateJobInput struct {
	CompanyID   uuid.UUID
	CategoryID  uuid.UUID
	Title       string
	Description string
	Price       int64
	Location    *string
	DeadlineAt  *time.Time
}

// CreateJob размещает заказ. Требуется пригодная подписка; вставка заказа
// и списание слота выполняются одной транзакцией репозитория, так что
// заказ без списанного размещения невозможен. После фиксации фрилансеры
// категории получают best-effort уведомление.
func (s *JobService) CreateJob(ctx context.Context, input CreateJobInput) (*models.Job, *models.Subscription, error) {
	sub, err := s.subs.FindActive(ctx, input.CompanyID)
	if err != nil {
		return nil, nil, translateError(err)
	}
	if sub == nil {
		return nil, nil, apperror.ErrSubscriptionNeeded
	}

	job := &models.Job{
		CompanyID:   input.CompanyID,
		CategoryID:  input.CategoryID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Location:    input.Location,
		DeadlineAt:  input.DeadlineAt,
	}

	updatedSub, err := s.jobs.CreateWithSlot(ctx, job, sub.ID)
	if err != nil {
		return nil, nil, translateError(err)
	}

	s.broadcastNewJob(ctx, job)

	return job, updatedSub, nil
}

// broadcastNewJob уведомляет фрилансеров, подписанных на категорию заказа.
func (s *JobService) broadcastNewJob(ctx context.Context, job *models.Job) {
	ids, err := s.users.ListFreelancersByCategory(ctx, job.CategoryID)
	if err != nil {
		logger.Log.Errorf("job service: не удалось получить получателей рассылки: %v", err)
		return
	}
	jobID := job.ID
	for _, id := range ids {
		s.notifier.Notify(id, &jobID, models.NotifyJobPosted, "Новый заказ в вашей категории: "+job.Title)
	}
}

// GetJob возвращает заказ по идентификатору.
func (s *JobService) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, translateError(err)
	}
	return job, nil
}

// ListJobs возвращает страницу заказов.
func (s *JobService) ListJobs(ctx context.Context, params repository.JobListParams) (*repository.JobListResult, error) {
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 20
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	result, err := s.jobs.List(ctx, params)
	if err != nil {
		return nil, translateError(err)
	}
	return result, nil
}

// CancelJob отменяет заказ. Допустимо только из open; слот подписки
// не возвращается — размещения невозвратны.
func (s *JobService) CancelJob(ctx context.Context, jobID, companyID uuid.UUID) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return translateError(err)
	}
	if job.CompanyID != companyID {
		// Чужой заказ неотличим от несуществующего.
		return apperror.ErrJobNotFound
	}

	if err := s.jobs.TransitionStatus(ctx, jobID, models.JobStatusOpen, models.JobStatusCancelled); err != nil {
		return translateError(err)
	}

	return nil
}
