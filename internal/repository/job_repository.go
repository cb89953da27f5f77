package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
)

// JobRepository отвечает за заказы и их жизненный цикл.
// Единственный писатель поля jobs.status вне транзакций соглашений и платежей.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository создаёт новый экземпляр.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// GetByID возвращает заказ по идентификатору.
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	query := `
		SELECT id, company_id, category_id, title, description, price, location,
		       deadline_at, status, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("job repository: get by id %w", err)
	}
	return &job, nil
}

// CreateWithSlot сохраняет заказ и списывает слот подписки в одной
// транзакции: заказ не появляется без успешно списанного размещения.
// При исчерпании квоты вся вставка откатывается с ErrQuotaExceeded.
func (r *JobRepository) CreateWithSlot(ctx context.Context, job *models.Job, subscriptionID uuid.UUID) (*models.Subscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("job repository: begin tx %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO jobs (company_id, category_id, title, description, price, location, deadline_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'open')
		RETURNING id, status, created_at, updated_at
	`
	if err := tx.QueryRowxContext(
		ctx,
		query,
		job.CompanyID,
		job.CategoryID,
		job.Title,
		job.Description,
		job.Price,
		job.Location,
		job.DeadlineAt,
	).Scan(&job.ID, &job.Status, &job.CreatedAt, &job.UpdatedAt); err != nil {
		return nil, fmt.Errorf("job repository: insert job %w", err)
	}

	sub, err := reserveSlot(ctx, tx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if sub.CompanyID != job.CompanyID {
		return nil, ErrSubscriptionNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("job repository: commit %w", err)
	}

	return sub, nil
}

// TransitionStatus переводит заказ из from в to. Условие на текущий
// статус входит в UPDATE, поэтому гонка двух переходов разрешается базой:
// второй получает ErrInvalidTransition.
func (r *JobRepository) TransitionStatus(ctx context.Context, jobID uuid.UUID, from, to string) error {
	if !models.IsJobTransitionAllowed(from, to) {
		return ErrInvalidTransition
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE jobs SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`,
		jobID, from, to,
	)
	if err != nil {
		return fmt.Errorf("job repository: transition status %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("job repository: transition rows affected %w", err)
	}
	if affected == 0 {
		// Либо заказ не существует, либо статус уже другой.
		if _, getErr := r.GetByID(ctx, jobID); getErr != nil {
			return getErr
		}
		return ErrInvalidTransition
	}

	return nil
}

// JobListParams содержит параметры фильтрации списка заказов.
type JobListParams struct {
	CompanyID  *uuid.UUID
	CategoryID *uuid.UUID
	Status     string
	Search     string
	Limit      int
	Offset     int
}

// JobListResult содержит страницу заказов и метаданные пагинации.
type JobListResult struct {
	Jobs    []models.Job
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// List возвращает страницу заказов с количеством ставок по каждому.
func (r *JobRepository) List(ctx context.Context, params JobListParams) (*JobListResult, error) {
	countQuery := `SELECT COUNT(*) FROM jobs j WHERE 1=1`
	query := `
		SELECT j.id, j.company_id, j.category_id, j.title, j.description, j.price,
		       j.location, j.deadline_at, j.status, j.created_at, j.updated_at,
		       COALESCE(qc.count, 0) AS quotes_count
		FROM jobs j
		LEFT JOIN (
			SELECT job_id, COUNT(*) AS count
			FROM quotes
			GROUP BY job_id
		) qc ON j.id = qc.job_id
		WHERE 1=1
	`
	args := []interface{}{}
	argIndex := 1

	if params.CompanyID != nil {
		clause := fmt.Sprintf(" AND j.company_id = $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.CompanyID)
		argIndex++
	}

	if params.CategoryID != nil {
		clause := fmt.Sprintf(" AND j.category_id = $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, *params.CategoryID)
		argIndex++
	}

	if params.Status != "" {
		clause := fmt.Sprintf(" AND j.status = $%d", argIndex)
		query += clause
		countQuery += clause
		args = append(args, params.Status)
		argIndex++
	}

	if params.Search != "" {
		clause := fmt.Sprintf(" AND (j.title ILIKE $%d OR j.description ILIKE $%d)", argIndex, argIndex)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Search+"%")
		argIndex++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("job repository: count %w", err)
	}

	query += fmt.Sprintf(" ORDER BY j.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, params.Limit, params.Offset)

	var jobs []models.Job
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("job repository: list %w", err)
	}

	return &JobListResult{
		Jobs:    jobs,
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: params.Offset+len(jobs) < total,
	}, nil
}
