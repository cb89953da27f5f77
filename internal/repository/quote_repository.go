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

// QuoteRepository отвечает за ставки фрилансеров.
type QuoteRepository struct {
	db *sqlx.DB
}

// NewQuoteRepository создаёт новый экземпляр.
func NewQuoteRepository(db *sqlx.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create сохраняет ставку. Строка заказа блокируется FOR UPDATE, после
// чего проверяется статус open: проверка и вставка выполняются в одной
// транзакции, гонка "заказ закрыли между проверкой и вставкой" исключена.
// Дубль от того же фрилансера ловится уникальным ограничением, а не
// предварительным чтением.
func (r *QuoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("quote repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.GetContext(ctx, &status, `SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, quote.JobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("quote repository: lock job %w", err)
	}
	if status != models.JobStatusOpen {
		return ErrJobNotOpen
	}

	query := `
		INSERT INTO quotes (job_id, user_id, quote_price, cover_letter)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err := tx.QueryRowxContext(
		ctx,
		query,
		quote.JobID,
		quote.UserID,
		quote.QuotePrice,
		quote.CoverLetter,
	).Scan(&quote.ID, &quote.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateQuote
		}
		return fmt.Errorf("quote repository: insert %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("quote repository: commit %w", err)
	}

	return nil
}

// GetByID возвращает ставку по идентификатору.
func (r *QuoteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	query := `SELECT id, job_id, user_id, quote_price, cover_letter, created_at FROM quotes WHERE id = $1`
	if err := r.db.GetContext(ctx, &quote, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("quote repository: get by id %w", err)
	}
	return &quote, nil
}

// GetByJobAndUser возвращает ставку фрилансера на конкретный заказ.
func (r *QuoteRepository) GetByJobAndUser(ctx context.Context, jobID, userID uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	query := `SELECT id, job_id, user_id, quote_price, cover_letter, created_at FROM quotes WHERE job_id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &quote, query, jobID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("quote repository: get by job and user %w", err)
	}
	return &quote, nil
}

// ListByJob возвращает все ставки по заказу, новые первыми.
func (r *QuoteRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.Quote, error) {
	var quotes []models.Quote
	query := `
		SELECT id, job_id, user_id, quote_price, cover_letter, created_at
		FROM quotes
		WHERE job_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &quotes, query, jobID); err != nil {
		return nil, fmt.Errorf("quote repository: list by job %w", err)
	}
	return quotes, nil
}

// ListByUser возвращает ставки фрилансера вместе с данными заказов.
func (r *QuoteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.QuoteWithJob, error) {
	var quotes []models.QuoteWithJob
	query := `
		SELECT q.id, q.job_id, q.user_id, q.quote_price, q.cover_letter, q.created_at,
		       j.title AS job_title, j.status AS job_status, j.price AS job_price,
		       j.company_id, c.name AS category_name
		FROM quotes q
		JOIN jobs j ON j.id = q.job_id
		JOIN categories c ON c.id = j.category_id
		WHERE q.user_id = $1
		ORDER BY q.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &quotes, query, userID); err != nil {
		return nil, fmt.Errorf("quote repository: list by user %w", err)
	}
	return quotes, nil
}
