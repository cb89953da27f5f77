package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/jobmarket-backend/internal/models"
)

// AgreementRepository отвечает за выбор исполнителя и соглашения.
// Единственный писатель таблиц selections и agreements.
type AgreementRepository struct {
	db *sqlx.DB
}

// NewAgreementRepository создаёт новый экземпляр.
func NewAgreementRepository(db *sqlx.DB) *AgreementRepository {
	return &AgreementRepository{db: db}
}

// CreateSelection фиксирует выбор фрилансера по заказу. Заказ блокируется
// FOR UPDATE и должен быть open; уникальность selections.job_id
// гарантирует не более одного выбора даже при конкурентных вызовах.
// Статус заказа выбор не меняет: он меняется только принятием соглашения.
func (r *AgreementRepository) CreateSelection(ctx context.Context, jobID, userID uuid.UUID) (*models.Selection, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("agreement repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.GetContext(ctx, &status, `SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("agreement repository: lock job %w", err)
	}
	if status != models.JobStatusOpen {
		return nil, ErrJobNotOpen
	}

	var selection models.Selection
	query := `
		INSERT INTO selections (job_id, user_id)
		VALUES ($1, $2)
		RETURNING id, job_id, user_id, created_at
	`
	if err := tx.GetContext(ctx, &selection, query, jobID, userID); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadySelected
		}
		return nil, fmt.Errorf("agreement repository: insert selection %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("agreement repository: commit %w", err)
	}

	return &selection, nil
}

// GetSelectionByJob возвращает выбор исполнителя по заказу.
func (r *AgreementRepository) GetSelectionByJob(ctx context.Context, jobID uuid.UUID) (*models.Selection, error) {
	var selection models.Selection
	query := `SELECT id, job_id, user_id, created_at FROM selections WHERE job_id = $1`
	if err := r.db.GetContext(ctx, &selection, query, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSelectionNotFound
		}
		return nil, fmt.Errorf("agreement repository: get selection %w", err)
	}
	return &selection, nil
}

// Create создаёт соглашение в статусе pending. Внутри транзакции:
// блокируется строка заказа, проверяется наличие выбора именно этого
// фрилансера и отсутствие действующего соглашения. Частичный уникальный
// индекс по job_id WHERE status IN ('pending','accepted') закрывает
// гонку двух одновременных созданий.
func (r *AgreementRepository) Create(ctx context.Context, agreement *models.Agreement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("agreement repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.GetContext(ctx, &status, `SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, agreement.JobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrJobNotFound
		}
		return fmt.Errorf("agreement repository: lock job %w", err)
	}
	if status != models.JobStatusOpen {
		return ErrJobNotOpen
	}

	var selection models.Selection
	err = tx.GetContext(ctx, &selection, `SELECT id, job_id, user_id, created_at FROM selections WHERE job_id = $1`, agreement.JobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSelectionNotFound
		}
		return fmt.Errorf("agreement repository: get selection %w", err)
	}
	if selection.UserID != agreement.UserID {
		return ErrSelectionNotFound
	}

	query := `
		INSERT INTO agreements (job_id, user_id, company_id, quote_id, price, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, status, created_at
	`
	if err := tx.QueryRowxContext(
		ctx,
		query,
		agreement.JobID,
		agreement.UserID,
		agreement.CompanyID,
		agreement.QuoteID,
		agreement.Price,
	).Scan(&agreement.ID, &agreement.Status, &agreement.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrAgreementExists
		}
		return fmt.Errorf("agreement repository: insert %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("agreement repository: commit %w", err)
	}

	return nil
}

// GetByID возвращает соглашение по идентификатору.
func (r *AgreementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Agreement, error) {
	var agreement models.Agreement
	query := `
		SELECT id, job_id, user_id, company_id, quote_id, price, status, created_at, response_at
		FROM agreements WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &agreement, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAgreementNotFound
		}
		return nil, fmt.Errorf("agreement repository: get by id %w", err)
	}
	return &agreement, nil
}

// GetAcceptedByJob возвращает принятое соглашение по заказу.
func (r *AgreementRepository) GetAcceptedByJob(ctx context.Context, jobID uuid.UUID) (*models.Agreement, error) {
	var agreement models.Agreement
	query := `
		SELECT id, job_id, user_id, company_id, quote_id, price, status, created_at, response_at
		FROM agreements WHERE job_id = $1 AND status = 'accepted'
	`
	if err := r.db.GetContext(ctx, &agreement, query, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAgreementNotFound
		}
		return nil, fmt.Errorf("agreement repository: get accepted by job %w", err)
	}
	return &agreement, nil
}

// Accept переводит pending-соглашение в accepted, создаёт запись о
// принятии контракта и переводит заказ open -> in_progress. Всё в одной
// транзакции: сбой на любом шаге откатывает остальные, принятое
// соглашение никогда не существует рядом с open-заказом.
func (r *AgreementRepository) Accept(ctx context.Context, agreementID, userID uuid.UUID) (*models.Agreement, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("agreement repository: begin tx %w", err)
	}
	defer tx.Rollback()

	agreement, err := lockAgreement(ctx, tx, agreementID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE agreements SET status = 'accepted', response_at = $2 WHERE id = $1`,
		agreement.ID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("agreement repository: accept %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO contract_acceptances (agreement_id, job_id, user_id) VALUES ($1, $2, $3)`,
		agreement.ID, agreement.JobID, agreement.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("agreement repository: insert contract acceptance %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE jobs SET status = 'in_progress', updated_at = NOW() WHERE id = $1 AND status = 'open'`,
		agreement.JobID,
	)
	if err != nil {
		return nil, fmt.Errorf("agreement repository: transition job %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("agreement repository: transition rows affected %w", err)
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("agreement repository: commit %w", err)
	}

	agreement.Status = models.AgreementStatusAccepted
	agreement.ResponseAt = &now
	return agreement, nil
}

// Reject переводит pending-соглашение в rejected, снимает выбор
// исполнителя и явно возвращает заказ в open, позволяя компании выбрать
// другую ставку. Всё в одной транзакции.
func (r *AgreementRepository) Reject(ctx context.Context, agreementID, userID uuid.UUID) (*models.Agreement, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("agreement repository: begin tx %w", err)
	}
	defer tx.Rollback()

	agreement, err := lockAgreement(ctx, tx, agreementID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE agreements SET status = 'rejected', response_at = $2 WHERE id = $1`,
		agreement.ID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("agreement repository: reject %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM selections WHERE job_id = $1`, agreement.JobID)
	if err != nil {
		return nil, fmt.Errorf("agreement repository: delete selection %w", err)
	}

	// Заказ мог покинуть open только через принятие, но статус
	// выставляется явно, чтобы цикл выбора можно было начать заново.
	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET status = 'open', updated_at = NOW() WHERE id = $1 AND status <> 'cancelled'`,
		agreement.JobID,
	)
	if err != nil {
		return nil, fmt.Errorf("agreement repository: reopen job %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("agreement repository: commit %w", err)
	}

	agreement.Status = models.AgreementStatusRejected
	agreement.ResponseAt = &now
	return agreement, nil
}

// lockAgreement блокирует соглашение и проверяет право ответа:
// отвечать может только выбранный фрилансер, и только один раз.
func lockAgreement(ctx context.Context, tx *sqlx.Tx, agreementID, userID uuid.UUID) (*models.Agreement, error) {
	var agreement models.Agreement
	query := `
		SELECT id, job_id, user_id, company_id, quote_id, price, status, created_at, response_at
		FROM agreements WHERE id = $1 FOR UPDATE
	`
	if err := tx.GetContext(ctx, &agreement, query, agreementID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAgreementNotFound
		}
		return nil, fmt.Errorf("agreement repository: lock agreement %w", err)
	}

	if agreement.UserID != userID {
		// Чужое соглашение неотличимо от несуществующего.
		return nil, ErrAgreementNotFound
	}
	if agreement.Status != models.AgreementStatusPending {
		return nil, ErrAlreadyResponded
	}

	return &agreement, nil
}

// ListByUser возвращает соглашения фрилансера, новые первыми.
func (r *AgreementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Agreement, error) {
	var agreements []models.Agreement
	query := `
		SELECT id, job_id, user_id, company_id, quote_id, price, status, created_at, response_at
		FROM agreements
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &agreements, query, userID); err != nil {
		return nil, fmt.Errorf("agreement repository: list by user %w", err)
	}
	return agreements, nil
}
