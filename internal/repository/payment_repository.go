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

// PaymentRepository отвечает за трекинг внешних платежей, расчёты по
// заказам и создание подписок. Подписка создаётся только в транзакции
// захвата платежа.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository создаёт новый экземпляр.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateTracking создаёт pending-строку трекинга покупки подписки.
func (r *PaymentRepository) CreateTracking(ctx context.Context, companyID uuid.UUID, amount int64, jobLimit, durationDays int) (*models.PaymentTracking, error) {
	var tracking models.PaymentTracking
	query := `
		INSERT INTO payment_tracking (entity_type, company_id, amount, job_limit, duration_days, status)
		VALUES ('subscription', $1, $2, $3, $4, 'pending')
		RETURNING id, external_order_id, entity_type, entity_id, company_id, amount,
		          job_limit, duration_days, status, created_at, updated_at
	`
	if err := r.db.GetContext(ctx, &tracking, query, companyID, amount, jobLimit, durationDays); err != nil {
		return nil, fmt.Errorf("payment repository: create tracking %w", err)
	}
	return &tracking, nil
}

// SetTrackingOrderID сохраняет идентификатор заказа платёжного шлюза.
func (r *PaymentRepository) SetTrackingOrderID(ctx context.Context, trackingID uuid.UUID, externalOrderID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payment_tracking SET external_order_id = $2, updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		trackingID, externalOrderID,
	)
	if err != nil {
		return fmt.Errorf("payment repository: set tracking order id %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("payment repository: set tracking rows affected %w", err)
	}
	if affected == 0 {
		return ErrTrackingNotFound
	}
	return nil
}

// GetPendingTracking возвращает pending-трекинг, совпадающий сразу по
// обоим идентификаторам. Двойной ключ не позволяет повторить захват
// с устаревшим trackingID.
func (r *PaymentRepository) GetPendingTracking(ctx context.Context, trackingID uuid.UUID, externalOrderID string) (*models.PaymentTracking, error) {
	var tracking models.PaymentTracking
	query := `
		SELECT id, external_order_id, entity_type, entity_id, company_id, amount,
		       job_limit, duration_days, status, created_at, updated_at
		FROM payment_tracking
		WHERE id = $1 AND external_order_id = $2 AND status = 'pending'
	`
	if err := r.db.GetContext(ctx, &tracking, query, trackingID, externalOrderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrackingNotFound
		}
		return nil, fmt.Errorf("payment repository: get pending tracking %w", err)
	}
	return &tracking, nil
}

// MarkTrackingFailed помечает трекинг как failed после отказа шлюза.
// Подписка при этом не создаётся.
func (r *PaymentRepository) MarkTrackingFailed(ctx context.Context, trackingID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payment_tracking SET status = 'failed', updated_at = NOW() WHERE id = $1 AND status = 'pending'`,
		trackingID,
	)
	if err != nil {
		return fmt.Errorf("payment repository: mark tracking failed %w", err)
	}
	return nil
}

// CompleteSubscriptionPurchase завершает покупку подписки: в одной
// транзакции трекинг условно переводится pending -> completed, создаётся
// подписка, и её id записывается обратно в трекинг для аудита.
// Повторный вызов не находит pending-строку и получает ErrTrackingNotFound.
func (r *PaymentRepository) CompleteSubscriptionPurchase(ctx context.Context, trackingID uuid.UUID, externalOrderID string) (*models.Subscription, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("payment repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var tracking models.PaymentTracking
	query := `
		UPDATE payment_tracking
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1 AND external_order_id = $2 AND status = 'pending'
		RETURNING id, external_order_id, entity_type, entity_id, company_id, amount,
		          job_limit, duration_days, status, created_at, updated_at
	`
	if err := tx.GetContext(ctx, &tracking, query, trackingID, externalOrderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrackingNotFound
		}
		return nil, fmt.Errorf("payment repository: complete tracking %w", err)
	}

	sub, err := insertSubscription(ctx, tx, tracking.CompanyID, tracking.Amount, tracking.JobLimit, tracking.DurationDays)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE payment_tracking SET entity_id = $2 WHERE id = $1`,
		tracking.ID, sub.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("payment repository: link subscription %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("payment repository: commit %w", err)
	}

	return sub, nil
}

// CreateJobPayment создаёт pending-платёж по заказу. Если по заказу уже
// есть завершённый платёж — ErrAlreadyCompleted; существующий
// pending-платёж переиспользуется, чтобы повторное создание заказа шлюза
// не плодило строки.
func (r *PaymentRepository) CreateJobPayment(ctx context.Context, jobID, userID, companyID uuid.UUID, amount int64) (*models.JobPayment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("payment repository: begin tx %w", err)
	}
	defer tx.Rollback()

	var existing models.JobPayment
	err = tx.GetContext(ctx, &existing, `
		SELECT id, job_id, user_id, company_id, amount_paid, external_order_id, status, created_at, completed_at
		FROM job_payments WHERE job_id = $1 AND status IN ('pending', 'completed')
		ORDER BY created_at DESC LIMIT 1 FOR UPDATE
	`, jobID)
	switch {
	case err == nil:
		if existing.Status == models.PaymentStatusCompleted {
			return nil, ErrAlreadyCompleted
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("payment repository: commit %w", err)
		}
		return &existing, nil
	case errors.Is(err, sql.ErrNoRows):
		// платежа ещё нет, создаём
	default:
		return nil, fmt.Errorf("payment repository: check existing %w", err)
	}

	var payment models.JobPayment
	query := `
		INSERT INTO job_payments (job_id, user_id, company_id, amount_paid, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, job_id, user_id, company_id, amount_paid, external_order_id, status, created_at, completed_at
	`
	if err := tx.GetContext(ctx, &payment, query, jobID, userID, companyID, amount); err != nil {
		return nil, fmt.Errorf("payment repository: insert job payment %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("payment repository: commit %w", err)
	}

	return &payment, nil
}

// SetJobPaymentOrderID сохраняет идентификатор заказа шлюза на платеже.
func (r *PaymentRepository) SetJobPaymentOrderID(ctx context.Context, paymentID uuid.UUID, externalOrderID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE job_payments SET external_order_id = $2 WHERE id = $1 AND status = 'pending'`,
		paymentID, externalOrderID,
	)
	if err != nil {
		return fmt.Errorf("payment repository: set job payment order id %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("payment repository: set job payment rows affected %w", err)
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// CompleteJobPayment завершает расчёт по заказу: в одной транзакции
// платёж условно переводится pending -> completed, создаётся запись о
// завершении заказа, и сам заказ переходит in_progress -> completed.
// Повторный захват той же пары (jobID, externalOrderID) не находит
// pending-строку: возвращается ErrAlreadyCompleted, и вызывающий код
// не создаёт вторую запись и не шлёт второе уведомление.
func (r *PaymentRepository) CompleteJobPayment(ctx context.Context, jobID uuid.UUID, externalOrderID string) (*models.JobPayment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("payment repository: begin tx %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	var payment models.JobPayment
	query := `
		UPDATE job_payments
		SET status = 'completed', completed_at = $3
		WHERE job_id = $1 AND external_order_id = $2 AND status = 'pending'
		RETURNING id, job_id, user_id, company_id, amount_paid, external_order_id, status, created_at, completed_at
	`
	if err := tx.GetContext(ctx, &payment, query, jobID, externalOrderID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			if errCount := tx.GetContext(ctx, &count,
				`SELECT COUNT(*) FROM job_payments WHERE job_id = $1 AND external_order_id = $2 AND status = 'completed'`,
				jobID, externalOrderID,
			); errCount == nil && count > 0 {
				return nil, ErrAlreadyCompleted
			}
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("payment repository: complete job payment %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO job_completions (job_id, user_id, company_id, amount_paid) VALUES ($1, $2, $3, $4)`,
		payment.JobID, payment.UserID, payment.CompanyID, payment.AmountPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("payment repository: insert job completion %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE jobs SET status = 'completed', updated_at = NOW() WHERE id = $1 AND status = 'in_progress'`,
		payment.JobID,
	)
	if err != nil {
		return nil, fmt.Errorf("payment repository: transition job %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("payment repository: transition rows affected %w", err)
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("payment repository: commit %w", err)
	}

	return &payment, nil
}

// GetCompletedJobPayment возвращает завершённый платёж по заказу.
func (r *PaymentRepository) GetCompletedJobPayment(ctx context.Context, jobID uuid.UUID) (*models.JobPayment, error) {
	var payment models.JobPayment
	query := `
		SELECT id, job_id, user_id, company_id, amount_paid, external_order_id, status, created_at, completed_at
		FROM job_payments WHERE job_id = $1 AND status = 'completed'
	`
	if err := r.db.GetContext(ctx, &payment, query, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("payment repository: get completed job payment %w", err)
	}
	return &payment, nil
}
