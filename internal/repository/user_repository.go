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

// UserRepository отвечает за пользователей и их интересы по категориям.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт новый экземпляр.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `SELECT id, email, username, role, is_active, created_at FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}
	return &user, nil
}

// ListFreelancersByCategory возвращает идентификаторы активных
// фрилансеров, подписанных на категорию. Используется для рассылки
// уведомлений о новых заказах.
func (r *UserRepository) ListFreelancersByCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `
		SELECT u.id
		FROM users u
		JOIN user_categories uc ON uc.user_id = u.id
		WHERE uc.category_id = $1 AND u.role = 'freelancer' AND u.is_active
	`
	if err := r.db.SelectContext(ctx, &ids, query, categoryID); err != nil {
		return nil, fmt.Errorf("user repository: list freelancers by category %w", err)
	}
	return ids, nil
}
