package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей платформы.
const (
	RoleCompany    = "company"
	RoleFreelancer = "freelancer"
	RoleAdmin      = "admin"
)

// User описывает участника платформы: компанию или фрилансера.
// Аутентификация выполняется внешним сервисом, здесь хранится только
// то, что нужно ядру: идентичность и роль.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Username  string    `db:"username" json:"username"`
	Role      string    `db:"role" json:"role"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Category представляет категорию заказов.
type Category struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Slug      string    `db:"slug" json:"slug"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
