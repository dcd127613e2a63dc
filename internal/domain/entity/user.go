package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un usuario del panel de administración.
type User struct {
	ID           string
	Name         string
	Email        string // único, en minúsculas
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, user
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
