package entity

import (
	"time"

	"github.com/google/uuid"
)

// Roles understood by the API.
const (
	RoleAdmin = "admin"
	RoleSales = "sales"
)

// User is an authenticated operator of the CRM.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
