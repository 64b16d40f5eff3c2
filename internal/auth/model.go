package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can authenticate and own purchase orders.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
