package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Admin is a staff identity with the admin capability. Admins are not
// members: they have no lifecycle status and never appear in the directory.
type Admin struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AdminStore defines persistence operations for admins.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (Admin, error)
	Create(ctx context.Context, admin Admin) (Admin, error)
}
