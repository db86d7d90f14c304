package staff

import (
	"context"

	"tourbooking/internal/domain"
)

// Repository persists and fetches back-office users.
type Repository interface {
	Create(ctx context.Context, s domain.Staff) (*domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
}
