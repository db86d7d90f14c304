// Package session stores in-progress checkout sessions.
package session

import (
	"context"

	"tourbooking/internal/domain"
)

// Store keeps checkout sessions for a limited time. Get returns
// domain.ErrNotFound for unknown or expired ids.
type Store interface {
	Get(ctx context.Context, id string) (*domain.CheckoutSession, error)
	Save(ctx context.Context, s domain.CheckoutSession) error
	Delete(ctx context.Context, id string) error
}
