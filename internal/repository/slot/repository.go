package slot

import (
	"context"

	"tourbooking/internal/domain"
)

type Repository interface {
	// ListByTour returns the tour's slots, optionally narrowed to one date.
	ListByTour(ctx context.Context, tourID, date string) ([]domain.Slot, error)
	Upsert(ctx context.Context, slot domain.Slot) (*domain.Slot, error)
}
