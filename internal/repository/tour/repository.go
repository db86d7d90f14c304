package tour

import (
	"context"

	"tourbooking/internal/domain"
)

type Repository interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Tour, error)
	GetByID(ctx context.Context, id string) (*domain.Tour, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tour, error)
	Upsert(ctx context.Context, tour domain.Tour) (*domain.Tour, error)
	ListUpsells(ctx context.Context, tourID string, activeOnly bool) ([]domain.Upsell, error)
	UpsertUpsell(ctx context.Context, upsell domain.Upsell) (*domain.Upsell, error)
}
