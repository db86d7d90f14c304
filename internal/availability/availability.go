// Package availability filters bookable slots for a date.
package availability

import (
	"context"
	"fmt"

	"tourbooking/internal/domain"
)

// AvailableSlots keeps the enabled slots on date that still have room.
// The input is not modified.
func AvailableSlots(all []domain.Slot, date string) []domain.Slot {
	out := make([]domain.Slot, 0, len(all))
	for _, s := range all {
		if s.Date != date || !s.Enabled || s.Remaining() <= 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

type slotLister interface {
	ListByTour(ctx context.Context, tourID, date string) ([]domain.Slot, error)
}

type Service struct {
	slots slotLister
}

func NewService(slots slotLister) *Service {
	return &Service{slots: slots}
}

func (s *Service) ListAvailable(ctx context.Context, tourID, date string) ([]domain.Slot, error) {
	all, err := s.slots.ListByTour(ctx, tourID, date)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return AvailableSlots(all, date), nil
}
