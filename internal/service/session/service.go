package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tourbooking/internal/domain"
	"tourbooking/internal/pricing"
	sessionrepo "tourbooking/internal/repository/session"
	toursvc "tourbooking/internal/service/tour"
)

type tourCatalog interface {
	Get(ctx context.Context, ref string) (*domain.Tour, error)
	Upsells(ctx context.Context, tourID string) ([]domain.Upsell, error)
}

// Service owns checkout sessions. Every mutation recomputes the whole
// selection from the tour's pricing so stored totals never drift.
type Service struct {
	store sessionrepo.Store
	tours tourCatalog
	now   func() time.Time
}

func New(store sessionrepo.Store, tours tourCatalog) *Service {
	return &Service{store: store, tours: tours, now: time.Now}
}

// Start opens a session for one adult on the given tour.
func (s *Service) Start(ctx context.Context, tourRef string) (*domain.CheckoutSession, error) {
	tour, err := s.tours.Get(ctx, tourRef)
	if err != nil {
		return nil, err
	}
	if !tour.Active {
		return nil, domain.ErrNotFound
	}
	now := s.now().UTC()
	sess := domain.CheckoutSession{
		ID:        uuid.NewString(),
		TourID:    tour.ID,
		Selection: pricing.Recompute(*tour, "", "", domain.GuestCounts{Adult: 1}, nil),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	return s.store.Get(ctx, id)
}

// SetGuests replaces the party and reprices per-person add-ons.
func (s *Service) SetGuests(ctx context.Context, id string, guests domain.GuestCounts) (*domain.CheckoutSession, error) {
	return s.mutate(ctx, id, func(tour *domain.Tour, sel *domain.TourSelection, _ []domain.Upsell) error {
		if err := pricing.CheckCapacity(tour.Pricing, guests); err != nil {
			if errors.Is(err, domain.ErrCapacityExceeded) {
				return err
			}
			return wrapInvalid(err)
		}
		sel.Guests = guests
		return nil
	}, false)
}

func (s *Service) SetSlot(ctx context.Context, id, date, slotTime string) (*domain.CheckoutSession, error) {
	return s.mutate(ctx, id, func(_ *domain.Tour, sel *domain.TourSelection, _ []domain.Upsell) error {
		if err := toursvc.ValidateDate(date); err != nil {
			return err
		}
		sel.Date = date
		sel.Time = slotTime
		return nil
	}, false)
}

func (s *Service) ToggleUpsell(ctx context.Context, id, upsellID string, selected bool) (*domain.CheckoutSession, error) {
	return s.mutate(ctx, id, func(_ *domain.Tour, sel *domain.TourSelection, catalog []domain.Upsell) error {
		u, err := findUpsell(catalog, upsellID)
		if err != nil {
			return err
		}
		sel.Upsells = pricing.ToggleUpsell(sel.Upsells, u, sel.Guests.Total(), selected)
		return nil
	}, true)
}

// SetUpsellCount selects a per-booking add-on an explicit number of times.
func (s *Service) SetUpsellCount(ctx context.Context, id, upsellID string, count int) (*domain.CheckoutSession, error) {
	return s.mutate(ctx, id, func(_ *domain.Tour, sel *domain.TourSelection, catalog []domain.Upsell) error {
		u, err := findUpsell(catalog, upsellID)
		if err != nil {
			return err
		}
		if u.PricingType == domain.UpsellPerPerson {
			sel.Upsells = pricing.ToggleUpsell(sel.Upsells, u, sel.Guests.Total(), count > 0)
			return nil
		}
		sel.Upsells = pricing.SelectUpsellCount(sel.Upsells, u, count)
		return nil
	}, true)
}

func (s *Service) Discard(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

type mutation func(tour *domain.Tour, sel *domain.TourSelection, catalog []domain.Upsell) error

func (s *Service) mutate(ctx context.Context, id string, apply mutation, needsCatalog bool) (*domain.CheckoutSession, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tour, err := s.tours.Get(ctx, sess.TourID)
	if err != nil {
		return nil, err
	}
	var catalog []domain.Upsell
	if needsCatalog {
		if catalog, err = s.tours.Upsells(ctx, tour.ID); err != nil {
			return nil, err
		}
	}

	sel := sess.Selection
	if err := apply(tour, &sel, catalog); err != nil {
		return nil, err
	}
	sess.Selection = pricing.Recompute(*tour, sel.Date, sel.Time, sel.Guests, sel.Upsells)
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, *sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func findUpsell(catalog []domain.Upsell, id string) (domain.Upsell, error) {
	for _, u := range catalog {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.Upsell{}, fmt.Errorf("%w: unknown add-on %q", domain.ErrInvalidInput, id)
}

func wrapInvalid(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
