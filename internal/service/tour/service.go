package tour

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tourbooking/internal/domain"
	"tourbooking/internal/pricing"
	tourrepo "tourbooking/internal/repository/tour"
)

type Service struct {
	repo tourrepo.Repository
}

func New(repo tourrepo.Repository) *Service {
	return &Service{repo: repo}
}

// UpsellChoice names an add-on the customer picked. Quantity only matters for
// per-booking add-ons; per-person ones follow the party size.
type UpsellChoice struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity,omitempty"`
}

// QuoteInput is everything needed to price a selection server-side.
type QuoteInput struct {
	Date    string             `json:"date"`
	Time    string             `json:"time"`
	Guests  domain.GuestCounts `json:"guests"`
	Upsells []UpsellChoice     `json:"upsells"`
}

func (s *Service) List(ctx context.Context) ([]domain.Tour, error) {
	return s.repo.List(ctx, true)
}

// Get resolves a tour by uuid or slug.
func (s *Service) Get(ctx context.Context, ref string) (*domain.Tour, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domain.ErrNotFound
	}
	if _, err := uuid.Parse(ref); err == nil {
		return s.repo.GetByID(ctx, ref)
	}
	return s.repo.GetBySlug(ctx, ref)
}

func (s *Service) Upsells(ctx context.Context, tourID string) ([]domain.Upsell, error) {
	return s.repo.ListUpsells(ctx, tourID, true)
}

// Quote prices a selection for a tour without persisting anything.
func (s *Service) Quote(ctx context.Context, ref string, in QuoteInput) (*domain.Tour, domain.TourSelection, error) {
	tour, err := s.Get(ctx, ref)
	if err != nil {
		return nil, domain.TourSelection{}, err
	}
	if !tour.Active {
		return nil, domain.TourSelection{}, domain.ErrNotFound
	}
	if in.Date != "" {
		if err := ValidateDate(in.Date); err != nil {
			return nil, domain.TourSelection{}, err
		}
	}
	if err := pricing.CheckCapacity(tour.Pricing, in.Guests); err != nil {
		return nil, domain.TourSelection{}, err
	}

	var selected []domain.UpsellSelection
	if len(in.Upsells) > 0 {
		catalog, err := s.Upsells(ctx, tour.ID)
		if err != nil {
			return nil, domain.TourSelection{}, err
		}
		selected, err = ApplyChoices(catalog, in.Upsells, in.Guests.Total())
		if err != nil {
			return nil, domain.TourSelection{}, err
		}
	}

	breakdown := pricing.ResolveBreakdown(tour.Pricing, in.Guests)
	return tour, pricing.UpdateSelection(tour.ID, in.Date, in.Time, in.Guests, breakdown, selected), nil
}

// ApplyChoices turns add-on choices into priced selections against the catalog.
func ApplyChoices(catalog []domain.Upsell, choices []UpsellChoice, guestCount int) ([]domain.UpsellSelection, error) {
	byID := make(map[string]domain.Upsell, len(catalog))
	for _, u := range catalog {
		byID[u.ID] = u
	}
	var out []domain.UpsellSelection
	for _, c := range choices {
		u, ok := byID[c.ID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown add-on %q", domain.ErrInvalidInput, c.ID)
		}
		if u.PricingType == domain.UpsellPerBooking && c.Quantity > 1 {
			out = pricing.SelectUpsellCount(out, u, c.Quantity)
			continue
		}
		out = pricing.ToggleUpsell(out, u, guestCount, true)
	}
	return out, nil
}

// ValidateDate accepts ISO calendar dates (YYYY-MM-DD).
func ValidateDate(date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	return nil
}
