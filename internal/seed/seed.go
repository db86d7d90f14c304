package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tourbooking/internal/domain"
	staffsvc "tourbooking/internal/service/staff"
)

type TourWriter interface {
	Upsert(ctx context.Context, tour domain.Tour) (*domain.Tour, error)
	UpsertUpsell(ctx context.Context, upsell domain.Upsell) (*domain.Upsell, error)
}

type SlotWriter interface {
	Upsert(ctx context.Context, slot domain.Slot) (*domain.Slot, error)
}

type StaffRegistrar interface {
	Register(ctx context.Context, in staffsvc.RegisterInput) (*domain.Staff, error)
}

// Writers are the stores demo data is written through.
type Writers struct {
	Tours TourWriter
	Slots SlotWriter
	Staff StaffRegistrar
}

// Options controls how much demo data is produced.
type Options struct {
	// Start is the first slot date; zero means tomorrow.
	Start         time.Time
	Days          int
	StaffEmail    string
	StaffPassword string
}

type tourSeed struct {
	tour     domain.Tour
	upsells  []domain.Upsell
	times    []string
	capacity int
}

func demoTours() []tourSeed {
	return []tourSeed{
		{
			tour: domain.Tour{
				Slug:        "phi-phi-islands",
				Name:        "Phi Phi Islands by Speedboat",
				Description: "Maya Bay, Pileh Lagoon and snorkelling at Bamboo Island.",
				Active:      true,
				Pricing: domain.AdultChild{
					AdultRetailPrice: 250000,
					AdultNetPrice:    200000,
					ChildRetailPrice: 150000,
					ChildNetPrice:    120000,
					ChildAgeMax:      11,
					Currency:         "THB",
					MaxGuests:        30,
				},
			},
			upsells: []domain.Upsell{
				{Name: "Thai buffet lunch", UnitPrice: 35000, PricingType: domain.UpsellPerPerson, Active: true},
				{Name: "Private hotel transfer", UnitPrice: 80000, PricingType: domain.UpsellPerBooking, Active: true},
			},
			times:    []string{"08:00"},
			capacity: 30,
		},
		{
			tour: domain.Tour{
				Slug:        "sunset-cruise",
				Name:        "Andaman Sunset Cruise",
				Description: "Two hours on deck with canapés and a view of the sunset.",
				Active:      true,
				Pricing: domain.FlatPerPerson{
					RetailPrice: 150000,
					NetPrice:    120000,
					Currency:    "THB",
					MaxGuests:   12,
				},
			},
			upsells: []domain.Upsell{
				{Name: "Champagne toast", UnitPrice: 50000, PricingType: domain.UpsellPerPerson, Active: true},
			},
			times:    []string{"16:30", "17:30"},
			capacity: 12,
		},
		{
			tour: domain.Tour{
				Slug:        "cabaret-show",
				Name:        "Simon Cabaret Show",
				Description: "Evening cabaret with standard and VIP seating.",
				Active:      true,
				Pricing: domain.SeatBased{
					Seats: []domain.SeatPrice{
						{SeatType: "Standard", RetailPrice: 90000, NetPrice: 70000},
						{SeatType: "VIP", RetailPrice: 120000, NetPrice: 95000},
					},
					Currency:  "THB",
					MaxGuests: 20,
				},
			},
			times:    []string{"18:00", "19:30", "21:00"},
			capacity: 100,
		},
	}
}

// Apply writes demo tours, add-ons, slots and one staff account. Re-running
// it updates the same rows.
func Apply(ctx context.Context, w Writers, opts Options, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := opts.Start
	if start.IsZero() {
		start = time.Now().UTC().AddDate(0, 0, 1)
	}
	days := opts.Days
	if days <= 0 {
		days = 14
	}

	for _, ts := range demoTours() {
		tour, err := w.Tours.Upsert(ctx, ts.tour)
		if err != nil {
			return fmt.Errorf("upsert tour %s: %w", ts.tour.Slug, err)
		}
		for _, u := range ts.upsells {
			u.TourID = tour.ID
			if _, err := w.Tours.UpsertUpsell(ctx, u); err != nil {
				return fmt.Errorf("upsert upsell %s/%s: %w", ts.tour.Slug, u.Name, err)
			}
		}
		for d := 0; d < days; d++ {
			date := start.AddDate(0, 0, d).Format(time.DateOnly)
			for _, tm := range ts.times {
				slot := domain.Slot{TourID: tour.ID, Date: date, Time: tm, Capacity: ts.capacity, Enabled: true}
				if _, err := w.Slots.Upsert(ctx, slot); err != nil {
					return fmt.Errorf("upsert slot %s %s %s: %w", ts.tour.Slug, date, tm, err)
				}
			}
		}
		logger.Info("seeded tour", zap.String("slug", tour.Slug), zap.String("id", tour.ID))
	}

	if opts.StaffEmail == "" || w.Staff == nil {
		return nil
	}
	_, err := w.Staff.Register(ctx, staffsvc.RegisterInput{
		Email:    opts.StaffEmail,
		Name:     "Demo Operator",
		Password: opts.StaffPassword,
		Role:     "admin",
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyExists):
		logger.Info("staff account already present", zap.String("email", opts.StaffEmail))
	case err != nil:
		return fmt.Errorf("register staff: %w", err)
	default:
		logger.Info("seeded staff account", zap.String("email", opts.StaffEmail))
	}
	return nil
}
