package pricing

import (
	"errors"
	"testing"

	"tourbooking/internal/domain"
)

func TestResolveBreakdown_FlatPerPerson(t *testing.T) {
	cfg := domain.FlatPerPerson{RetailPrice: 1000, NetPrice: 700, Currency: "THB", MaxGuests: 10}
	got := ResolveBreakdown(cfg, domain.GuestCounts{Adult: 2, Child: 1, Infant: 1})

	if len(got.Items) != 2 {
		t.Fatalf("expected 2 lines (infant omitted), got %+v", got.Items)
	}
	if got.Items[0].Type != domain.GuestAdult || got.Items[0].Quantity != 2 || got.Items[0].TotalRetail != 2000 {
		t.Fatalf("unexpected adult line %+v", got.Items[0])
	}
	if got.Items[1].Type != domain.GuestChild || got.Items[1].Quantity != 1 || got.Items[1].TotalRetail != 1000 {
		t.Fatalf("unexpected child line %+v", got.Items[1])
	}
	if got.TotalRetail != 3000 || got.TotalNet != 2100 {
		t.Fatalf("unexpected totals retail=%d net=%d", got.TotalRetail, got.TotalNet)
	}
	if got.Currency != "THB" {
		t.Fatalf("unexpected currency %q", got.Currency)
	}
}

func TestResolveBreakdown_FlatPerPersonProperty(t *testing.T) {
	cfg := domain.FlatPerPerson{RetailPrice: 1250, NetPrice: 900, Currency: "USD", MaxGuests: 50}
	for adult := 1; adult <= 6; adult++ {
		for child := 0; child <= 4; child++ {
			for infant := 0; infant <= 3; infant++ {
				got := ResolveBreakdown(cfg, domain.GuestCounts{Adult: adult, Child: child, Infant: infant})
				want := int64(adult+child) * 1250
				if got.TotalRetail != want {
					t.Fatalf("a=%d c=%d i=%d: total %d, want %d", adult, child, infant, got.TotalRetail, want)
				}
			}
		}
	}
}

func TestResolveBreakdown_AdultChild(t *testing.T) {
	cfg := domain.AdultChild{
		AdultRetailPrice: 1500, AdultNetPrice: 1000,
		ChildRetailPrice: 800, ChildNetPrice: 500,
		ChildAgeMax: 11, Currency: "THB", MaxGuests: 8,
	}
	got := ResolveBreakdown(cfg, domain.GuestCounts{Adult: 1, Child: 2})

	if got.TotalRetail != 1500+2*800 {
		t.Fatalf("unexpected retail total %d", got.TotalRetail)
	}
	if got.TotalNet != 1000+2*500 {
		t.Fatalf("unexpected net total %d", got.TotalNet)
	}
	if got.Items[1].UnitRetailPrice != 800 {
		t.Fatalf("child unit price not independent: %+v", got.Items[1])
	}
}

func TestResolveBreakdown_SeatBasedPrefersStandard(t *testing.T) {
	cfg := domain.SeatBased{
		Seats: []domain.SeatPrice{
			{SeatType: "VIP", RetailPrice: 5000, NetPrice: 4000},
			{SeatType: "standard", RetailPrice: 2000, NetPrice: 1500},
		},
		Currency:  "THB",
		MaxGuests: 20,
	}
	got := ResolveBreakdown(cfg, domain.GuestCounts{Adult: 2, Child: 1})

	if got.TotalRetail != 3*2000 {
		t.Fatalf("expected standard rate, got total %d", got.TotalRetail)
	}
	if got.Items[0].SeatType != "standard" || got.Items[0].Label != "Adult (standard)" {
		t.Fatalf("unexpected seat line %+v", got.Items[0])
	}
}

func TestResolveBreakdown_SeatBasedFallsBackToFirst(t *testing.T) {
	cfg := domain.SeatBased{
		Seats: []domain.SeatPrice{
			{SeatType: "Window", RetailPrice: 3000, NetPrice: 2500},
			{SeatType: "Aisle", RetailPrice: 2800, NetPrice: 2300},
		},
		Currency:  "THB",
		MaxGuests: 20,
	}
	got := ResolveBreakdown(cfg, domain.GuestCounts{Adult: 1})
	if got.TotalRetail != 3000 || got.Items[0].SeatType != "Window" {
		t.Fatalf("expected first seat type, got %+v", got)
	}
}

func TestResolveBreakdown_NilConfig(t *testing.T) {
	got := ResolveBreakdown(nil, domain.GuestCounts{Adult: 3})
	if len(got.Items) != 0 || got.TotalRetail != 0 || got.TotalNet != 0 {
		t.Fatalf("expected zero breakdown, got %+v", got)
	}
}

func TestResolveBreakdown_ZeroQuantitiesOmitted(t *testing.T) {
	cfg := domain.FlatPerPerson{RetailPrice: 1000, NetPrice: 700, Currency: "THB", MaxGuests: 10}
	got := ResolveBreakdown(cfg, domain.GuestCounts{Adult: 1})
	if len(got.Items) != 1 || got.Items[0].Type != domain.GuestAdult {
		t.Fatalf("expected only an adult line, got %+v", got.Items)
	}
}

func TestCheckCapacity(t *testing.T) {
	cfg := domain.FlatPerPerson{RetailPrice: 1000, Currency: "THB", MaxGuests: 4}

	if err := CheckCapacity(cfg, domain.GuestCounts{Adult: 2, Child: 1, Infant: 1}); err != nil {
		t.Fatalf("expected party of 4 to fit, got %v", err)
	}
	err := CheckCapacity(cfg, domain.GuestCounts{Adult: 2, Child: 2, Infant: 1})
	if !errors.Is(err, domain.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if err := CheckCapacity(cfg, domain.GuestCounts{Adult: -1}); err == nil {
		t.Fatalf("expected negative counts to be rejected")
	}
}
