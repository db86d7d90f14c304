package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tourbooking/internal/domain"
)

type stubTourRepo struct {
	items []domain.Tour
}

func (s *stubTourRepo) Upsert(_ context.Context, t domain.Tour) (*domain.Tour, error) {
	t.ID = "id-" + t.Slug
	s.items = append(s.items, t)
	return &t, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `slug,name,description,pricing_type,currency,max_pax,retail_price,net_price,child_retail_price,child_net_price,child_age_max,seat_type
phi-phi,Phi Phi Islands,Speedboat day trip,adult_child,thb,30,250000,200000,150000,120000,11,
,,,,,,,,,,,
sunset,Sunset Cruise,,flat_per_person,THB,12,150000,120000,,,,
simians,Simian Show,,seat_based,THB,100,90000,70000,,,,Standard
,,,,,,120000,95000,,,,VIP`

	repo := &stubTourRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, nil)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 || len(repo.items) != 3 {
		t.Fatalf("expected 3 tours imported, got %d (%d saved)", count, len(repo.items))
	}

	ac, ok := repo.items[0].Pricing.(domain.AdultChild)
	if !ok {
		t.Fatalf("expected adult_child pricing, got %T", repo.items[0].Pricing)
	}
	if ac.AdultRetailPrice != 250000 || ac.ChildNetPrice != 120000 || ac.ChildAgeMax != 11 || ac.Currency != "THB" {
		t.Fatalf("unexpected adult/child pricing: %+v", ac)
	}
	if !repo.items[0].Active {
		t.Fatalf("imported tours must be active")
	}

	if _, ok := repo.items[1].Pricing.(domain.FlatPerPerson); !ok {
		t.Fatalf("expected flat pricing, got %T", repo.items[1].Pricing)
	}

	sb, ok := repo.items[2].Pricing.(domain.SeatBased)
	if !ok {
		t.Fatalf("expected seat_based pricing, got %T", repo.items[2].Pricing)
	}
	if len(sb.Seats) != 2 || sb.Seats[1].SeatType != "VIP" || sb.Seats[1].RetailPrice != 120000 {
		t.Fatalf("unexpected seats: %+v", sb.Seats)
	}
}

func TestCSVImporter_RejectsInvalidPricing(t *testing.T) {
	csvData := `slug,name,pricing_type,currency,max_pax,retail_price,net_price
broken,Broken Tour,flat_per_person,THB,0,1000,900`

	_, err := NewCSVImporter(strings.NewReader(csvData), &stubTourRepo{}, nil).Run(context.Background())
	if !errors.Is(err, domain.ErrInvalidPricing) {
		t.Fatalf("expected ErrInvalidPricing, got %v", err)
	}
}

func TestCSVImporter_RejectsOrphanSeatRow(t *testing.T) {
	csvData := `slug,name,pricing_type,currency,max_pax,retail_price,net_price,seat_type
sunset,Sunset Cruise,flat_per_person,THB,10,1000,900,
,,,,,2000,1500,VIP`

	if _, err := NewCSVImporter(strings.NewReader(csvData), &stubTourRepo{}, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error for seat row under a flat tour")
	}
}

func TestCSVImporter_BadNumber(t *testing.T) {
	csvData := `slug,name,pricing_type,currency,max_pax,retail_price,net_price
sunset,Sunset Cruise,flat_per_person,THB,ten,1000,900`

	if _, err := NewCSVImporter(strings.NewReader(csvData), &stubTourRepo{}, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}
