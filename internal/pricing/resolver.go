// Package pricing derives price breakdowns, add-on totals and the checkout
// selection from a tour's pricing configuration. Everything here is pure and
// safe to call on every guest-count change.
package pricing

import (
	"fmt"
	"strings"

	"tourbooking/internal/domain"
)

const standardSeatType = "standard"

// Breakdown is the resolver output for one pricing config and party.
type Breakdown struct {
	Items       []domain.PriceBreakdownItem `json:"items"`
	TotalRetail int64                       `json:"totalRetail"`
	TotalNet    int64                       `json:"totalNet"`
	Currency    string                      `json:"currency"`
}

type unitPrice struct {
	retail int64
	net    int64
}

// ResolveBreakdown prices adults and children according to cfg. Infants are
// always free and therefore never produce a line. A nil config yields an empty
// breakdown.
func ResolveBreakdown(cfg domain.PricingConfig, guests domain.GuestCounts) Breakdown {
	if cfg == nil {
		return Breakdown{Items: []domain.PriceBreakdownItem{}}
	}

	var (
		adult, child unitPrice
		seatType     string
	)
	switch p := cfg.(type) {
	case domain.FlatPerPerson:
		adult = unitPrice{p.RetailPrice, p.NetPrice}
		child = adult
	case domain.AdultChild:
		adult = unitPrice{p.AdultRetailPrice, p.AdultNetPrice}
		child = unitPrice{p.ChildRetailPrice, p.ChildNetPrice}
	case domain.SeatBased:
		seat, ok := ResolveSeat(p.Seats)
		if ok {
			seatType = seat.SeatType
			adult = unitPrice{seat.RetailPrice, seat.NetPrice}
			child = adult
		}
	default:
		return Breakdown{Items: []domain.PriceBreakdownItem{}, Currency: cfg.CurrencyCode()}
	}

	out := Breakdown{Items: []domain.PriceBreakdownItem{}, Currency: cfg.CurrencyCode()}
	out.add(domain.GuestAdult, seatType, guests.Adult, adult)
	out.add(domain.GuestChild, seatType, guests.Child, child)
	return out
}

func (b *Breakdown) add(kind domain.GuestType, seatType string, qty int, price unitPrice) {
	if qty <= 0 {
		return
	}
	item := domain.PriceBreakdownItem{
		Type:            kind,
		SeatType:        seatType,
		Label:           lineLabel(kind, seatType),
		Quantity:        qty,
		UnitRetailPrice: price.retail,
		UnitNetPrice:    price.net,
		TotalRetail:     price.retail * int64(qty),
		TotalNet:        price.net * int64(qty),
	}
	b.Items = append(b.Items, item)
	b.TotalRetail += item.TotalRetail
	b.TotalNet += item.TotalNet
}

// ResolveSeat picks the "Standard" seat type when present, else the first one.
func ResolveSeat(seats []domain.SeatPrice) (domain.SeatPrice, bool) {
	if len(seats) == 0 {
		return domain.SeatPrice{}, false
	}
	for _, s := range seats {
		if strings.EqualFold(strings.TrimSpace(s.SeatType), standardSeatType) {
			return s, true
		}
	}
	return seats[0], true
}

// CheckCapacity rejects parties larger than the config's max_pax. Infants count.
func CheckCapacity(cfg domain.PricingConfig, guests domain.GuestCounts) error {
	if guests.Adult < 0 || guests.Child < 0 || guests.Infant < 0 {
		return fmt.Errorf("guest counts must not be negative")
	}
	if cfg == nil {
		return nil
	}
	if max := cfg.MaxPax(); max > 0 && guests.Total() > max {
		return fmt.Errorf("%w: %d guests, max %d", domain.ErrCapacityExceeded, guests.Total(), max)
	}
	return nil
}

func lineLabel(kind domain.GuestType, seatType string) string {
	var base string
	switch kind {
	case domain.GuestAdult:
		base = "Adult"
	case domain.GuestChild:
		base = "Child"
	default:
		base = "Infant"
	}
	if seatType == "" {
		return base
	}
	return fmt.Sprintf("%s (%s)", base, seatType)
}
