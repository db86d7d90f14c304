package pricing

import "tourbooking/internal/domain"

// ToggleUpsell adds or removes an add-on. The returned slice is new; current is
// left untouched. Selecting an add-on that is already present replaces it.
func ToggleUpsell(current []domain.UpsellSelection, upsell domain.Upsell, guestCount int, selected bool) []domain.UpsellSelection {
	out := without(current, upsell.ID)
	if !selected {
		return out
	}
	qty := 1
	if upsell.PricingType == domain.UpsellPerPerson {
		qty = guestCount
	}
	return append(out, lineFor(upsell, qty))
}

// SelectUpsellCount selects a per-booking add-on with an explicit count. A count
// of zero or less removes it.
func SelectUpsellCount(current []domain.UpsellSelection, upsell domain.Upsell, count int) []domain.UpsellSelection {
	out := without(current, upsell.ID)
	if count <= 0 {
		return out
	}
	return append(out, lineFor(upsell, count))
}

// RepriceUpsells recomputes per-person add-ons for a new guest count.
func RepriceUpsells(current []domain.UpsellSelection, guestCount int) []domain.UpsellSelection {
	out := make([]domain.UpsellSelection, 0, len(current))
	for _, sel := range current {
		if sel.PricingType == domain.UpsellPerPerson {
			sel.Quantity = guestCount
			sel.TotalPrice = sel.UnitPrice * int64(guestCount)
		}
		out = append(out, sel)
	}
	return out
}

// SumUpsells folds the line totals of the selected add-ons.
func SumUpsells(selections []domain.UpsellSelection) int64 {
	var total int64
	for _, sel := range selections {
		total += sel.TotalPrice
	}
	return total
}

func lineFor(upsell domain.Upsell, qty int) domain.UpsellSelection {
	return domain.UpsellSelection{
		UpsellID:    upsell.ID,
		Name:        upsell.Name,
		Quantity:    qty,
		UnitPrice:   upsell.UnitPrice,
		TotalPrice:  upsell.UnitPrice * int64(qty),
		PricingType: upsell.PricingType,
	}
}

func without(current []domain.UpsellSelection, upsellID string) []domain.UpsellSelection {
	out := make([]domain.UpsellSelection, 0, len(current)+1)
	for _, sel := range current {
		if sel.UpsellID == upsellID {
			continue
		}
		out = append(out, sel)
	}
	return out
}
