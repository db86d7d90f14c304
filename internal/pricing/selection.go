package pricing

import "tourbooking/internal/domain"

// UpdateSelection builds a fresh selection from its parts. Add-ons count towards
// the retail total only; they carry no net price.
func UpdateSelection(tourID, date, time string, guests domain.GuestCounts, breakdown Breakdown, upsells []domain.UpsellSelection) domain.TourSelection {
	items := make([]domain.PriceBreakdownItem, len(breakdown.Items))
	copy(items, breakdown.Items)
	lines := make([]domain.UpsellSelection, len(upsells))
	copy(lines, upsells)

	return domain.TourSelection{
		TourID:      tourID,
		Date:        date,
		Time:        time,
		Guests:      guests,
		Breakdown:   items,
		Upsells:     lines,
		TotalRetail: breakdown.TotalRetail + SumUpsells(lines),
		TotalNet:    breakdown.TotalNet,
		Currency:    breakdown.Currency,
	}
}

// Recompute derives the whole selection for a tour, repricing per-person
// add-ons for the current party size.
func Recompute(tour domain.Tour, date, time string, guests domain.GuestCounts, upsells []domain.UpsellSelection) domain.TourSelection {
	breakdown := ResolveBreakdown(tour.Pricing, guests)
	return UpdateSelection(tour.ID, date, time, guests, breakdown, RepriceUpsells(upsells, guests.Total()))
}
