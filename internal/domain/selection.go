package domain

// GuestCounts holds the party composition for a booking.
type GuestCounts struct {
	Adult  int `json:"adult"`
	Child  int `json:"child"`
	Infant int `json:"infant"`
}

// Total counts every guest, infants included.
func (g GuestCounts) Total() int {
	return g.Adult + g.Child + g.Infant
}

// Paying counts guests that occupy a priced place.
func (g GuestCounts) Paying() int {
	return g.Adult + g.Child
}

// GuestType labels a breakdown line.
type GuestType string

const (
	GuestAdult  GuestType = "adult"
	GuestChild  GuestType = "child"
	GuestInfant GuestType = "infant"
)

// PriceBreakdownItem is one derived price line. It is never stored on its own.
type PriceBreakdownItem struct {
	Type            GuestType `json:"type"`
	SeatType        string    `json:"seatType,omitempty"`
	Label           string    `json:"label"`
	Quantity        int       `json:"quantity"`
	UnitRetailPrice int64     `json:"unitRetailPrice"`
	UnitNetPrice    int64     `json:"unitNetPrice"`
	TotalRetail     int64     `json:"totalRetail"`
	TotalNet        int64     `json:"totalNet"`
}

// UpsellSelection is a chosen add-on with its computed line total.
type UpsellSelection struct {
	UpsellID    string            `json:"upsellId"`
	Name        string            `json:"name"`
	Quantity    int               `json:"quantity"`
	UnitPrice   int64             `json:"unitPrice"`
	TotalPrice  int64             `json:"totalPrice"`
	PricingType UpsellPricingType `json:"pricingType"`
}

// TourSelection is everything a customer is about to purchase.
type TourSelection struct {
	TourID      string               `json:"tourId"`
	Date        string               `json:"date"`
	Time        string               `json:"time,omitempty"`
	Guests      GuestCounts          `json:"guests"`
	Breakdown   []PriceBreakdownItem `json:"breakdown"`
	Upsells     []UpsellSelection    `json:"upsells"`
	TotalRetail int64                `json:"totalRetail"`
	TotalNet    int64                `json:"totalNet"`
	Currency    string               `json:"currency"`
}

// UpsellIDs returns the ids of the selected add-ons in order.
func (s TourSelection) UpsellIDs() []string {
	ids := make([]string, 0, len(s.Upsells))
	for _, u := range s.Upsells {
		ids = append(ids, u.UpsellID)
	}
	return ids
}
