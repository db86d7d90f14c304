package domain

import "time"

// Tour is a bookable excursion with one active pricing configuration.
type Tour struct {
	ID          string
	Slug        string
	Name        string
	Description string
	Pricing     PricingConfig
	Active      bool
	CreatedAt   time.Time
}

// UpsellPricingType controls how an add-on quantity is derived.
type UpsellPricingType string

const (
	UpsellPerPerson  UpsellPricingType = "per_person"
	UpsellPerBooking UpsellPricingType = "per_booking"
)

// Upsell is an optional paid add-on offered with a tour.
type Upsell struct {
	ID          string            `json:"id"`
	TourID      string            `json:"tourId"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	UnitPrice   int64             `json:"unitPrice"`
	PricingType UpsellPricingType `json:"pricingType"`
	Active      bool              `json:"active"`
	CreatedAt   time.Time         `json:"createdAt"`
}
