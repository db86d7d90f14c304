package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// PricingModel discriminates the active PricingConfig variant.
type PricingModel string

const (
	PricingFlatPerPerson PricingModel = "flat_per_person"
	PricingAdultChild    PricingModel = "adult_child"
	PricingSeatBased     PricingModel = "seat_based"
)

// PricingConfig is implemented by exactly one of FlatPerPerson, AdultChild or SeatBased.
type PricingConfig interface {
	Model() PricingModel
	CurrencyCode() string
	MaxPax() int
	isPricingConfig()
}

// FlatPerPerson charges adults and children the same unit price.
type FlatPerPerson struct {
	RetailPrice int64  `json:"retail_price"`
	NetPrice    int64  `json:"net_price"`
	Currency    string `json:"currency"`
	MaxGuests   int    `json:"max_pax"`
}

// AdultChild prices adults and children independently.
type AdultChild struct {
	AdultRetailPrice int64  `json:"adult_retail_price"`
	AdultNetPrice    int64  `json:"adult_net_price"`
	ChildRetailPrice int64  `json:"child_retail_price"`
	ChildNetPrice    int64  `json:"child_net_price"`
	ChildAgeMax      int    `json:"child_age_max"`
	Currency         string `json:"currency"`
	MaxGuests        int    `json:"max_pax"`
}

// SeatPrice is one seat type of a SeatBased config.
type SeatPrice struct {
	SeatType    string `json:"seat_type"`
	RetailPrice int64  `json:"retail_price"`
	NetPrice    int64  `json:"net_price"`
}

// SeatBased prices guests by seat type.
type SeatBased struct {
	Seats     []SeatPrice `json:"seats"`
	Currency  string      `json:"currency"`
	MaxGuests int         `json:"max_pax"`
}

func (FlatPerPerson) Model() PricingModel { return PricingFlatPerPerson }
func (p FlatPerPerson) CurrencyCode() string { return p.Currency }
func (p FlatPerPerson) MaxPax() int { return p.MaxGuests }
func (FlatPerPerson) isPricingConfig() {}

func (AdultChild) Model() PricingModel { return PricingAdultChild }
func (p AdultChild) CurrencyCode() string { return p.Currency }
func (p AdultChild) MaxPax() int { return p.MaxGuests }
func (AdultChild) isPricingConfig() {}

func (SeatBased) Model() PricingModel { return PricingSeatBased }
func (p SeatBased) CurrencyCode() string { return p.Currency }
func (p SeatBased) MaxPax() int { return p.MaxGuests }
func (SeatBased) isPricingConfig() {}

// ValidatePricing checks currency, price signs and capacity of a config.
func ValidatePricing(cfg PricingConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: missing config", ErrInvalidPricing)
	}
	code := cfg.CurrencyCode()
	if len(code) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidPricing)
	}
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("%w: unknown currency %q", ErrInvalidPricing, code)
	}
	if cfg.MaxPax() <= 0 {
		return fmt.Errorf("%w: max_pax must be positive", ErrInvalidPricing)
	}

	var prices []int64
	switch p := cfg.(type) {
	case FlatPerPerson:
		prices = []int64{p.RetailPrice, p.NetPrice}
	case AdultChild:
		if p.ChildAgeMax < 0 {
			return fmt.Errorf("%w: child_age_max must not be negative", ErrInvalidPricing)
		}
		prices = []int64{p.AdultRetailPrice, p.AdultNetPrice, p.ChildRetailPrice, p.ChildNetPrice}
	case SeatBased:
		if len(p.Seats) == 0 {
			return fmt.Errorf("%w: at least one seat type is required", ErrInvalidPricing)
		}
		for _, s := range p.Seats {
			if strings.TrimSpace(s.SeatType) == "" {
				return fmt.Errorf("%w: seat_type required", ErrInvalidPricing)
			}
			prices = append(prices, s.RetailPrice, s.NetPrice)
		}
	default:
		return fmt.Errorf("%w: unsupported variant %T", ErrInvalidPricing, cfg)
	}
	for _, v := range prices {
		if v < 0 {
			return fmt.Errorf("%w: prices must not be negative", ErrInvalidPricing)
		}
	}
	return nil
}

type pricingEnvelope struct {
	Type PricingModel `json:"type"`
}

// MarshalPricing encodes cfg as a JSON object carrying a "type" discriminant.
func MarshalPricing(cfg PricingConfig) ([]byte, error) {
	if cfg == nil {
		return []byte("null"), nil
	}
	var body any
	switch p := cfg.(type) {
	case FlatPerPerson:
		body = struct {
			Type PricingModel `json:"type"`
			FlatPerPerson
		}{p.Model(), p}
	case AdultChild:
		body = struct {
			Type PricingModel `json:"type"`
			AdultChild
		}{p.Model(), p}
	case SeatBased:
		body = struct {
			Type PricingModel `json:"type"`
			SeatBased
		}{p.Model(), p}
	default:
		return nil, fmt.Errorf("%w: unsupported variant %T", ErrInvalidPricing, cfg)
	}
	return json.Marshal(body)
}

// UnmarshalPricing decodes a config produced by MarshalPricing.
func UnmarshalPricing(data []byte) (PricingConfig, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	var env pricingEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPricing, err)
	}
	switch env.Type {
	case PricingFlatPerPerson:
		var p FlatPerPerson
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPricing, err)
		}
		return p, nil
	case PricingAdultChild:
		var p AdultChild
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPricing, err)
		}
		return p, nil
	case PricingSeatBased:
		var p SeatBased
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPricing, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidPricing, env.Type)
	}
}
