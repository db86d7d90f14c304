package httpserver

import (
	"encoding/json"
	"time"

	"tourbooking/internal/domain"
	"tourbooking/internal/service/checkout"
)

type tourResponse struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Pricing     json.RawMessage `json:"pricing"`
	Upsells     []domain.Upsell `json:"upsells,omitempty"`
}

func toTourResponse(t domain.Tour, upsells []domain.Upsell) (tourResponse, error) {
	pricing, err := domain.MarshalPricing(t.Pricing)
	if err != nil {
		return tourResponse{}, err
	}
	return tourResponse{
		ID:          t.ID,
		Slug:        t.Slug,
		Name:        t.Name,
		Description: t.Description,
		Pricing:     pricing,
		Upsells:     upsells,
	}, nil
}

type bookingDTO struct {
	ID              string               `json:"id"`
	Reference       string               `json:"reference"`
	Status          domain.BookingStatus `json:"status"`
	Customer        domain.CustomerInfo  `json:"customer"`
	TourID          string               `json:"tourId"`
	BookingDate     string               `json:"bookingDate"`
	BookingTime     string               `json:"bookingTime,omitempty"`
	GuestCount      int                  `json:"guestCount"`
	Language        string               `json:"language"`
	Selection       domain.TourSelection `json:"selection"`
	TotalRetail     int64                `json:"totalRetail"`
	TotalNet        int64                `json:"totalNet"`
	Currency        string               `json:"currency"`
	PaymentIntentID string               `json:"paymentIntentId,omitempty"`
	CancelReason    string               `json:"cancelReason,omitempty"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func toBookingDTO(b domain.Booking) bookingDTO {
	out := bookingDTO{
		ID:           b.ID,
		Reference:    b.Reference,
		Status:       b.Status,
		Customer:     b.Customer,
		TourID:       b.TourID,
		BookingDate:  b.BookingDate,
		BookingTime:  b.BookingTime,
		GuestCount:   b.GuestCount,
		Language:     b.Language,
		Selection:    b.Selection,
		TotalRetail:  b.TotalRetail,
		TotalNet:     b.TotalNet,
		Currency:     b.Currency,
		CancelReason: b.CancelReason,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.PaymentIntentID != nil {
		out.PaymentIntentID = *b.PaymentIntentID
	}
	return out
}

type quoteResponse struct {
	Tour      tourResponse         `json:"tour"`
	Selection domain.TourSelection `json:"selection"`
}

type guestsRequest struct {
	Adult  int `json:"adult"`
	Child  int `json:"child"`
	Infant int `json:"infant"`
}

type slotRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time"`
}

type upsellRequest struct {
	Selected bool `json:"selected"`
	Quantity *int `json:"quantity"`
}

type startSessionRequest struct {
	TourID string `json:"tourId" binding:"required"`
}

type submitResponse struct {
	Success bool `json:"success"`
	*checkout.Result
}

type returnResponse struct {
	BookingID string               `json:"bookingId"`
	Reference string               `json:"reference"`
	Status    domain.BookingStatus `json:"status"`
	Paid      bool                 `json:"paid"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}
