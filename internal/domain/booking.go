package domain

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending        BookingStatus = "pending"
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCompleted      BookingStatus = "completed"
	BookingCancelled      BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:        {BookingPendingPayment, BookingConfirmed, BookingCancelled},
	BookingPendingPayment: {BookingConfirmed, BookingCancelled},
	BookingConfirmed:      {BookingCompleted, BookingCancelled},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SourcesFor lists the statuses from which a booking may enter to.
func SourcesFor(to BookingStatus) []BookingStatus {
	var out []BookingStatus
	for _, from := range []BookingStatus{BookingPending, BookingPendingPayment, BookingConfirmed} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// IsPayable reports whether a payment intent may still be created for the booking.
func (s BookingStatus) IsPayable() bool {
	return s == BookingPending || s == BookingPendingPayment
}

// CustomerInfo is the contact data captured at checkout.
type CustomerInfo struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	PickupLocation string `json:"pickupLocation,omitempty"`
}

// Booking is the durable record created from a TourSelection.
type Booking struct {
	ID              string
	Reference       string
	Status          BookingStatus
	Customer        CustomerInfo
	TourID          string
	BookingDate     string
	BookingTime     string
	SlotID          *string
	GuestCount      int
	Language        string
	Selection       TourSelection
	TotalRetail     int64
	TotalNet        int64
	Currency        string
	PaymentIntentID *string
	CancelReason    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingFilter narrows staff booking listings.
type BookingFilter struct {
	Status BookingStatus
	TourID string
	Limit  int
}
