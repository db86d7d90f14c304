package checkout

import (
	"context"
	"errors"

	"tourbooking/internal/domain"
	"tourbooking/internal/payments"
	bookingsvc "tourbooking/internal/service/booking"
	paymentsvc "tourbooking/internal/service/payment"
)

type bookingService interface {
	Create(ctx context.Context, in bookingsvc.CreateInput) (*domain.Booking, error)
	Cancel(ctx context.Context, id, reason string) (*domain.Booking, error)
}

type tourLookup interface {
	Get(ctx context.Context, ref string) (*domain.Tour, error)
}

// LocalBookings calls the booking service in-process and translates known
// domain errors into unsuccessful responses.
type LocalBookings struct {
	Bookings bookingService
	Tours    tourLookup
}

func (l LocalBookings) CreateBooking(ctx context.Context, req BookingRequest) (BookingResponse, error) {
	b, err := l.Bookings.Create(ctx, bookingsvc.CreateInput{
		TourID:      req.TourID,
		BookingDate: req.BookingDate,
		Customer: domain.CustomerInfo{
			Name:           req.CustomerName,
			Email:          req.CustomerEmail,
			Phone:          req.CustomerPhone,
			Nationality:    req.CustomerNationality,
			PickupLocation: req.PickupLocation,
		},
		Language:  req.Language,
		Selection: req.Selection,
	})
	if err != nil {
		if msg, ok := BookingErrorMessage(err); ok {
			return BookingResponse{Success: false, Error: msg}, nil
		}
		return BookingResponse{}, err
	}

	ref := &BookingRef{ID: b.ID, Reference: b.Reference}
	if l.Tours != nil {
		if t, err := l.Tours.Get(ctx, b.TourID); err == nil {
			ref.TourName = t.Name
		}
	}
	return BookingResponse{Success: true, Booking: ref}, nil
}

func (l LocalBookings) CancelBooking(ctx context.Context, bookingID, reason string) error {
	_, err := l.Bookings.Cancel(ctx, bookingID, reason)
	return err
}

type intentService interface {
	CreateIntent(ctx context.Context, in paymentsvc.IntentInput) (*paymentsvc.IntentResult, error)
}

// LocalPayments calls the payment service in-process.
type LocalPayments struct {
	Payments intentService
}

func (l LocalPayments) CreatePaymentIntent(ctx context.Context, req IntentRequest) (IntentResponse, error) {
	res, err := l.Payments.CreateIntent(ctx, paymentsvc.IntentInput{
		BookingID:        req.BookingID,
		Amount:           req.Amount,
		Currency:         req.Currency,
		CustomerEmail:    req.CustomerEmail,
		CustomerName:     req.CustomerName,
		TourName:         req.TourName,
		BookingReference: req.BookingReference,
	})
	if err != nil {
		if msg, ok := PaymentErrorMessage(err); ok {
			return IntentResponse{Success: false, Error: msg}, nil
		}
		return IntentResponse{}, err
	}
	return IntentResponse{
		Success:        true,
		ClientSecret:   res.ClientSecret,
		PublishableKey: res.PublishableKey,
		PaymentMethods: res.PaymentMethods,
	}, nil
}

// BookingErrorMessage maps booking-creation failures the customer can act on.
func BookingErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrSlotUnavailable):
		return "Tour unavailable for the selected date and time", true
	case errors.Is(err, domain.ErrCapacityExceeded):
		return "Too many guests for this tour", true
	case errors.Is(err, domain.ErrNotFound):
		return "Tour not found", true
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error(), true
	}
	return "", false
}

// PaymentErrorMessage maps payment-intent failures the customer can act on.
func PaymentErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, paymentsvc.ErrAmountMismatch):
		return "Payment amount does not match the booking", true
	case errors.Is(err, domain.ErrInvalidTransition):
		return "Booking can no longer be paid", true
	case errors.Is(err, domain.ErrNotFound):
		return "Booking not found", true
	case errors.Is(err, payments.ErrProviderUnavailable):
		return "Payments are temporarily unavailable", true
	}
	return "", false
}
