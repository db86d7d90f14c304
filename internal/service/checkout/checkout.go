// Package checkout sequences booking creation and payment-intent creation for
// a submitted selection.
package checkout

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"tourbooking/internal/domain"
	"tourbooking/internal/payments"
)

// GenericErrorMessage is shown when no structured error is available.
const GenericErrorMessage = "An error occurred. Please try again."

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Customer is the contact form submitted with a selection.
type Customer struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	PickupLocation string `json:"pickupLocation,omitempty"`
	Language       string `json:"language,omitempty"`
	AcceptedTerms  bool   `json:"acceptedTerms"`
}

// BookingRequest is the payload sent to the booking persistence service.
type BookingRequest struct {
	TourID              string               `json:"tourId"`
	BookingDate         string               `json:"bookingDate"`
	CustomerName        string               `json:"customerName"`
	CustomerEmail       string               `json:"customerEmail"`
	CustomerPhone       string               `json:"customerPhone,omitempty"`
	CustomerNationality string               `json:"customerNationality,omitempty"`
	PickupLocation      string               `json:"pickupLocation,omitempty"`
	Language            string               `json:"language"`
	Selection           domain.TourSelection `json:"selection"`
}

// BookingRef identifies a created booking.
type BookingRef struct {
	ID        string `json:"id"`
	Reference string `json:"reference"`
	TourName  string `json:"tourName,omitempty"`
}

// BookingResponse is the booking persistence service reply.
type BookingResponse struct {
	Success bool        `json:"success"`
	Booking *BookingRef `json:"booking,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// IntentRequest is the payload sent to the payment-intent service.
type IntentRequest struct {
	BookingID        string `json:"bookingId"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	CustomerEmail    string `json:"customerEmail"`
	CustomerName     string `json:"customerName"`
	TourName         string `json:"tourName"`
	BookingReference string `json:"bookingReference"`
}

// IntentResponse is the payment-intent service reply.
type IntentResponse struct {
	Success        bool                    `json:"success"`
	ClientSecret   string                  `json:"clientSecret,omitempty"`
	PublishableKey string                  `json:"publishableKey,omitempty"`
	PaymentMethods payments.PaymentMethods `json:"paymentMethods"`
	Error          string                  `json:"error,omitempty"`
}

type BookingCreator interface {
	CreateBooking(ctx context.Context, req BookingRequest) (BookingResponse, error)
}

type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (IntentResponse, error)
}

type BookingCanceller interface {
	CancelBooking(ctx context.Context, bookingID, reason string) error
}

// Result is returned when both steps succeeded.
type Result struct {
	BookingID      string                  `json:"bookingId"`
	Reference      string                  `json:"reference"`
	ClientSecret   string                  `json:"clientSecret"`
	PublishableKey string                  `json:"publishableKey"`
	PaymentMethods payments.PaymentMethods `json:"paymentMethods"`
	ReturnURL      string                  `json:"returnUrl"`
}

// ValidationError lists field problems found before any collaborator call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// SubmitError is a submit-level failure. BookingID and Reference are set when
// the booking was created before the failure.
type SubmitError struct {
	Message     string
	BookingID   string
	Reference   string
	Compensated bool
	Cause       error
}

func (e *SubmitError) Error() string { return e.Message }

func (e *SubmitError) Unwrap() error { return e.Cause }

// Options tune the orchestrator.
type Options struct {
	// Compensate cancels the booking when payment-intent creation fails.
	Compensate bool
	// ReturnURL is handed to the payment widget for the hosted redirect.
	ReturnURL string
}

type Orchestrator struct {
	bookings  BookingCreator
	intents   IntentCreator
	canceller BookingCanceller
	opts      Options
	logger    *zap.Logger
}

func New(bookings BookingCreator, intents IntentCreator, canceller BookingCanceller, opts Options, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		bookings:  bookings,
		intents:   intents,
		canceller: canceller,
		opts:      opts,
		logger:    logger.Named("checkout"),
	}
}

// SubmitBooking validates the form, creates the booking and then its payment
// intent. The two calls are strictly sequential.
func (o *Orchestrator) SubmitBooking(ctx context.Context, customer Customer, selection domain.TourSelection) (*Result, error) {
	if verr := Validate(customer, selection); verr != nil {
		return nil, verr
	}

	bookingResp, err := o.bookings.CreateBooking(ctx, BookingRequest{
		TourID:              selection.TourID,
		BookingDate:         selection.Date,
		CustomerName:        strings.TrimSpace(customer.Name),
		CustomerEmail:       strings.TrimSpace(customer.Email),
		CustomerPhone:       strings.TrimSpace(customer.Phone),
		CustomerNationality: strings.TrimSpace(customer.Nationality),
		PickupLocation:      strings.TrimSpace(customer.PickupLocation),
		Language:            customer.Language,
		Selection:           selection,
	})
	if err != nil {
		o.logger.Error("create booking call failed", zap.Error(err))
		return nil, &SubmitError{Message: GenericErrorMessage, Cause: err}
	}
	if !bookingResp.Success || bookingResp.Booking == nil {
		return nil, &SubmitError{Message: messageOr(bookingResp.Error)}
	}
	ref := *bookingResp.Booking

	intentResp, err := o.intents.CreatePaymentIntent(ctx, IntentRequest{
		BookingID:        ref.ID,
		Amount:           selection.TotalRetail,
		Currency:         selection.Currency,
		CustomerEmail:    strings.TrimSpace(customer.Email),
		CustomerName:     strings.TrimSpace(customer.Name),
		TourName:         ref.TourName,
		BookingReference: ref.Reference,
	})
	if err != nil || !intentResp.Success {
		serr := &SubmitError{
			Message:   GenericErrorMessage,
			BookingID: ref.ID,
			Reference: ref.Reference,
			Cause:     err,
		}
		if err == nil {
			serr.Message = messageOr(intentResp.Error)
			serr.Cause = fmt.Errorf("payment intent refused: %s", intentResp.Error)
		}
		o.logger.Error("create payment intent failed",
			zap.String("booking_id", ref.ID),
			zap.String("reference", ref.Reference),
			zap.Error(serr.Cause),
		)
		serr.Compensated = o.compensate(ctx, ref)
		return nil, serr
	}

	return &Result{
		BookingID:      ref.ID,
		Reference:      ref.Reference,
		ClientSecret:   intentResp.ClientSecret,
		PublishableKey: intentResp.PublishableKey,
		PaymentMethods: intentResp.PaymentMethods,
		ReturnURL:      o.opts.ReturnURL,
	}, nil
}

func (o *Orchestrator) compensate(ctx context.Context, ref BookingRef) bool {
	if !o.opts.Compensate || o.canceller == nil {
		return false
	}
	if err := o.canceller.CancelBooking(ctx, ref.ID, "payment intent creation failed"); err != nil {
		o.logger.Error("compensating cancel failed", zap.String("booking_id", ref.ID), zap.Error(err))
		return false
	}
	o.logger.Info("booking cancelled after payment failure", zap.String("booking_id", ref.ID))
	return true
}

// Validate runs the local checks; it returns nil when the submission may proceed.
func Validate(customer Customer, selection domain.TourSelection) *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(customer.Name) == "" {
		fields["name"] = "required"
	}
	email := strings.TrimSpace(customer.Email)
	switch {
	case email == "":
		fields["email"] = "required"
	case !emailPattern.MatchString(email):
		fields["email"] = "invalid"
	}
	if !customer.AcceptedTerms {
		fields["terms"] = "must be accepted"
	}
	if strings.TrimSpace(selection.TourID) == "" {
		fields["tour"] = "required"
	}
	if strings.TrimSpace(selection.Date) == "" {
		fields["date"] = "required"
	}
	if selection.Guests.Adult < 1 {
		fields["guests"] = "at least one adult required"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func messageOr(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return GenericErrorMessage
	}
	return msg
}
