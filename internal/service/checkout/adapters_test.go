package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking/internal/domain"
	bookingsvc "tourbooking/internal/service/booking"
	paymentsvc "tourbooking/internal/service/payment"
)

type stubBookingService struct {
	err      error
	got      bookingsvc.CreateInput
	cancelID string
}

func (s *stubBookingService) Create(_ context.Context, in bookingsvc.CreateInput) (*domain.Booking, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Booking{ID: "b-9", Reference: "TB-ZZZZ2222", TourID: in.TourID}, nil
}

func (s *stubBookingService) Cancel(_ context.Context, id, _ string) (*domain.Booking, error) {
	s.cancelID = id
	return &domain.Booking{ID: id, Status: domain.BookingCancelled}, nil
}

type stubTours struct{}

func (stubTours) Get(_ context.Context, ref string) (*domain.Tour, error) {
	return &domain.Tour{ID: ref, Name: "Sunset Cruise"}, nil
}

type stubIntentService struct{ err error }

func (s stubIntentService) CreateIntent(_ context.Context, in paymentsvc.IntentInput) (*paymentsvc.IntentResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &paymentsvc.IntentResult{IntentID: "pi_1", ClientSecret: "pi_1_secret", PublishableKey: "pk"}, nil
}

func TestLocalBookings(t *testing.T) {
	svc := &stubBookingService{}
	l := LocalBookings{Bookings: svc, Tours: stubTours{}}

	resp, err := l.CreateBooking(context.Background(), BookingRequest{
		TourID:        "tour-1",
		BookingDate:   "2026-12-01",
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Selection:     validSelection(),
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "Sunset Cruise", resp.Booking.TourName)
	assert.Equal(t, "ana@example.com", svc.got.Customer.Email)

	require.NoError(t, l.CancelBooking(context.Background(), "b-9", "x"))
	assert.Equal(t, "b-9", svc.cancelID)
}

func TestLocalBookingsMapsDomainErrors(t *testing.T) {
	l := LocalBookings{Bookings: &stubBookingService{err: fmt.Errorf("reserve: %w", domain.ErrSlotUnavailable)}}
	resp, err := l.CreateBooking(context.Background(), BookingRequest{TourID: "tour-1"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Tour unavailable")

	l = LocalBookings{Bookings: &stubBookingService{err: fmt.Errorf("pool closed")}}
	_, err = l.CreateBooking(context.Background(), BookingRequest{TourID: "tour-1"})
	assert.Error(t, err)
}

func TestLocalPayments(t *testing.T) {
	resp, err := LocalPayments{Payments: stubIntentService{}}.CreatePaymentIntent(context.Background(), IntentRequest{BookingID: "b-1"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "pi_1_secret", resp.ClientSecret)

	resp, err = LocalPayments{Payments: stubIntentService{err: paymentsvc.ErrAmountMismatch}}.CreatePaymentIntent(context.Background(), IntentRequest{BookingID: "b-1"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}
