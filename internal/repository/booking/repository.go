package booking

import (
	"context"
	"time"

	"tourbooking/internal/domain"
)

type Repository interface {
	// Create inserts a pending booking. When the tour has availability slots the
	// matching slot is locked and its booked counter raised in the same transaction.
	Create(ctx context.Context, b domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	// AttachPaymentIntent stores the intent id and moves a payable booking to pending_payment.
	AttachPaymentIntent(ctx context.Context, id, intentID string) (*domain.Booking, error)
	// UpdateStatus applies a validated transition; cancelling releases slot capacity.
	UpdateStatus(ctx context.Context, id string, to domain.BookingStatus, reason string) (*domain.Booking, error)
	ListStale(ctx context.Context, createdBefore time.Time) ([]domain.Booking, error)
	PaymentEventSeen(ctx context.Context, eventID string) (bool, error)
	// RecordPaymentEvent returns false when the event id was seen before.
	RecordPaymentEvent(ctx context.Context, eventID, eventType, intentID string) (bool, error)
}
