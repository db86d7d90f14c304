package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tourbooking/internal/domain"
	"tourbooking/internal/payments"
)

var (
	// ErrAmountMismatch is returned when the requested amount or currency differs from the booking.
	ErrAmountMismatch = errors.New("payment amount does not match booking")
	// ErrInvalidSignature is returned for webhook payloads that fail verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

type bookingStore interface {
	Get(ctx context.Context, id string) (*domain.Booking, error)
	GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Booking, error)
	MarkPendingPayment(ctx context.Context, id, intentID string) (*domain.Booking, error)
	ConfirmByIntent(ctx context.Context, intentID string) (*domain.Booking, bool, error)
	PaymentEventSeen(ctx context.Context, eventID string) (bool, error)
	RecordPaymentEvent(ctx context.Context, eventID, eventType, intentID string) (bool, error)
}

// Config holds the provider-facing settings of the payment service.
type Config struct {
	PublishableKey string
	WebhookSecret  string
	Methods        payments.PaymentMethods
}

type Service struct {
	bookings bookingStore
	provider payments.Provider
	cfg      Config
	logger   *zap.Logger
}

func New(bookings bookingStore, provider payments.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{bookings: bookings, provider: provider, cfg: cfg, logger: logger.Named("payment")}
}

// IntentInput is the payment-intent request for an existing booking.
type IntentInput struct {
	BookingID        string
	Amount           int64
	Currency         string
	CustomerEmail    string
	CustomerName     string
	TourName         string
	BookingReference string
}

// IntentResult carries what the payment widget needs.
type IntentResult struct {
	IntentID       string
	ClientSecret   string
	PublishableKey string
	PaymentMethods payments.PaymentMethods
}

// CreateIntent creates (or, through the idempotency key, re-fetches) the
// payment intent of a payable booking and moves it to pending_payment.
func (s *Service) CreateIntent(ctx context.Context, in IntentInput) (*IntentResult, error) {
	if s.provider == nil {
		return nil, payments.ErrProviderUnavailable
	}
	b, err := s.bookings.Get(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if !b.Status.IsPayable() {
		return nil, fmt.Errorf("%w: booking is %s", domain.ErrInvalidTransition, b.Status)
	}
	if in.Amount != b.TotalRetail || !strings.EqualFold(in.Currency, b.Currency) {
		s.logger.Warn("intent amount mismatch",
			zap.String("booking_id", b.ID),
			zap.Int64("requested", in.Amount),
			zap.Int64("expected", b.TotalRetail),
			zap.String("currency", in.Currency),
		)
		return nil, ErrAmountMismatch
	}

	methods := s.cfg.Methods.ForCurrency(b.Currency)
	description := b.Reference
	if in.TourName != "" {
		description = fmt.Sprintf("%s (%s)", in.TourName, b.Reference)
	}
	intent, err := s.provider.CreatePaymentIntent(ctx, payments.IntentRequest{
		Amount:       b.TotalRetail,
		Currency:     b.Currency,
		Description:  description,
		ReceiptEmail: b.Customer.Email,
		Metadata: map[string]string{
			"booking_id":        b.ID,
			"booking_reference": b.Reference,
			"customer_name":     b.Customer.Name,
		},
		IdempotencyKey: "booking-" + b.ID,
		Methods:        methods,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.bookings.MarkPendingPayment(ctx, b.ID, intent.ID); err != nil {
		if relErr := s.ReleaseIntent(ctx, intent.ID); relErr != nil {
			s.logger.Error("release unlinked intent", zap.String("booking_id", b.ID), zap.String("intent_id", intent.ID), zap.Error(relErr))
		}
		return nil, err
	}
	return &IntentResult{
		IntentID:       intent.ID,
		ClientSecret:   intent.ClientSecret,
		PublishableKey: s.cfg.PublishableKey,
		PaymentMethods: methods,
	}, nil
}

// HandleWebhook verifies and applies a provider notification. Replayed events
// are acknowledged without side effects.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := payments.ParseWebhook(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		s.logger.Warn("webhook rejected", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	log := s.logger.With(zap.String("event_id", event.ID), zap.String("event_type", event.Type), zap.String("payment_intent", event.IntentID))
	if event.IntentID == "" {
		log.Debug("webhook ignored")
		return nil
	}

	seen, err := s.bookings.PaymentEventSeen(ctx, event.ID)
	if err != nil {
		return err
	}
	if seen {
		log.Info("duplicate webhook delivery")
		return nil
	}

	switch event.Type {
	case payments.EventIntentSucceeded:
		if err := s.confirm(ctx, event.IntentID, event.Amount, event.Currency); err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				log.Warn("no booking for payment intent")
			case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, ErrAmountMismatch):
				log.Error("paid booking needs manual review", zap.Error(err))
			default:
				return err
			}
		}
	case payments.EventIntentFailed:
		log.Info("payment attempt failed; booking stays unconfirmed")
	case payments.EventIntentCanceled:
		log.Info("payment intent cancelled")
	default:
		log.Debug("webhook ignored")
	}

	if _, err := s.bookings.RecordPaymentEvent(ctx, event.ID, event.Type, event.IntentID); err != nil {
		return err
	}
	return nil
}

// ReturnResult is what the confirmation page shows after the redirect.
type ReturnResult struct {
	BookingID string
	Reference string
	Status    domain.BookingStatus
	Paid      bool
}

// VerifyReturn checks the intent named in the redirect with the provider
// instead of trusting redirect_status, confirming the booking when paid.
func (s *Service) VerifyReturn(ctx context.Context, redirectStatus, intentID string) (*ReturnResult, error) {
	intentID = strings.TrimSpace(intentID)
	if intentID == "" {
		return nil, fmt.Errorf("%w: payment_intent required", domain.ErrInvalidInput)
	}
	if s.provider == nil {
		return nil, payments.ErrProviderUnavailable
	}
	b, err := s.bookings.GetByPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}

	intent, err := s.provider.LookupPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent.Status == payments.StatusSucceeded {
		if err := s.confirm(ctx, intentID, intent.Amount, intent.Currency); err != nil && !errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		if b, err = s.bookings.GetByPaymentIntent(ctx, intentID); err != nil {
			return nil, err
		}
	} else if redirectStatus == "succeeded" {
		s.logger.Warn("redirect claims success but intent is not paid",
			zap.String("payment_intent", intentID),
			zap.String("intent_status", string(intent.Status)),
		)
	}

	return &ReturnResult{
		BookingID: b.ID,
		Reference: b.Reference,
		Status:    b.Status,
		Paid:      intent.Status == payments.StatusSucceeded,
	}, nil
}

func (s *Service) confirm(ctx context.Context, intentID string, amount int64, currency string) error {
	b, err := s.bookings.GetByPaymentIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if amount != b.TotalRetail || !strings.EqualFold(currency, b.Currency) {
		s.logger.Error("paid amount differs from booking total",
			zap.String("booking_id", b.ID),
			zap.Int64("paid", amount),
			zap.Int64("expected", b.TotalRetail),
		)
		return ErrAmountMismatch
	}
	_, changed, err := s.bookings.ConfirmByIntent(ctx, intentID)
	if err != nil {
		return err
	}
	if changed {
		s.logger.Info("booking confirmed", zap.String("booking_id", b.ID), zap.String("reference", b.Reference))
	}
	return nil
}

// ReleaseIntent cancels the provider intent of a booking that will not be
// paid. Intents the provider already finalised are left alone.
func (s *Service) ReleaseIntent(ctx context.Context, intentID string) error {
	if s.provider == nil || strings.TrimSpace(intentID) == "" {
		return nil
	}
	current, err := s.provider.LookupPaymentIntent(ctx, intentID)
	if err != nil {
		return err
	}
	switch current.Status {
	case payments.StatusSucceeded, payments.StatusCanceled:
		s.logger.Info("intent already final", zap.String("intent_id", intentID), zap.String("status", string(current.Status)))
		return nil
	}
	if _, err := s.provider.CancelPaymentIntent(ctx, intentID); err != nil {
		return fmt.Errorf("cancel intent %s: %w", intentID, err)
	}
	s.logger.Info("intent cancelled", zap.String("intent_id", intentID))
	return nil
}

// SettleStale reconciles the intent of a stale booking with the provider
// before the booking expires. Paid intents confirm the booking and intents
// still being processed keep it; anything else is cancelled at the provider
// so it can no longer be paid. It reports whether the booking may be cancelled.
func (s *Service) SettleStale(ctx context.Context, b domain.Booking) (bool, error) {
	if b.PaymentIntentID == nil || s.provider == nil {
		return true, nil
	}
	intentID := *b.PaymentIntentID
	log := s.logger.With(zap.String("booking_id", b.ID), zap.String("intent_id", intentID))

	current, err := s.provider.LookupPaymentIntent(ctx, intentID)
	if err != nil {
		return false, fmt.Errorf("lookup intent %s: %w", intentID, err)
	}
	switch current.Status {
	case payments.StatusSucceeded:
		if err := s.confirm(ctx, intentID, current.Amount, current.Currency); err != nil {
			return false, err
		}
		log.Info("stale booking was paid; confirmed")
		return false, nil
	case payments.StatusProcessing:
		log.Info("stale booking payment still processing")
		return false, nil
	case payments.StatusCanceled:
		return true, nil
	}
	if _, err := s.provider.CancelPaymentIntent(ctx, intentID); err != nil {
		return false, fmt.Errorf("cancel intent %s: %w", intentID, err)
	}
	log.Info("intent cancelled")
	return true, nil
}
