package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"tourbooking/internal/domain"
	"tourbooking/internal/events"
	bookingrepo "tourbooking/internal/repository/booking"
	toursvc "tourbooking/internal/service/tour"
)

const (
	referencePrefix   = "TB-"
	referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	referenceLength   = 8
	referenceAttempts = 3
	defaultLanguage   = "en"
	publishTimeout    = time.Second
)

type quoter interface {
	Quote(ctx context.Context, ref string, in toursvc.QuoteInput) (*domain.Tour, domain.TourSelection, error)
}

type Service struct {
	repo      bookingrepo.Repository
	tours     quoter
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
	reference func() (string, error)
}

func New(repo bookingrepo.Repository, tours quoter, publisher events.Publisher, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      repo,
		tours:     tours,
		publisher: publisher,
		logger:    logger.Named("booking"),
		now:       time.Now,
		reference: newReference,
	}
}

// CreateInput mirrors the booking request accepted from the storefront.
type CreateInput struct {
	TourID      string
	BookingDate string
	Customer    domain.CustomerInfo
	Language    string
	Selection   domain.TourSelection
}

// Create persists a pending booking. Totals are recomputed from the tour's
// pricing and the selection's guests and add-ons; client totals are ignored.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Booking, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	choices := make([]toursvc.UpsellChoice, 0, len(in.Selection.Upsells))
	for _, u := range in.Selection.Upsells {
		choices = append(choices, toursvc.UpsellChoice{ID: u.UpsellID, Quantity: u.Quantity})
	}
	tour, sel, err := s.tours.Quote(ctx, in.TourID, toursvc.QuoteInput{
		Date:    in.BookingDate,
		Time:    in.Selection.Time,
		Guests:  in.Selection.Guests,
		Upsells: choices,
	})
	if err != nil {
		return nil, err
	}
	if sel.TotalRetail <= 0 {
		return nil, fmt.Errorf("%w: tour %s has no price for this party", domain.ErrInvalidInput, tour.Slug)
	}

	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = defaultLanguage
	}
	b := domain.Booking{
		Status:      domain.BookingPending,
		Customer:    normaliseCustomer(in.Customer),
		TourID:      tour.ID,
		BookingDate: sel.Date,
		BookingTime: sel.Time,
		GuestCount:  sel.Guests.Total(),
		Language:    language,
		Selection:   sel,
		TotalRetail: sel.TotalRetail,
		TotalNet:    sel.TotalNet,
		Currency:    sel.Currency,
	}

	var created *domain.Booking
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		if b.Reference, err = s.reference(); err != nil {
			return nil, err
		}
		created, err = s.repo.Create(ctx, b)
		if !errors.Is(err, domain.ErrAlreadyExists) {
			break
		}
		s.logger.Warn("booking reference collision", zap.String("reference", b.Reference))
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return s.repo.GetByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
}

func (s *Service) GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Booking, error) {
	return s.repo.GetByPaymentIntent(ctx, intentID)
}

func (s *Service) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	return s.repo.List(ctx, filter)
}

// MarkPendingPayment links a payment intent to the booking.
func (s *Service) MarkPendingPayment(ctx context.Context, id, intentID string) (*domain.Booking, error) {
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.AttachPaymentIntent(ctx, id, intentID)
	if err != nil {
		return nil, err
	}
	if before.Status != updated.Status {
		s.publish(ctx, updated)
	}
	return updated, nil
}

// ConfirmByIntent confirms the booking paid through intentID. It reports false
// when the booking was already confirmed or completed.
func (s *Service) ConfirmByIntent(ctx context.Context, intentID string) (*domain.Booking, bool, error) {
	b, err := s.repo.GetByPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, false, err
	}
	if isSettled(b.Status) {
		return b, false, nil
	}
	updated, err := s.repo.UpdateStatus(ctx, b.ID, domain.BookingConfirmed, "")
	if errors.Is(err, domain.ErrInvalidTransition) {
		// redirect and webhook may confirm concurrently
		current, getErr := s.repo.GetByID(ctx, b.ID)
		if getErr == nil && isSettled(current.Status) {
			return current, false, nil
		}
	}
	if err != nil {
		return nil, false, err
	}
	s.publish(ctx, updated)
	return updated, true, nil
}

func isSettled(status domain.BookingStatus) bool {
	return status == domain.BookingConfirmed || status == domain.BookingCompleted
}

func (s *Service) Cancel(ctx context.Context, id, reason string) (*domain.Booking, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, domain.BookingCancelled, strings.TrimSpace(reason))
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated)
	return updated, nil
}

func (s *Service) Complete(ctx context.Context, id string) (*domain.Booking, error) {
	updated, err := s.repo.UpdateStatus(ctx, id, domain.BookingCompleted, "")
	if err != nil {
		return nil, err
	}
	s.publish(ctx, updated)
	return updated, nil
}

// ExpiryGate settles the payment side of a stale booking before expiry. It
// returns false when the booking must not be cancelled.
type ExpiryGate func(ctx context.Context, b domain.Booking) (bool, error)

// ExpireStale cancels unpaid bookings older than ttl and returns the bookings
// it cancelled. A nil gate cancels every stale booking.
func (s *Service) ExpireStale(ctx context.Context, ttl time.Duration, gate ExpiryGate) ([]domain.Booking, error) {
	stale, err := s.repo.ListStale(ctx, s.now().Add(-ttl))
	if err != nil {
		return nil, err
	}
	cancelled := make([]domain.Booking, 0, len(stale))
	kept := 0
	for _, b := range stale {
		if gate != nil {
			ok, err := gate(ctx, b)
			if err != nil {
				s.logger.Warn("settle stale booking", zap.String("booking_id", b.ID), zap.Error(err))
			}
			if err != nil || !ok {
				kept++
				continue
			}
		}
		updated, err := s.Cancel(ctx, b.ID, "payment not completed in time")
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTransition) {
				continue
			}
			return cancelled, fmt.Errorf("expire booking %s: %w", b.Reference, err)
		}
		cancelled = append(cancelled, *updated)
	}
	s.logger.Info("stale bookings expired",
		zap.Int("found", len(stale)),
		zap.Int("cancelled", len(cancelled)),
		zap.Int("kept", kept),
	)
	return cancelled, nil
}

func (s *Service) PaymentEventSeen(ctx context.Context, eventID string) (bool, error) {
	return s.repo.PaymentEventSeen(ctx, eventID)
}

func (s *Service) RecordPaymentEvent(ctx context.Context, eventID, eventType, intentID string) (bool, error) {
	return s.repo.RecordPaymentEvent(ctx, eventID, eventType, intentID)
}

// publish never fails the caller; the booking row is the source of truth.
func (s *Service) publish(ctx context.Context, b *domain.Booking) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, events.FromBooking(b, s.now())); err != nil {
		s.logger.Error("publish booking event",
			zap.String("booking_id", b.ID),
			zap.String("status", string(b.Status)),
			zap.Error(err),
		)
	}
}

func validateCreate(in CreateInput) error {
	var problems []string
	if strings.TrimSpace(in.TourID) == "" {
		problems = append(problems, "tourId required")
	}
	if strings.TrimSpace(in.BookingDate) == "" {
		problems = append(problems, "bookingDate required")
	}
	if strings.TrimSpace(in.Customer.Name) == "" {
		problems = append(problems, "customerName required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Customer.Email)); err != nil {
		problems = append(problems, "customerEmail invalid")
	}
	if in.Selection.Guests.Adult < 1 {
		problems = append(problems, "at least one adult required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, ", "))
	}
	return nil
}

func normaliseCustomer(c domain.CustomerInfo) domain.CustomerInfo {
	return domain.CustomerInfo{
		Name:           strings.TrimSpace(c.Name),
		Email:          strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:          strings.TrimSpace(c.Phone),
		Nationality:    strings.TrimSpace(c.Nationality),
		PickupLocation: strings.TrimSpace(c.PickupLocation),
	}
}

func newReference() (string, error) {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reference: %w", err)
	}
	out := make([]byte, referenceLength)
	for i, b := range buf {
		out[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return referencePrefix + string(out), nil
}
