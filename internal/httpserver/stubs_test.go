package httpserver

import (
	"context"
	"io"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
	"tourbooking/internal/service/checkout"
	paymentsvc "tourbooking/internal/service/payment"
	staffsvc "tourbooking/internal/service/staff"
	toursvc "tourbooking/internal/service/tour"
)

type stubTourService struct {
	tour      *domain.Tour
	upsells   []domain.Upsell
	selection domain.TourSelection
	err       error
	quoteErr  error
}

func (s *stubTourService) List(_ context.Context) ([]domain.Tour, error) {
	if s.tour == nil {
		return nil, s.err
	}
	return []domain.Tour{*s.tour}, s.err
}

func (s *stubTourService) Get(_ context.Context, _ string) (*domain.Tour, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tour, nil
}

func (s *stubTourService) Upsells(_ context.Context, _ string) ([]domain.Upsell, error) {
	return s.upsells, nil
}

func (s *stubTourService) Quote(_ context.Context, _ string, _ toursvc.QuoteInput) (*domain.Tour, domain.TourSelection, error) {
	if s.quoteErr != nil {
		return nil, domain.TourSelection{}, s.quoteErr
	}
	return s.tour, s.selection, nil
}

type stubSlotService struct {
	slots  []domain.Slot
	gotID  string
	gotDay string
}

func (s *stubSlotService) ListAvailable(_ context.Context, tourID, date string) ([]domain.Slot, error) {
	s.gotID, s.gotDay = tourID, date
	return s.slots, nil
}

type stubSessionService struct {
	session   *domain.CheckoutSession
	err       error
	discarded []string
	lastCount *int
	toggled   *bool
}

func (s *stubSessionService) Start(_ context.Context, _ string) (*domain.CheckoutSession, error) {
	return s.session, s.err
}

func (s *stubSessionService) Get(_ context.Context, _ string) (*domain.CheckoutSession, error) {
	return s.session, s.err
}

func (s *stubSessionService) SetGuests(_ context.Context, _ string, g domain.GuestCounts) (*domain.CheckoutSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.session.Selection.Guests = g
	return s.session, nil
}

func (s *stubSessionService) SetSlot(_ context.Context, _, date, slotTime string) (*domain.CheckoutSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.session.Selection.Date, s.session.Selection.Time = date, slotTime
	return s.session, nil
}

func (s *stubSessionService) ToggleUpsell(_ context.Context, _, _ string, selected bool) (*domain.CheckoutSession, error) {
	s.toggled = &selected
	return s.session, s.err
}

func (s *stubSessionService) SetUpsellCount(_ context.Context, _, _ string, count int) (*domain.CheckoutSession, error) {
	s.lastCount = &count
	return s.session, s.err
}

func (s *stubSessionService) Discard(_ context.Context, id string) error {
	s.discarded = append(s.discarded, id)
	return nil
}

type stubCheckoutService struct {
	result *checkout.Result
	err    error
}

func (s *stubCheckoutService) SubmitBooking(_ context.Context, _ checkout.Customer, _ domain.TourSelection) (*checkout.Result, error) {
	return s.result, s.err
}

type stubBookingAPI struct {
	resp checkout.BookingResponse
	err  error
}

func (s *stubBookingAPI) CreateBooking(_ context.Context, _ checkout.BookingRequest) (checkout.BookingResponse, error) {
	return s.resp, s.err
}

type stubIntentAPI struct {
	resp checkout.IntentResponse
	err  error
}

func (s *stubIntentAPI) CreatePaymentIntent(_ context.Context, _ checkout.IntentRequest) (checkout.IntentResponse, error) {
	return s.resp, s.err
}

type stubPaymentService struct {
	webhookErr error
	payload    []byte
	signature  string
	returnRes  *paymentsvc.ReturnResult
	returnErr  error
}

func (s *stubPaymentService) HandleWebhook(_ context.Context, payload []byte, signature string) error {
	s.payload, s.signature = payload, signature
	return s.webhookErr
}

func (s *stubPaymentService) VerifyReturn(_ context.Context, _, _ string) (*paymentsvc.ReturnResult, error) {
	return s.returnRes, s.returnErr
}

type stubBookingService struct {
	booking  *domain.Booking
	bookings []domain.Booking
	filter   domain.BookingFilter
	reason   string
	err      error
}

func (s *stubBookingService) Get(_ context.Context, _ string) (*domain.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) GetByReference(_ context.Context, _ string) (*domain.Booking, error) {
	return s.booking, s.err
}

func (s *stubBookingService) List(_ context.Context, f domain.BookingFilter) ([]domain.Booking, error) {
	s.filter = f
	return s.bookings, s.err
}

func (s *stubBookingService) Cancel(_ context.Context, _, reason string) (*domain.Booking, error) {
	s.reason = reason
	if s.err != nil {
		return nil, s.err
	}
	b := *s.booking
	b.Status = domain.BookingCancelled
	return &b, nil
}

func (s *stubBookingService) Complete(_ context.Context, _ string) (*domain.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	b := *s.booking
	b.Status = domain.BookingCompleted
	return &b, nil
}

type stubStaffService struct {
	staff    *domain.Staff
	loginErr error
}

func (s *stubStaffService) Login(_ context.Context, _, _ string) (*staffsvc.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &staffsvc.LoginResult{Token: "good-token", Staff: s.staff}, nil
}

func (s *stubStaffService) Authenticate(_ context.Context, token string) (*domain.Staff, error) {
	if token != "good-token" {
		return nil, staffsvc.ErrInvalidToken
	}
	return s.staff, nil
}

func testTour() *domain.Tour {
	return &domain.Tour{
		ID:     "4b1f0c2e-0000-4000-8000-000000000001",
		Slug:   "sunset-cruise",
		Name:   "Sunset Cruise",
		Active: true,
		Pricing: domain.FlatPerPerson{
			RetailPrice: 150000,
			NetPrice:    120000,
			Currency:    "THB",
			MaxGuests:   10,
		},
	}
}

func defaultDeps() Deps {
	return Deps{
		TourSvc:     &stubTourService{tour: testTour()},
		SlotSvc:     &stubSlotService{},
		SessionSvc:  &stubSessionService{session: &domain.CheckoutSession{ID: "sess-1"}},
		CheckoutSvc: &stubCheckoutService{},
		BookingAPI:  &stubBookingAPI{},
		IntentAPI:   &stubIntentAPI{},
		PaymentSvc:  &stubPaymentService{},
		BookingSvc:  &stubBookingService{},
		StaffSvc:    &stubStaffService{staff: &domain.Staff{ID: "staff-1", Role: "agent"}},
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	router, err := buildRouter(zap.NewNop(), nil, deps, Options{})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}
