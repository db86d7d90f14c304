package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
	"tourbooking/internal/service/checkout"
	paymentsvc "tourbooking/internal/service/payment"
	staffsvc "tourbooking/internal/service/staff"
	toursvc "tourbooking/internal/service/tour"
)

type tourService interface {
	List(ctx context.Context) ([]domain.Tour, error)
	Get(ctx context.Context, ref string) (*domain.Tour, error)
	Upsells(ctx context.Context, tourID string) ([]domain.Upsell, error)
	Quote(ctx context.Context, ref string, in toursvc.QuoteInput) (*domain.Tour, domain.TourSelection, error)
}

type slotService interface {
	ListAvailable(ctx context.Context, tourID, date string) ([]domain.Slot, error)
}

type sessionService interface {
	Start(ctx context.Context, tourRef string) (*domain.CheckoutSession, error)
	Get(ctx context.Context, id string) (*domain.CheckoutSession, error)
	SetGuests(ctx context.Context, id string, guests domain.GuestCounts) (*domain.CheckoutSession, error)
	SetSlot(ctx context.Context, id, date, slotTime string) (*domain.CheckoutSession, error)
	ToggleUpsell(ctx context.Context, id, upsellID string, selected bool) (*domain.CheckoutSession, error)
	SetUpsellCount(ctx context.Context, id, upsellID string, count int) (*domain.CheckoutSession, error)
	Discard(ctx context.Context, id string) error
}

type checkoutService interface {
	SubmitBooking(ctx context.Context, customer checkout.Customer, selection domain.TourSelection) (*checkout.Result, error)
}

type paymentService interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	VerifyReturn(ctx context.Context, redirectStatus, intentID string) (*paymentsvc.ReturnResult, error)
}

type bookingService interface {
	Get(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error)
	Cancel(ctx context.Context, id, reason string) (*domain.Booking, error)
	Complete(ctx context.Context, id string) (*domain.Booking, error)
}

type staffService interface {
	Login(ctx context.Context, email, password string) (*staffsvc.LoginResult, error)
	Authenticate(ctx context.Context, token string) (*domain.Staff, error)
}

// Deps groups the services the router dispatches to.
type Deps struct {
	TourSvc     tourService
	SlotSvc     slotService
	SessionSvc  sessionService
	CheckoutSvc checkoutService
	// BookingAPI and IntentAPI back the collaborator endpoints used by
	// storefronts that drive checkout themselves.
	BookingAPI checkout.BookingCreator
	IntentAPI  checkout.IntentCreator
	PaymentSvc paymentService
	BookingSvc bookingService
	StaffSvc   staffService
}

func (d Deps) validate() error {
	switch {
	case d.TourSvc == nil:
		return errors.New("tour service is required")
	case d.SlotSvc == nil:
		return errors.New("slot service is required")
	case d.SessionSvc == nil:
		return errors.New("session service is required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service is required")
	case d.BookingAPI == nil || d.IntentAPI == nil:
		return errors.New("booking and intent endpoints are required")
	case d.PaymentSvc == nil:
		return errors.New("payment service is required")
	case d.BookingSvc == nil:
		return errors.New("booking service is required")
	case d.StaffSvc == nil:
		return errors.New("staff service is required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(requestLogger(logger), recovery(logger))
	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}
	api := router.Group("/api")

	api.GET("/tours", h.listTours)
	api.GET("/tours/:tour", h.getTour)
	api.GET("/tours/:tour/slots", h.listSlots)
	api.POST("/tours/:tour/quote", h.quote)

	api.POST("/sessions", h.startSession)
	api.GET("/sessions/:id", h.getSession)
	api.PUT("/sessions/:id/guests", h.setGuests)
	api.PUT("/sessions/:id/slot", h.setSlot)
	api.PUT("/sessions/:id/upsells/:upsellId", h.setUpsell)
	api.DELETE("/sessions/:id", h.discardSession)
	api.POST("/sessions/:id/submit", h.submitSession)

	api.POST("/bookings", h.createBooking)
	api.POST("/payments/intent", h.createPaymentIntent)
	api.GET("/checkout/return", h.checkoutReturn)
	api.POST("/webhooks/stripe", h.stripeWebhook)
	api.GET("/bookings/:reference/voucher", h.downloadVoucher)

	api.POST("/admin/login", h.staffLogin)
	admin := api.Group("/admin", staffAuth(deps.StaffSvc))
	admin.GET("/bookings", h.adminListBookings)
	admin.GET("/bookings/:id", h.adminGetBooking)
	admin.POST("/bookings/:id/cancel", h.adminCancelBooking)
	admin.POST("/bookings/:id/complete", h.adminCompleteBooking)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}
