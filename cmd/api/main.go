package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tourbooking/internal/auth"
	"tourbooking/internal/availability"
	"tourbooking/internal/config"
	"tourbooking/internal/db"
	"tourbooking/internal/events"
	"tourbooking/internal/httpserver"
	"tourbooking/internal/logging"
	"tourbooking/internal/payments"
	bookingrepo "tourbooking/internal/repository/booking"
	sessionrepo "tourbooking/internal/repository/session"
	slotrepo "tourbooking/internal/repository/slot"
	staffrepo "tourbooking/internal/repository/staff"
	tourrepo "tourbooking/internal/repository/tour"
	bookingsvc "tourbooking/internal/service/booking"
	"tourbooking/internal/service/checkout"
	paymentsvc "tourbooking/internal/service/payment"
	sessionsvc "tourbooking/internal/service/session"
	staffsvc "tourbooking/internal/service/staff"
	toursvc "tourbooking/internal/service/tour"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	gin.SetMode(gin.ReleaseMode)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	var sessions sessionrepo.Store
	if cfg.RedisAddr != "" {
		rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			logger.Fatal("connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		sessions = sessionrepo.NewRedis(rdb, cfg.SessionTTL)
	} else {
		logger.Warn("REDIS_ADDR not set, checkout sessions kept in memory")
		sessions = sessionrepo.NewMemory(cfg.SessionTTL)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaBookingTopic, logger)
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Warn("close kafka publisher", zap.Error(err))
			}
		}()
		publisher = kp
	}

	var provider payments.Provider
	if cfg.StripeSecretKey != "" {
		sp, err := payments.NewStripeProvider(payments.StripeProviderConfig{APIKey: cfg.StripeSecretKey, Logger: logger})
		if err != nil {
			logger.Fatal("init stripe", zap.Error(err))
		}
		provider = sp
	} else {
		logger.Warn("STRIPE_SECRET_KEY not set, payment intents disabled")
	}

	tourService := toursvc.New(tourrepo.NewPostgres(dbpool, logger))
	bookingService := bookingsvc.New(bookingrepo.NewPostgres(dbpool, logger), tourService, publisher, logger)
	paymentService := paymentsvc.New(bookingService, provider, paymentsvc.Config{
		PublishableKey: cfg.StripePublishableKey,
		WebhookSecret:  cfg.StripeWebhookSecret,
		Methods:        payments.ParseMethods(cfg.PaymentMethods),
	}, logger)

	localBookings := checkout.LocalBookings{Bookings: bookingService, Tours: tourService}
	localPayments := checkout.LocalPayments{Payments: paymentService}
	orchestrator := checkout.New(localBookings, localPayments, localBookings, checkout.Options{
		Compensate: cfg.CheckoutCompensate,
		ReturnURL:  cfg.PublicBaseURL + "/checkout/return",
	}, logger)

	staffService := staffsvc.New(staffrepo.NewPostgres(dbpool, logger), auth.New(cfg.JWTSecret, cfg.JWTTTL))

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		TourSvc:     tourService,
		SlotSvc:     availability.NewService(slotrepo.NewPostgres(dbpool, logger)),
		SessionSvc:  sessionsvc.New(sessions, tourService),
		CheckoutSvc: orchestrator,
		BookingAPI:  localBookings,
		IntentAPI:   localPayments,
		PaymentSvc:  paymentService,
		BookingSvc:  bookingService,
		StaffSvc:    staffService,
	}, httpserver.Options{CORSOrigins: cfg.CORSOrigins})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
