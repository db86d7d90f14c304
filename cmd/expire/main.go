// Command expire cancels bookings whose payment was never completed and
// releases their slot capacity. Intents are checked with the provider first:
// paid ones confirm their booking and open ones are cancelled. Run it
// periodically from a scheduler.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"tourbooking/internal/config"
	"tourbooking/internal/db"
	"tourbooking/internal/events"
	"tourbooking/internal/logging"
	"tourbooking/internal/payments"
	bookingrepo "tourbooking/internal/repository/booking"
	tourrepo "tourbooking/internal/repository/tour"
	bookingsvc "tourbooking/internal/service/booking"
	paymentsvc "tourbooking/internal/service/payment"
	toursvc "tourbooking/internal/service/tour"
)

func main() {
	cfg := config.FromEnv()
	ttl := flag.Duration("ttl", cfg.PendingBookingTTL, "age after which unpaid bookings are cancelled")
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("expire")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaBookingTopic, logger)
		defer kp.Close()
		publisher = kp
	}

	var provider payments.Provider
	if cfg.StripeSecretKey != "" {
		sp, err := payments.NewStripeProvider(payments.StripeProviderConfig{APIKey: cfg.StripeSecretKey, Logger: logger})
		if err != nil {
			logger.Fatal("init stripe", zap.Error(err))
		}
		provider = sp
	}

	tours := toursvc.New(tourrepo.NewPostgres(pool, logger))
	bookings := bookingsvc.New(bookingrepo.NewPostgres(pool, logger), tours, publisher, logger)
	paymentService := paymentsvc.New(bookings, provider, paymentsvc.Config{}, logger)

	expired, err := bookings.ExpireStale(ctx, *ttl, paymentService.SettleStale)
	if err != nil {
		logger.Fatal("expire stale bookings", zap.Int("cancelled", len(expired)), zap.Error(err))
	}
	logger.Info("expiry run finished", zap.Int("cancelled", len(expired)), zap.Duration("ttl", *ttl))
}
