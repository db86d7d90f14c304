package main

import (
	"context"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"tourbooking/internal/auth"
	"tourbooking/internal/config"
	"tourbooking/internal/db"
	"tourbooking/internal/logging"
	slotrepo "tourbooking/internal/repository/slot"
	staffrepo "tourbooking/internal/repository/staff"
	tourrepo "tourbooking/internal/repository/tour"
	"tourbooking/internal/seed"
	staffsvc "tourbooking/internal/service/staff"
)

func main() {
	days := flag.Int("days", 14, "number of days of slots to create")
	staffEmail := flag.String("staff-email", "ops@example.com", "demo staff login, empty to skip")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.Named("seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	password := os.Getenv("SEED_STAFF_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	err = seed.Apply(ctx, seed.Writers{
		Tours: tourrepo.NewPostgres(pool, logger),
		Slots: slotrepo.NewPostgres(pool, logger),
		Staff: staffsvc.New(staffrepo.NewPostgres(pool, logger), auth.New(cfg.JWTSecret, cfg.JWTTTL)),
	}, seed.Options{
		Days:          *days,
		StaffEmail:    *staffEmail,
		StaffPassword: password,
	}, logger)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied")
}
