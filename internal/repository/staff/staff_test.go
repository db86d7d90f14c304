package staff

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"tourbooking/internal/domain"
	"tourbooking/internal/migrate"
)

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, nil); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE staff_users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, domain.Staff{Email: "Ops@Example.com", Name: "Ops", PasswordHash: "hash", Role: "admin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Email != "ops@example.com" {
		t.Fatalf("email not normalised: %s", created.Email)
	}

	byEmail, err := repo.GetByEmail(ctx, "OPS@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != created.ID || byEmail.PasswordHash != "hash" {
		t.Fatalf("unexpected staff %+v", byEmail)
	}
	if _, err := repo.GetByID(ctx, created.ID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if _, err := repo.Create(ctx, domain.Staff{Email: "ops@example.com", PasswordHash: "x", Role: "agent"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
