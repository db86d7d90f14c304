package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("staff_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, s domain.Staff) (*domain.Staff, error) {
	const q = `
INSERT INTO staff_users (email, name, password_hash, role)
VALUES ($1, $2, $3, $4)
RETURNING id::text, email, name, password_hash, role, created_at
`
	return r.scanStaff(r.pool.QueryRow(ctx, q, strings.ToLower(strings.TrimSpace(s.Email)), s.Name, s.PasswordHash, s.Role))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	const q = `
SELECT id::text, email, name, password_hash, role, created_at
FROM staff_users
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.scanStaff(r.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	const q = `
SELECT id::text, email, name, password_hash, role, created_at
FROM staff_users
WHERE id::text = $1
LIMIT 1
`
	return r.scanStaff(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) scanStaff(row pgx.Row) (*domain.Staff, error) {
	var s domain.Staff
	err := row.Scan(&s.ID, &s.Email, &s.Name, &s.PasswordHash, &s.Role, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("scan staff", zap.Error(err))
		return nil, err
	}
	return &s, nil
}
