package tour

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
)

const tourColumns = `id::text, slug, name, description, pricing, active, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("tour_repo")}
}

func (r *postgresRepo) List(ctx context.Context, activeOnly bool) ([]domain.Tour, error) {
	q := `SELECT ` + tourColumns + ` FROM tours`
	if activeOnly {
		q += ` WHERE active`
	}
	q += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("list tours", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list tours rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("list tours", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	return r.getOne(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id)
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tour, error) {
	return r.getOne(ctx, `SELECT `+tourColumns+` FROM tours WHERE slug = $1`, slug)
}

func (r *postgresRepo) getOne(ctx context.Context, q string, key string) (*domain.Tour, error) {
	t, err := scanTour(r.pool.QueryRow(ctx, q, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("tour not found", zap.String("key", key))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get tour", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, tour domain.Tour) (*domain.Tour, error) {
	pricing, err := domain.MarshalPricing(tour.Pricing)
	if err != nil {
		return nil, err
	}
	const q = `
INSERT INTO tours (id, slug, name, description, pricing, active)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    pricing = EXCLUDED.pricing,
    active = EXCLUDED.active
RETURNING id::text, created_at
`
	res := tour
	if err := r.pool.QueryRow(ctx, q, tour.ID, tour.Slug, tour.Name, tour.Description, pricing, tour.Active).Scan(&res.ID, &res.CreatedAt); err != nil {
		r.logger.Error("upsert tour", zap.String("slug", tour.Slug), zap.Error(err))
		return nil, err
	}
	if tour.ID != "" && res.ID != tour.ID {
		return nil, fmt.Errorf("tour repo: id mismatch for slug=%s existing_id=%s import_id=%s", tour.Slug, res.ID, tour.ID)
	}
	r.logger.Debug("upserted tour", zap.String("slug", res.Slug), zap.String("id", res.ID))
	return &res, nil
}

func (r *postgresRepo) ListUpsells(ctx context.Context, tourID string, activeOnly bool) ([]domain.Upsell, error) {
	q := `
SELECT id::text, tour_id::text, name, description, unit_price, pricing_type, active, created_at
FROM tour_upsells
WHERE tour_id = $1`
	if activeOnly {
		q += ` AND active`
	}
	q += ` ORDER BY created_at ASC, name ASC`

	rows, err := r.pool.Query(ctx, q, tourID)
	if err != nil {
		r.logger.Error("list upsells", zap.String("tour_id", tourID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Upsell{}
	for rows.Next() {
		var u domain.Upsell
		if err := rows.Scan(&u.ID, &u.TourID, &u.Name, &u.Description, &u.UnitPrice, &u.PricingType, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *postgresRepo) UpsertUpsell(ctx context.Context, upsell domain.Upsell) (*domain.Upsell, error) {
	const q = `
INSERT INTO tour_upsells (tour_id, name, description, unit_price, pricing_type, active)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (tour_id, name) DO UPDATE SET
    description = EXCLUDED.description,
    unit_price = EXCLUDED.unit_price,
    pricing_type = EXCLUDED.pricing_type,
    active = EXCLUDED.active
RETURNING id::text, created_at
`
	res := upsell
	if err := r.pool.QueryRow(ctx, q, upsell.TourID, upsell.Name, upsell.Description, upsell.UnitPrice, string(upsell.PricingType), upsell.Active).Scan(&res.ID, &res.CreatedAt); err != nil {
		r.logger.Error("upsert upsell", zap.String("tour_id", upsell.TourID), zap.String("name", upsell.Name), zap.Error(err))
		return nil, err
	}
	return &res, nil
}

func scanTour(row pgx.Row) (*domain.Tour, error) {
	var (
		t       domain.Tour
		pricing []byte
	)
	if err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Description, &pricing, &t.Active, &t.CreatedAt); err != nil {
		return nil, err
	}
	cfg, err := domain.UnmarshalPricing(pricing)
	if err != nil {
		return nil, fmt.Errorf("tour %s: %w", t.Slug, err)
	}
	t.Pricing = cfg
	return &t, nil
}
