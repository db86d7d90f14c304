package slot

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("slot_repo")}
}

func (r *postgresRepo) ListByTour(ctx context.Context, tourID, date string) ([]domain.Slot, error) {
	const q = `
SELECT id::text, tour_id::text, slot_date::text, slot_time, capacity, booked, enabled
FROM availability_slots
WHERE tour_id = $1 AND ($2::text = '' OR slot_date = NULLIF($2::text, '')::date)
ORDER BY slot_date ASC, slot_time ASC
`
	rows, err := r.pool.Query(ctx, q, tourID, date)
	if err != nil {
		r.logger.Error("list slots", zap.String("tour_id", tourID), zap.String("date", date), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Slot{}
	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.ID, &s.TourID, &s.Date, &s.Time, &s.Capacity, &s.Booked, &s.Enabled); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("list slots", zap.String("tour_id", tourID), zap.Int("count", len(result)))
	return result, nil
}

// Upsert keeps the booked counter of an existing slot; only capacity and the
// enabled flag are replaced.
func (r *postgresRepo) Upsert(ctx context.Context, slot domain.Slot) (*domain.Slot, error) {
	const q = `
INSERT INTO availability_slots (tour_id, slot_date, slot_time, capacity, enabled)
VALUES ($1, $2::text::date, $3, $4, $5)
ON CONFLICT (tour_id, slot_date, slot_time) DO UPDATE SET
    capacity = GREATEST(EXCLUDED.capacity, availability_slots.booked),
    enabled = EXCLUDED.enabled
RETURNING id::text, tour_id::text, slot_date::text, slot_time, capacity, booked, enabled
`
	var s domain.Slot
	err := r.pool.QueryRow(ctx, q, slot.TourID, slot.Date, slot.Time, slot.Capacity, slot.Enabled).
		Scan(&s.ID, &s.TourID, &s.Date, &s.Time, &s.Capacity, &s.Booked, &s.Enabled)
	if err != nil {
		r.logger.Error("upsert slot", zap.String("tour_id", slot.TourID), zap.String("date", slot.Date), zap.Error(err))
		return nil, err
	}
	return &s, nil
}
