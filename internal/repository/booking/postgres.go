package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tourbooking/internal/domain"
)

const uniqueViolation = "23505"

const bookingColumns = `
id::text, reference, status, tour_id::text, slot_id::text, booking_date::text, booking_time, guest_count,
customer_name, customer_email, customer_phone, customer_nationality, pickup_location, language,
selection, total_retail, total_net, currency, payment_intent_id, cancel_reason, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("booking_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, b domain.Booking) (*domain.Booking, error) {
	selection, err := json.Marshal(b.Selection)
	if err != nil {
		return nil, fmt.Errorf("encode selection: %w", err)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	slotID, err := reserveSlot(ctx, tx, b.TourID, b.BookingDate, b.BookingTime, b.GuestCount)
	if err != nil {
		r.logger.Info("slot reservation refused",
			zap.String("tour_id", b.TourID),
			zap.String("date", b.BookingDate),
			zap.String("time", b.BookingTime),
			zap.Int("guests", b.GuestCount),
			zap.Error(err),
		)
		return nil, err
	}

	const q = `
INSERT INTO bookings (
    reference, status, tour_id, slot_id, booking_date, booking_time, guest_count,
    customer_name, customer_email, customer_phone, customer_nationality, pickup_location, language,
    selection, total_retail, total_net, currency
)
VALUES ($1, $2, $3, $4::text::uuid, $5::text::date, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id::text
`
	var id string
	err = tx.QueryRow(ctx, q,
		b.Reference,
		string(domain.BookingPending),
		b.TourID,
		slotID,
		b.BookingDate,
		b.BookingTime,
		b.GuestCount,
		b.Customer.Name,
		b.Customer.Email,
		b.Customer.Phone,
		b.Customer.Nationality,
		b.Customer.PickupLocation,
		b.Language,
		selection,
		b.TotalRetail,
		b.TotalNet,
		b.Currency,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("insert booking", zap.String("reference", b.Reference), zap.Error(err))
		return nil, err
	}

	created, err := fetchBooking(ctx, tx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("booking created", zap.String("id", created.ID), zap.String("reference", created.Reference))
	return created, nil
}

// reserveSlot returns nil when the tour is not slot-managed.
func reserveSlot(ctx context.Context, tx pgx.Tx, tourID, date, slotTime string, guests int) (*string, error) {
	var managed bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM availability_slots WHERE tour_id = $1)`, tourID).Scan(&managed); err != nil {
		return nil, err
	}
	if !managed {
		return nil, nil
	}

	var (
		slotID    string
		remaining int
		enabled   bool
	)
	err := tx.QueryRow(ctx, `
SELECT id::text, capacity - booked, enabled
FROM availability_slots
WHERE tour_id = $1 AND slot_date = $2::text::date AND slot_time = $3
FOR UPDATE
`, tourID, date, slotTime).Scan(&slotID, &remaining, &enabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSlotUnavailable
		}
		return nil, err
	}
	if !enabled || remaining < guests {
		return nil, domain.ErrSlotUnavailable
	}
	if _, err := tx.Exec(ctx, `UPDATE availability_slots SET booked = booked + $1 WHERE id = $2`, guests, slotID); err != nil {
		return nil, err
	}
	return &slotID, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return fetchBooking(ctx, r.pool, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *postgresRepo) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return fetchBooking(ctx, r.pool, `SELECT `+bookingColumns+` FROM bookings WHERE reference = $1`, reference)
}

func (r *postgresRepo) GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Booking, error) {
	return fetchBooking(ctx, r.pool, `SELECT `+bookingColumns+` FROM bookings WHERE payment_intent_id = $1`, intentID)
}

func (r *postgresRepo) List(ctx context.Context, filter domain.BookingFilter) ([]domain.Booking, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT ` + bookingColumns + `
FROM bookings
WHERE ($1::text = '' OR status = $1::text)
  AND ($2::text = '' OR tour_id::text = $2::text)
ORDER BY created_at DESC
LIMIT $3`
	return r.listBookings(ctx, q, string(filter.Status), filter.TourID, limit)
}

func (r *postgresRepo) ListStale(ctx context.Context, createdBefore time.Time) ([]domain.Booking, error) {
	q := `SELECT ` + bookingColumns + `
FROM bookings
WHERE status IN ('pending', 'pending_payment') AND created_at < $1
ORDER BY created_at ASC`
	return r.listBookings(ctx, q, createdBefore)
}

func (r *postgresRepo) listBookings(ctx context.Context, q string, args ...any) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("list bookings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	result := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) AttachPaymentIntent(ctx context.Context, id, intentID string) (*domain.Booking, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status domain.BookingStatus
	if err := tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !status.IsPayable() {
		return nil, fmt.Errorf("%w: %s booking cannot take a payment", domain.ErrInvalidTransition, status)
	}
	if _, err := tx.Exec(ctx, `
UPDATE bookings
SET payment_intent_id = $1, status = $2, updated_at = now()
WHERE id = $3
`, intentID, string(domain.BookingPendingPayment), id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	updated, err := fetchBooking(ctx, tx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return updated, tx.Commit(ctx)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, to domain.BookingStatus, reason string) (*domain.Booking, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var (
		from   domain.BookingStatus
		slotID *string
		guests int
	)
	err = tx.QueryRow(ctx, `SELECT status, slot_id::text, guest_count FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&from, &slotID, &guests)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !domain.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}

	if _, err := tx.Exec(ctx, `
UPDATE bookings
SET status = $1, cancel_reason = CASE WHEN $2::text = '' THEN cancel_reason ELSE $2::text END, updated_at = now()
WHERE id = $3
`, string(to), reason, id); err != nil {
		return nil, err
	}
	if to == domain.BookingCancelled && slotID != nil {
		if _, err := tx.Exec(ctx, `
UPDATE availability_slots
SET booked = GREATEST(booked - $1, 0)
WHERE id = $2
`, guests, *slotID); err != nil {
			return nil, err
		}
	}

	updated, err := fetchBooking(ctx, tx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Info("booking status changed",
		zap.String("id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return updated, nil
}

func (r *postgresRepo) PaymentEventSeen(ctx context.Context, eventID string) (bool, error) {
	var seen bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payment_events WHERE event_id = $1)`, eventID).Scan(&seen)
	return seen, err
}

func (r *postgresRepo) RecordPaymentEvent(ctx context.Context, eventID, eventType, intentID string) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
INSERT INTO payment_events (event_id, event_type, payment_intent_id)
VALUES ($1, $2, $3)
ON CONFLICT (event_id) DO NOTHING
`, eventID, eventType, intentID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func fetchBooking(ctx context.Context, q querier, sql string, args ...any) (*domain.Booking, error) {
	b, err := scanBooking(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		b         domain.Booking
		selection []byte
	)
	if err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.Status,
		&b.TourID,
		&b.SlotID,
		&b.BookingDate,
		&b.BookingTime,
		&b.GuestCount,
		&b.Customer.Name,
		&b.Customer.Email,
		&b.Customer.Phone,
		&b.Customer.Nationality,
		&b.Customer.PickupLocation,
		&b.Language,
		&selection,
		&b.TotalRetail,
		&b.TotalNet,
		&b.Currency,
		&b.PaymentIntentID,
		&b.CancelReason,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(selection, &b.Selection); err != nil {
		return nil, fmt.Errorf("decode selection for booking %s: %w", b.ID, err)
	}
	return &b, nil
}
