package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking/internal/domain"
	staffsvc "tourbooking/internal/service/staff"
)

type memTours struct {
	tours   []domain.Tour
	upsells []domain.Upsell
}

func (m *memTours) Upsert(_ context.Context, t domain.Tour) (*domain.Tour, error) {
	t.ID = "id-" + t.Slug
	m.tours = append(m.tours, t)
	return &t, nil
}

func (m *memTours) UpsertUpsell(_ context.Context, u domain.Upsell) (*domain.Upsell, error) {
	m.upsells = append(m.upsells, u)
	return &u, nil
}

type memSlots struct{ slots []domain.Slot }

func (m *memSlots) Upsert(_ context.Context, s domain.Slot) (*domain.Slot, error) {
	m.slots = append(m.slots, s)
	return &s, nil
}

type memStaff struct{ calls int }

func (m *memStaff) Register(_ context.Context, in staffsvc.RegisterInput) (*domain.Staff, error) {
	m.calls++
	if m.calls > 1 {
		return nil, domain.ErrAlreadyExists
	}
	return &domain.Staff{ID: "s1", Email: in.Email, Role: in.Role}, nil
}

func TestApply(t *testing.T) {
	tours, slots, staff := &memTours{}, &memSlots{}, &memStaff{}
	w := Writers{Tours: tours, Slots: slots, Staff: staff}
	opts := Options{
		Start:         time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Days:          2,
		StaffEmail:    "ops@example.com",
		StaffPassword: "harbour42",
	}

	require.NoError(t, Apply(context.Background(), w, opts, nil))
	require.Len(t, tours.tours, 3)
	for _, tour := range tours.tours {
		assert.NoError(t, domain.ValidatePricing(tour.Pricing), tour.Slug)
	}
	assert.Len(t, tours.upsells, 3)
	for _, u := range tours.upsells {
		assert.NotEmpty(t, u.TourID)
	}
	// 1 + 2 + 3 daily times over 2 days.
	assert.Len(t, slots.slots, 12)
	assert.Equal(t, "2026-12-01", slots.slots[0].Date)

	// A second run tolerates the existing staff account.
	require.NoError(t, Apply(context.Background(), w, opts, nil))
	assert.Equal(t, 2, staff.calls)
}
