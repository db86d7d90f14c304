package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking/internal/domain"
	sessionrepo "tourbooking/internal/repository/session"
)

type stubCatalog struct {
	tour    *domain.Tour
	upsells []domain.Upsell
}

func (s *stubCatalog) Get(_ context.Context, ref string) (*domain.Tour, error) {
	if ref != s.tour.ID && ref != s.tour.Slug {
		return nil, domain.ErrNotFound
	}
	return s.tour, nil
}

func (s *stubCatalog) Upsells(_ context.Context, _ string) ([]domain.Upsell, error) {
	return s.upsells, nil
}

func newService() *Service {
	catalog := &stubCatalog{
		tour: &domain.Tour{
			ID:     "tour-1",
			Slug:   "sunset",
			Active: true,
			Pricing: domain.AdultChild{
				AdultRetailPrice: 2000, AdultNetPrice: 1500,
				ChildRetailPrice: 1000, ChildNetPrice: 700,
				Currency: "THB", MaxGuests: 5,
			},
		},
		upsells: []domain.Upsell{
			{ID: "u-lunch", Name: "Lunch", UnitPrice: 300, PricingType: domain.UpsellPerPerson},
			{ID: "u-photo", Name: "Photo pack", UnitPrice: 900, PricingType: domain.UpsellPerBooking},
		},
	}
	return New(sessionrepo.NewMemory(0), catalog)
}

func TestSessionLifecycle(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	sess, err := svc.Start(ctx, "sunset")
	require.NoError(t, err)
	assert.Equal(t, "tour-1", sess.TourID)
	assert.Equal(t, int64(2000), sess.Selection.TotalRetail)

	sess, err = svc.ToggleUpsell(ctx, sess.ID, "u-lunch", true)
	require.NoError(t, err)
	assert.Equal(t, int64(2000+300), sess.Selection.TotalRetail)

	sess, err = svc.SetGuests(ctx, sess.ID, domain.GuestCounts{Adult: 2, Child: 1, Infant: 1})
	require.NoError(t, err)
	require.Len(t, sess.Selection.Upsells, 1)
	assert.Equal(t, 4, sess.Selection.Upsells[0].Quantity, "per-person add-on follows party size")
	assert.Equal(t, int64(2*2000+1000+4*300), sess.Selection.TotalRetail)
	assert.Equal(t, int64(2*1500+700), sess.Selection.TotalNet)

	sess, err = svc.SetUpsellCount(ctx, sess.ID, "u-photo", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2*2000+1000+4*300+2*900), sess.Selection.TotalRetail)

	sess, err = svc.SetSlot(ctx, sess.ID, "2026-11-02", "09:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-11-02", sess.Selection.Date)

	stored, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Selection, stored.Selection)

	require.NoError(t, svc.Discard(ctx, sess.ID))
	_, err = svc.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionRejectsInvalidChanges(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	sess, err := svc.Start(ctx, "tour-1")
	require.NoError(t, err)

	_, err = svc.SetGuests(ctx, sess.ID, domain.GuestCounts{Adult: 4, Child: 2})
	assert.True(t, errors.Is(err, domain.ErrCapacityExceeded))

	_, err = svc.SetGuests(ctx, sess.ID, domain.GuestCounts{Adult: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SetSlot(ctx, sess.ID, "tomorrow", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.ToggleUpsell(ctx, sess.ID, "u-missing", true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	unchanged, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unchanged.Selection.Guests.Adult)

	_, err = svc.Start(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
