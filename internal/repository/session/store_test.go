package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourbooking/internal/domain"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()

	_, err := store.Get(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)

	sess := domain.CheckoutSession{
		ID:     id,
		TourID: "tour-1",
		Selection: domain.TourSelection{
			TourID:      "tour-1",
			Guests:      domain.GuestCounts{Adult: 2},
			TotalRetail: 2000,
			Currency:    "THB",
		},
	}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Selection.Guests.Adult)
	assert.Equal(t, int64(2000), got.Selection.TotalRetail)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory(time.Hour))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemory(time.Minute).(*memoryStore)
	now := time.Now()
	store.now = func() time.Time { return now }
	require.NoError(t, store.Save(context.Background(), domain.CheckoutSession{ID: "s-1"}))

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err := store.Get(context.Background(), "s-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	exerciseStore(t, NewRedis(client, time.Minute))
}
