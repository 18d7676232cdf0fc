package broker

import (
	"context"
	"testing"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRestaurantBroker_PublishSubscribe(t *testing.T) {
	testRedis := testutil.SetupTestRedis(t)
	b := NewRedisRestaurantBroker(testRedis.Client)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := b.Subscribe(ctx)
	require.NoError(t, err)

	sent := RestaurantEvent{
		Type:         EventUpdated,
		RestaurantID: uuid.New(),
		OwnerID:      uuid.New(),
		Timestamp:    time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, b.Publish(ctx, sent))

	select {
	case got := <-events:
		assert.Equal(t, sent.Type, got.Type)
		assert.Equal(t, sent.RestaurantID, got.RestaurantID)
		assert.Equal(t, sent.OwnerID, got.OwnerID)
		assert.True(t, sent.Timestamp.Equal(got.Timestamp))
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestRedisRestaurantBroker_SubscriptionEndsWithContext(t *testing.T) {
	testRedis := testutil.SetupTestRedis(t)
	b := NewRedisRestaurantBroker(testRedis.Client)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := b.Subscribe(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), RestaurantEvent{Type: EventCreated}))
}
