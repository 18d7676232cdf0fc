package broker

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel carries restaurant events between instances.
const Channel = "restaurants:events"

// RedisRestaurantBroker implements RestaurantBroker using pub/sub
type RedisRestaurantBroker struct {
	client *redis.Client

	mu      sync.Mutex
	pubsubs []*redis.PubSub
}

// NewRedisRestaurantBroker uses an existing client; Close does not close it.
func NewRedisRestaurantBroker(client *redis.Client) *RedisRestaurantBroker {
	return &RedisRestaurantBroker{client: client}
}

func (r *RedisRestaurantBroker) Publish(ctx context.Context, event RestaurantEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, Channel, data).Err()
}

// Subscribe returns a channel of events that closes when ctx is done or the
// broker is closed. The subscription is confirmed before returning.
func (r *RedisRestaurantBroker) Subscribe(ctx context.Context) (<-chan RestaurantEvent, error) {
	pubsub := r.client.Subscribe(ctx, Channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	r.mu.Lock()
	r.pubsubs = append(r.pubsubs, pubsub)
	r.mu.Unlock()

	events := make(chan RestaurantEvent, 100)

	go func() {
		defer close(events)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case redisMsg, ok := <-messages:
				if !ok {
					return
				}

				var event RestaurantEvent
				if err := json.Unmarshal([]byte(redisMsg.Payload), &event); err != nil {
					logger.Log.Warn("Dropping malformed restaurant event", zap.Error(err))
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}

func (r *RedisRestaurantBroker) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pubsub := range r.pubsubs {
		_ = pubsub.Close()
	}
	r.pubsubs = nil
	return nil
}
