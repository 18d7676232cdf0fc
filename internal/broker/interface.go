package broker

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType names a restaurant change.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// RestaurantEvent is broadcast after a restaurant write commits.
type RestaurantEvent struct {
	Type         EventType `json:"type"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher announces restaurant changes.
type Publisher interface {
	Publish(ctx context.Context, event RestaurantEvent) error
}

// RestaurantBroker fans restaurant events out across server instances.
type RestaurantBroker interface {
	Publisher
	Subscribe(ctx context.Context) (<-chan RestaurantEvent, error)
	Close() error
}

// NopPublisher drops every event. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, RestaurantEvent) error { return nil }
