package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TopicUserEvents    = "user_events"
	TopicProductEvents = "product_events"
	TopicOrderEvents   = "order_events"
)

const (
	TypeUserRegistered  = "user_registered"
	TypePasswordChanged = "password_changed"
	TypeProductCreated  = "product_created"
	TypeProductUpdated  = "product_updated"
	TypeProductDeleted  = "product_deleted"
	TypeReviewSaved     = "review_saved"
	TypeOrderPlaced     = "order_placed"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Event struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

func New(typ string, data any) Event {
	return Event{
		EventID:   uuid.NewString(),
		Type:      typ,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type Nop struct{}

func (Nop) PublishEvent(context.Context, string, string, any) error { return nil }
