package service

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// publish emits a domain event after the fact; a broker failure never fails the operation.
func publish(ctx context.Context, p events.Publisher, topic, key, typ string, data any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, events.New(typ, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", typ, "error", err)
	}
}
