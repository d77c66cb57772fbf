package audit

import (
	"context"
	"time"

	"roadcheck/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and delegates
// persistence to a Store so tests and deployments can swap sinks (in-memory,
// PostgreSQL, Kafka) without touching domain code.
type Publisher struct {
	store Store
}

// NewPublisher constructs a store-backed publisher.
func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit appends one event, stamping the timestamp and request ID when the
// caller left them unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	return p.store.Append(ctx, event)
}
