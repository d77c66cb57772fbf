package audit

import (
	"context"
	"log/slog"
	"time"

	"roadcheck/pkg/requestcontext"
)

// Worker consumes audit events from a channel and persists them. Emission
// stays non-blocking for domain code; persistence failures are logged and
// dropped rather than propagated back into evaluation.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker constructs a worker draining inbox into store.
func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", event.Action,
					"subject", event.Subject,
					"error", err,
				)
			}
		}
	}
}

// ChannelPublisher emits events into a buffered channel consumed by a Worker.
// Emit never blocks: when the buffer is full the event is dropped and
// counted, preferring inspection throughput over audit completeness.
type ChannelPublisher struct {
	outbox chan<- Event
	logger *slog.Logger
}

// NewChannelPublisher constructs a publisher writing to outbox.
func NewChannelPublisher(outbox chan<- Event, logger *slog.Logger) *ChannelPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelPublisher{outbox: outbox, logger: logger}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	select {
	case p.outbox <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit outbox full, dropping event",
			"action", event.Action,
			"subject", event.Subject,
		)
		return nil
	}
}
