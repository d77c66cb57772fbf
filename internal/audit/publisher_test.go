package audit_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadcheck/internal/audit"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/requestcontext"
)

func TestPublisherStampsTimestampAndRequestID(t *testing.T) {
	store := audit.NewInMemoryStore()
	publisher := audit.NewPublisher(store)

	ctx := requestcontext.WithRequestID(context.Background(), "req-7")
	orgID := id.NewOrgID()
	err := publisher.Emit(ctx, audit.Event{
		OrgID:   &orgID,
		Subject: "subject-1",
		Action:  audit.ActionInspectionCreated,
	})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, "req-7", events[0].RequestID)
	assert.Equal(t, audit.ActionInspectionCreated, events[0].Action)
}

func TestPublisherKeepsCallerTimestamp(t *testing.T) {
	store := audit.NewInMemoryStore()
	publisher := audit.NewPublisher(store)

	stamped := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	err := publisher.Emit(context.Background(), audit.Event{
		Timestamp: stamped,
		Subject:   "subject-2",
		Action:    audit.ActionRulesLoaded,
	})
	require.NoError(t, err)

	events := store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, stamped, events[0].Timestamp)
}

func TestWorkerDrainsOutboxIntoStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := audit.NewInMemoryStore()
	outbox := make(chan audit.Event, 8)
	worker := audit.NewWorker(store, outbox, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	publisher := audit.NewChannelPublisher(outbox, logger)
	for range 3 {
		require.NoError(t, publisher.Emit(ctx, audit.Event{
			Subject: "subject",
			Action:  audit.ActionInspectionEvaluated,
		}))
	}

	require.Eventually(t, func() bool {
		return len(store.Events()) == 3
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestChannelPublisherDropsWhenFull(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	outbox := make(chan audit.Event, 1)
	publisher := audit.NewChannelPublisher(outbox, logger)

	ctx := context.Background()
	require.NoError(t, publisher.Emit(ctx, audit.Event{Subject: "first"}))

	// Buffer is full; the second emit must not block or error.
	require.NoError(t, publisher.Emit(ctx, audit.Event{Subject: "second"}))
	assert.Len(t, outbox, 1)
}
