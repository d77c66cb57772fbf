//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"roadcheck/internal/audit"
	id "roadcheck/pkg/domain"
	"roadcheck/pkg/testutil/containers"
)

func TestKafkaAuditStore(t *testing.T) {
	kc := containers.NewKafkaContainer(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	const topic = "roadcheck.audit.test"

	store, err := audit.NewKafkaStore(ctx, kc.Brokers, topic, logger)
	require.NoError(t, err)

	orgID := id.NewOrgID()
	inspectionID := id.NewInspectionID()
	event := audit.Event{
		Timestamp: time.Now().UTC(),
		OrgID:     &orgID,
		Subject:   inspectionID.String(),
		Action:    audit.ActionInspectionEvaluated,
		Decision:  "OOS",
		Reason:    "1 item out of service",
		RequestID: "req-123",
	}
	require.NoError(t, store.Append(ctx, event))
	require.NoError(t, store.Close(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(kc.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, inspectionID.String(), string(records[0].Key))

	var payload struct {
		OrgID     *string `json:"org_id"`
		Subject   string  `json:"subject"`
		Action    string  `json:"action"`
		Decision  string  `json:"decision"`
		Reason    string  `json:"reason"`
		RequestID string  `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(records[0].Value, &payload))
	require.NotNil(t, payload.OrgID)
	assert.Equal(t, orgID.String(), *payload.OrgID)
	assert.Equal(t, inspectionID.String(), payload.Subject)
	assert.Equal(t, string(audit.ActionInspectionEvaluated), payload.Action)
	assert.Equal(t, "OOS", payload.Decision)
	assert.Equal(t, "1 item out of service", payload.Reason)
	assert.Equal(t, "req-123", payload.RequestID)

	// Reconnecting to an existing topic must not fail on create.
	again, err := audit.NewKafkaStore(ctx, kc.Brokers, topic, logger)
	require.NoError(t, err)
	require.NoError(t, again.Close(ctx))
}
