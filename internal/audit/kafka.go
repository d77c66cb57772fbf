package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// kafkaEvent is the wire shape published to the audit topic.
type kafkaEvent struct {
	Timestamp time.Time `json:"timestamp"`
	OrgID     *string   `json:"org_id,omitempty"`
	Subject   string    `json:"subject"`
	Action    string    `json:"action"`
	Decision  string    `json:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}

// KafkaStore publishes audit events to a Kafka topic. It satisfies Store so
// the worker can drain into Kafka exactly as it would into PostgreSQL.
type KafkaStore struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaStore connects to the brokers and ensures the audit topic exists.
// Topic creation is idempotent: an already-exists response is not an error.
func NewKafkaStore(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*KafkaStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	admin := kadm.NewClient(client)
	resp, err := admin.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create audit topic: %w", err)
	}
	for _, res := range resp.Sorted() {
		if res.Err != nil && !isTopicExists(res.Err) {
			client.Close()
			return nil, fmt.Errorf("create audit topic %s: %w", res.Topic, res.Err)
		}
	}

	return &KafkaStore{client: client, topic: topic, logger: logger}, nil
}

// Append publishes one event. Production is asynchronous; delivery failures
// are logged, keeping audit off the evaluation hot path.
func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	payload := kafkaEvent{
		Timestamp: event.Timestamp,
		Subject:   event.Subject,
		Action:    string(event.Action),
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
	}
	if event.OrgID != nil {
		org := event.OrgID.String()
		payload.OrgID = &org
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Subject),
		Value: value,
	}
	s.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			s.logger.Error("audit publish failed",
				"topic", s.topic,
				"action", event.Action,
				"error", err,
			)
		}
	})
	return nil
}

// Close flushes pending records and releases the client.
func (s *KafkaStore) Close(ctx context.Context) error {
	if err := s.client.Flush(ctx); err != nil {
		s.client.Close()
		return fmt.Errorf("flush audit records: %w", err)
	}
	s.client.Close()
	return nil
}

func isTopicExists(err error) bool {
	// kadm surfaces broker error codes whose message names the code; matching
	// on the message avoids a direct kerr dependency here.
	return err != nil && strings.Contains(err.Error(), "TOPIC_ALREADY_EXISTS")
}
