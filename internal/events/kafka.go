package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nikolayk812/flashcheckout/internal/domain"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

const schemaVersion = "1.0"

type KafkaOptions struct {
	Brokers  []string
	Topic    string
	ClientID string
	Username string
	Password string
}

type producer interface {
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
}

// KafkaSink produces order events as JSON records keyed by order id,
// so every event of one order lands on the same partition.
type KafkaSink struct {
	producer producer
	topic    string
}

func NewKafkaClient(opts KafkaOptions) (*kgo.Client, error) {
	if len(opts.Brokers) == 0 {
		return nil, errors.New("brokers are empty")
	}

	kopts := []kgo.Opt{
		kgo.SeedBrokers(opts.Brokers...),
		kgo.AllowAutoTopicCreation(),
		kgo.RequiredAcks(kgo.AllISRAcks()),

		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
		kgo.ProducerLinger(10 * time.Millisecond),
		kgo.ProducerBatchMaxBytes(1_000_000),
	}

	if opts.ClientID != "" {
		kopts = append(kopts, kgo.ClientID(opts.ClientID))
	}

	if opts.Username != "" && opts.Password != "" {
		kopts = append(kopts, kgo.SASL(plain.Auth{
			User: opts.Username,
			Pass: opts.Password,
		}.AsMechanism()))
	}

	client, err := kgo.NewClient(kopts...)
	if err != nil {
		return nil, fmt.Errorf("kgo.NewClient: %w", err)
	}

	return client, nil
}

func NewKafkaSink(client *kgo.Client, topic string) (*KafkaSink, error) {
	if client == nil {
		return nil, errors.New("client is nil")
	}

	return newKafkaSink(client, topic)
}

func newKafkaSink(p producer, topic string) (*KafkaSink, error) {
	if topic == "" {
		return nil, errors.New("topic is empty")
	}

	return &KafkaSink{
		producer: p,
		topic:    topic,
	}, nil
}

// Publish hands the record to the client and returns; delivery failures are logged by the promise.
func (s *KafkaSink) Publish(ctx context.Context, event domain.Event) error {
	record, err := s.buildRecord(event)
	if err != nil {
		return fmt.Errorf("buildRecord: %w", err)
	}

	// the request context usually ends before the batch is flushed
	s.producer.Produce(context.WithoutCancel(ctx), record, func(r *kgo.Record, err error) {
		if err != nil {
			slog.Error("produce event",
				"method", "KafkaSink.Publish",
				"event_type", event.Type,
				"order_id", event.OrderID,
				"error", err,
			)
			return
		}
		slog.Debug("event produced",
			"method", "KafkaSink.Publish",
			"event_type", event.Type,
			"partition", r.Partition,
			"offset", r.Offset,
		)
	})

	return nil
}

func (s *KafkaSink) buildRecord(event domain.Event) (*kgo.Record, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.OrderID.String()),
		Value: data,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "version", Value: []byte(schemaVersion)},
		},
		Timestamp: event.OccurredAt,
	}, nil
}
