package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig holds the producer tunables.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	BatchSize    int
	BatchTimeout time.Duration
}

// KafkaPublisher writes roster events to Kafka, lazily managing one writer per topic.
type KafkaPublisher struct {
	cfg     KafkaConfig
	mu      sync.Mutex
	writers map[string]messageWriter
	// newWriter is swapped in tests.
	newWriter func(topic string) messageWriter
}

// NewKafkaPublisher creates a KafkaPublisher.
func NewKafkaPublisher(cfg KafkaConfig) *KafkaPublisher {
	p := &KafkaPublisher{
		cfg:     cfg,
		writers: make(map[string]messageWriter),
	}
	p.newWriter = p.kafkaWriter
	return p
}

// Publish encodes the event as JSON keyed by activity name, so each activity's changes stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, event RosterChanged) error {
	msg, err := EncodeMessage(event)
	if err != nil {
		return err
	}
	if err := p.writerForTopic(p.cfg.Topic).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write roster event to %s: %w", p.cfg.Topic, err)
	}
	return nil
}

// EncodeMessage builds the Kafka record for a roster event.
func EncodeMessage(event RosterChanged) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode roster event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.Activity),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "activity", Value: []byte(event.Activity)},
		},
	}, nil
}

func (p *KafkaPublisher) writerForTopic(topic string) messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := p.newWriter(topic)
	p.writers[topic] = writer
	return writer
}

func (p *KafkaPublisher) kafkaWriter(topic string) messageWriter {
	return &kafka.Writer{
		Addr:                   kafka.TCP(p.cfg.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		BatchSize:              p.cfg.BatchSize,
		BatchTimeout:           p.cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		Async:                  false,
	}
}

// Close releases all writers.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}
