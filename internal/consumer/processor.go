// Package consumer reads roster events from Kafka and dispatches them to handlers.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/activities/internal/events"
)

// Reader exposes the minimal kafka.Reader interface needed by the processor.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives decoded roster events.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is a decoded roster event plus its Kafka coordinates.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Event     events.RosterChanged
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithFetchBackoff sets the pause after a failed fetch before the next attempt.
func WithFetchBackoff(d time.Duration) Option {
	return func(p *Processor) {
		p.fetchBackoff = d
	}
}

// Processor pulls roster events from Kafka, decodes them, and dispatches to a Handler.
// Offsets are committed after a successful handle and for messages that can never be decoded.
type Processor struct {
	reader       Reader
	handler      Handler
	logger       *zap.Logger
	fetchBackoff time.Duration
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:       reader,
		handler:      handler,
		logger:       zap.NewNop(),
		fetchBackoff: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run blocks until ctx is cancelled, returning the context error.
func (p *Processor) Run(ctx context.Context) error {
	for {
		msg, err := p.reader.FetchMessage(ctx)
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case err != nil:
			p.logger.Warn("fetch error", zap.Error(err))
			if waitErr := p.pause(ctx); waitErr != nil {
				return waitErr
			}
			continue
		}

		if p.handleMessage(ctx, msg) {
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.Warn("commit error",
					zap.String("topic", msg.Topic),
					zap.Int64("offset", msg.Offset),
					zap.Error(commitErr),
				)
			}
		}
	}
}

// handleMessage reports whether msg's offset may be committed.
func (p *Processor) handleMessage(ctx context.Context, msg kafka.Message) bool {
	decoded, err := decodeMessage(msg)
	if err != nil {
		p.logger.Warn("dropping undecodable roster event",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		recordDecodeError(msg.Topic)
		return true
	}

	if err := p.handler.Handle(ctx, decoded); err != nil {
		p.logger.Error("handler error",
			zap.String("event_id", decoded.Event.EventID),
			zap.String("event_type", decoded.Event.EventType),
			zap.String("activity", decoded.Event.Activity),
			zap.Error(err),
		)
		recordHandlerError(decoded)
		return false
	}

	recordProcessed(decoded)
	return true
}

func (p *Processor) pause(ctx context.Context) error {
	if p.fetchBackoff <= 0 {
		return nil
	}
	timer := time.NewTimer(p.fetchBackoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func decodeMessage(msg kafka.Message) (Message, error) {
	eventType, ok := headerValue(msg, "event_type")
	if !ok {
		return Message{}, errors.New("missing event_type header")
	}

	var event events.RosterChanged
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return Message{}, fmt.Errorf("decode payload: %w", err)
	}
	if event.EventType != string(eventType) {
		return Message{}, fmt.Errorf("event_type header %q does not match payload %q", eventType, event.EventType)
	}
	if event.Activity == "" {
		return Message{}, errors.New("payload has no activity")
	}

	return Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Event:     event,
	}, nil
}

func headerValue(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}
