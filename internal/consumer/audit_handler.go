package consumer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"example.com/activities/internal/events"
)

// AuditHandler writes an audit line per roster change and tracks the latest roster size per activity.
type AuditHandler struct {
	logger *zap.Logger

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(logger *zap.Logger) *AuditHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditHandler{logger: logger, lastSeen: make(map[string]time.Time)}
}

// Handle implements Handler. Events older than one already applied for the same activity
// are logged but do not move the roster gauge backwards.
func (h *AuditHandler) Handle(ctx context.Context, msg Message) error {
	event := msg.Event
	switch event.EventType {
	case events.TypeSignedUp, events.TypeUnregistered:
	default:
		return fmt.Errorf("unsupported event type %q", event.EventType)
	}

	h.logger.Info("roster changed",
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("activity", event.Activity),
		zap.String("email", event.Email),
		zap.Int("participant_count", event.ParticipantCount),
		zap.Time("occurred_at", event.OccurredAt),
		zap.Int64("offset", msg.Offset),
	)

	h.mu.Lock()
	defer h.mu.Unlock()
	if last, ok := h.lastSeen[event.Activity]; ok && event.OccurredAt.Before(last) {
		return nil
	}
	h.lastSeen[event.Activity] = event.OccurredAt
	observedRosterGauge.WithLabelValues(event.Activity).Set(float64(event.ParticipantCount))
	return nil
}
