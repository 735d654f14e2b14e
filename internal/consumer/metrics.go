package consumer

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultProcessed    = "processed"
	resultHandlerError = "handler_error"
	resultDecodeError  = "decode_error"
)

var (
	consumedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_service",
		Subsystem: "roster_consumer",
		Name:      "events_total",
		Help:      "Roster events read from Kafka, by topic, event type, and result.",
	}, []string{"topic", "event_type", "result"})

	lastEventGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "activities_service",
		Subsystem: "roster_consumer",
		Name:      "last_event_timestamp_seconds",
		Help:      "occurred_at of the newest roster event handled per topic.",
	}, []string{"topic"})

	observedRosterGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "activities_service",
		Subsystem: "roster_consumer",
		Name:      "observed_participants",
		Help:      "Roster size per activity as last reported by a roster event.",
	}, []string{"activity"})
)

func init() {
	prometheus.MustRegister(consumedEvents, lastEventGauge, observedRosterGauge)
}

func recordProcessed(msg Message) {
	consumedEvents.WithLabelValues(msg.Topic, msg.Event.EventType, resultProcessed).Inc()
	if !msg.Event.OccurredAt.IsZero() {
		lastEventGauge.WithLabelValues(msg.Topic).Set(float64(msg.Event.OccurredAt.Unix()))
	}
}

func recordHandlerError(msg Message) {
	consumedEvents.WithLabelValues(msg.Topic, msg.Event.EventType, resultHandlerError).Inc()
}

// Undecodable events have no trustworthy type.
func recordDecodeError(topic string) {
	consumedEvents.WithLabelValues(topic, "unknown", resultDecodeError).Inc()
}
