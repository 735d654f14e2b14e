package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for signup and unregister counters.
const (
	OutcomeSuccess           = "success"
	OutcomeNotFound          = "not_found"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeNotRegistered     = "not_registered"
	OutcomeFull              = "full"
	OutcomeError             = "error"
)

// unknownActivity replaces caller-supplied names that matched nothing, keeping label cardinality bounded.
const unknownActivity = "unknown"

var (
	signupCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_service",
		Subsystem: "directory",
		Name:      "signups_total",
		Help:      "Signup attempts grouped by activity and outcome.",
	}, []string{"activity", "outcome"})

	unregisterCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_service",
		Subsystem: "directory",
		Name:      "unregistrations_total",
		Help:      "Unregister attempts grouped by activity and outcome.",
	}, []string{"activity", "outcome"})

	participantsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "activities_service",
		Subsystem: "directory",
		Name:      "participants",
		Help:      "Current roster size per activity.",
	}, []string{"activity"})

	rosterChangeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "activities_service",
		Subsystem: "directory",
		Name:      "last_roster_change_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful signup or unregister.",
	})

	publishFailureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activities_service",
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Roster events that could not be delivered, labeled by event type.",
	}, []string{"event_type"})
)

func init() {
	prometheus.MustRegister(signupCounter, unregisterCounter, participantsGauge, rosterChangeGauge, publishFailureCounter)
}

// RecordSignup counts a signup attempt.
func RecordSignup(activity, outcome string) {
	signupCounter.WithLabelValues(activityLabel(activity, outcome), outcome).Inc()
}

// RecordUnregister counts an unregister attempt.
func RecordUnregister(activity, outcome string) {
	unregisterCounter.WithLabelValues(activityLabel(activity, outcome), outcome).Inc()
}

// RecordParticipants sets the roster size gauge, e.g. after seeding.
func RecordParticipants(activity string, count int) {
	participantsGauge.WithLabelValues(activity).Set(float64(count))
}

// RecordRosterChange updates the roster size gauge and the change watermark.
func RecordRosterChange(activity string, count int, ts time.Time) {
	RecordParticipants(activity, count)
	if ts.IsZero() {
		return
	}
	rosterChangeGauge.Set(float64(ts.Unix()))
}

// RecordPublishFailure counts an undelivered roster event.
func RecordPublishFailure(eventType string) {
	publishFailureCounter.WithLabelValues(eventType).Inc()
}

func activityLabel(activity, outcome string) string {
	if outcome == OutcomeNotFound {
		return unknownActivity
	}
	return activity
}
