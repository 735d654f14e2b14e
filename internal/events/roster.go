// Package events defines roster change payloads and the publishers that deliver them.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Roster event types, carried in the event_type header and payload.
const (
	TypeSignedUp     = "activity.signed_up"
	TypeUnregistered = "activity.unregistered"
)

// RosterChanged is emitted after a participant joins or leaves an activity.
type RosterChanged struct {
	EventID          string    `json:"event_id"`
	EventType        string    `json:"event_type"`
	Activity         string    `json:"activity"`
	Email            string    `json:"email"`
	ParticipantCount int       `json:"participant_count"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// NewRosterChanged stamps a fresh event ID onto a roster change.
func NewRosterChanged(eventType, activity, email string, participantCount int, occurredAt time.Time) RosterChanged {
	return RosterChanged{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		Activity:         activity,
		Email:            email,
		ParticipantCount: participantCount,
		OccurredAt:       occurredAt.UTC(),
	}
}
