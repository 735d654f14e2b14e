package domain

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrActivityNotFound is returned when no activity carries the requested name.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrAlreadyRegistered is returned when the email is already on the activity roster.
	ErrAlreadyRegistered = errors.New("student is already signed up")
	// ErrNotRegistered is returned when unregistering an email that is not on the roster.
	ErrNotRegistered = errors.New("student is not registered for this activity")
	// ErrActivityFull is returned when capacity enforcement is on and the roster is at max_participants.
	ErrActivityFull = errors.New("activity is full")
)

// Activity is an extracurricular offering and its roster. Name is the primary key.
type Activity struct {
	Name            string
	Description     string
	Schedule        string
	MaxParticipants int
	// Participants holds unique emails in signup order.
	Participants []string
}

// Clone returns a deep copy so callers never share the participants backing array.
func (a Activity) Clone() Activity {
	a.Participants = slices.Clone(a.Participants)
	if a.Participants == nil {
		a.Participants = []string{}
	}
	return a
}

// HasParticipant reports whether email is on the roster (exact, case-sensitive match).
func (a Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// IsFull reports whether the roster has reached MaxParticipants.
func (a Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// Repository exposes roster storage. AddParticipant and RemoveParticipant must check and mutate atomically.
type Repository interface {
	List(ctx context.Context) ([]Activity, error)
	Get(ctx context.Context, name string) (*Activity, error)
	AddParticipant(ctx context.Context, name, email string, enforceCapacity bool) (Activity, error)
	RemoveParticipant(ctx context.Context, name, email string) (Activity, error)
}
