// Package domain defines the activity directory: activities, their rosters, and signup rules.
package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"example.com/activities/internal/events"
	"example.com/activities/internal/observability"
)

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithLogger overrides the logger used to report publish failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCapacityEnforcement rejects signups once an activity reaches max_participants.
func WithCapacityEnforcement(enabled bool) Option {
	return func(s *Service) {
		s.enforceCapacity = enabled
	}
}

// WithClock overrides the time source stamped on roster events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service orchestrates signup and unregister workflows.
type Service struct {
	repo            Repository
	publisher       events.Publisher
	logger          *zap.Logger
	enforceCapacity bool
	now             func() time.Time
}

// NewService constructs a Service. A nil publisher disables roster events.
func NewService(repo Repository, publisher events.Publisher, opts ...Option) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	s := &Service{
		repo:      repo,
		publisher: publisher,
		logger:    zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListActivities returns a snapshot of every activity in seed order.
func (s *Service) ListActivities(ctx context.Context) ([]Activity, error) {
	activities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}

// GetActivity fetches a single activity by name.
func (s *Service) GetActivity(ctx context.Context, name string) (*Activity, error) {
	activity, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// Signup adds email to the named activity and returns a confirmation message.
func (s *Service) Signup(ctx context.Context, name, email string) (string, error) {
	activity, err := s.repo.AddParticipant(ctx, name, email, s.enforceCapacity)
	if err != nil {
		observability.RecordSignup(name, outcome(err))
		return "", err
	}

	observability.RecordSignup(name, observability.OutcomeSuccess)
	s.afterChange(ctx, events.TypeSignedUp, activity, email)
	return fmt.Sprintf("Signed up %s for %s", email, name), nil
}

// Unregister removes email from the named activity and returns a confirmation message.
func (s *Service) Unregister(ctx context.Context, name, email string) (string, error) {
	activity, err := s.repo.RemoveParticipant(ctx, name, email)
	if err != nil {
		observability.RecordUnregister(name, outcome(err))
		return "", err
	}

	observability.RecordUnregister(name, observability.OutcomeSuccess)
	s.afterChange(ctx, events.TypeUnregistered, activity, email)
	return fmt.Sprintf("Unregistered %s from %s", email, name), nil
}

// afterChange runs once the roster mutation is applied; failures here are reported, never returned.
func (s *Service) afterChange(ctx context.Context, eventType string, activity Activity, email string) {
	occurredAt := s.now()
	observability.RecordRosterChange(activity.Name, len(activity.Participants), occurredAt)

	event := events.NewRosterChanged(eventType, activity.Name, email, len(activity.Participants), occurredAt)
	if err := s.publisher.Publish(ctx, event); err != nil {
		observability.RecordPublishFailure(eventType)
		s.logger.Warn("roster event publish failed",
			zap.String("event_id", event.EventID),
			zap.String("event_type", eventType),
			zap.String("activity", activity.Name),
			zap.Error(err),
		)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, ErrActivityNotFound):
		return observability.OutcomeNotFound
	case errors.Is(err, ErrAlreadyRegistered):
		return observability.OutcomeAlreadyRegistered
	case errors.Is(err, ErrNotRegistered):
		return observability.OutcomeNotRegistered
	case errors.Is(err, ErrActivityFull):
		return observability.OutcomeFull
	default:
		return observability.OutcomeError
	}
}
