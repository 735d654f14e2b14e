package events

import (
	"context"
	"errors"
)

// Publisher delivers roster events to downstream systems.
type Publisher interface {
	Publish(ctx context.Context, event RosterChanged) error
}

// NoopPublisher is a no-op implementation.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, RosterChanged) error { return nil }

// MultiPublisher fans a single event out to every wrapped publisher.
type MultiPublisher []Publisher

// Publish delivers to all publishers, even after a failure, and joins the errors.
func (m MultiPublisher) Publish(ctx context.Context, event RosterChanged) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
