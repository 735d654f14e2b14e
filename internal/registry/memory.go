// Package registry holds the in-memory activity directory seeded at start-up.
package registry

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"example.com/activities/internal/domain"
)

// InMemoryRepository stores activities in memory for the lifetime of the process.
type InMemoryRepository struct {
	mu         sync.RWMutex
	activities map[string]*domain.Activity
	order      []string
}

// NewInMemoryRepository constructs a repository populated with the given seed.
func NewInMemoryRepository(seed []domain.Activity) (*InMemoryRepository, error) {
	repo := &InMemoryRepository{
		activities: make(map[string]*domain.Activity, len(seed)),
		order:      make([]string, 0, len(seed)),
	}
	if err := repo.seed(seed); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *InMemoryRepository) seed(seed []domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, activity := range seed {
		if _, exists := r.activities[activity.Name]; exists {
			return fmt.Errorf("duplicate activity %q in seed", activity.Name)
		}
		clone := activity.Clone()
		r.activities[activity.Name] = &clone
		r.order = append(r.order, activity.Name)
	}
	return nil
}

// List implements domain.Repository.
func (r *InMemoryRepository) List(ctx context.Context) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Activity, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.activities[name].Clone())
	}
	return out, nil
}

// Get returns the activity by exact name, or nil when absent.
func (r *InMemoryRepository) Get(ctx context.Context, name string) (*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, nil
	}
	clone := activity.Clone()
	return &clone, nil
}

// AddParticipant appends email to the roster under the write lock.
func (r *InMemoryRepository) AddParticipant(ctx context.Context, name, email string, enforceCapacity bool) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	if activity.HasParticipant(email) {
		return domain.Activity{}, domain.ErrAlreadyRegistered
	}
	if enforceCapacity && activity.IsFull() {
		return domain.Activity{}, domain.ErrActivityFull
	}

	activity.Participants = append(activity.Participants, email)
	return activity.Clone(), nil
}

// RemoveParticipant drops one occurrence of email from the roster under the write lock.
func (r *InMemoryRepository) RemoveParticipant(ctx context.Context, name, email string) (domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	idx := slices.Index(activity.Participants, email)
	if idx < 0 {
		return domain.Activity{}, domain.ErrNotRegistered
	}

	activity.Participants = slices.Delete(activity.Participants, idx, idx+1)
	return activity.Clone(), nil
}
