package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/activities/internal/domain"
)

func newTestRepository(t *testing.T) *InMemoryRepository {
	t.Helper()
	repo, err := NewInMemoryRepository([]domain.Activity{
		{Name: "Chess Club", Description: "Strategy", Schedule: "Fridays", MaxParticipants: 2, Participants: nil},
		{Name: "Programming Class", Description: "Code", Schedule: "Tuesdays", MaxParticipants: 20, Participants: []string{"emma@mergington.edu"}},
	})
	require.NoError(t, err)
	return repo
}

func TestListPreservesSeedOrderAndCopies(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	activities, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	require.Equal(t, "Chess Club", activities[0].Name)
	require.Equal(t, "Programming Class", activities[1].Name)
	require.NotNil(t, activities[0].Participants, "empty rosters encode as [] not null")

	activities[1].Participants[0] = "tampered@x.edu"
	again, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"emma@mergington.edu"}, again[1].Participants)
}

func TestGetMissingReturnsNil(t *testing.T) {
	repo := newTestRepository(t)

	activity, err := repo.Get(context.Background(), "chess club")
	require.NoError(t, err)
	require.Nil(t, activity, "names are case-sensitive")
}

func TestAddParticipantLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	activity, err := repo.AddParticipant(ctx, "Chess Club", "a@x.edu", false)
	require.NoError(t, err)
	require.Equal(t, []string{"a@x.edu"}, activity.Participants)

	_, err = repo.AddParticipant(ctx, "Chess Club", "a@x.edu", false)
	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	activity, err = repo.AddParticipant(ctx, "Chess Club", "A@x.edu", false)
	require.NoError(t, err, "email matching is case-sensitive")
	require.Equal(t, []string{"a@x.edu", "A@x.edu"}, activity.Participants)

	_, err = repo.AddParticipant(ctx, "Ghost Club", "a@x.edu", false)
	require.ErrorIs(t, err, domain.ErrActivityNotFound)
}

func TestAddParticipantCapacity(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, email := range []string{"a@x.edu", "b@x.edu"} {
		_, err := repo.AddParticipant(ctx, "Chess Club", email, true)
		require.NoError(t, err)
	}

	_, err := repo.AddParticipant(ctx, "Chess Club", "c@x.edu", true)
	require.ErrorIs(t, err, domain.ErrActivityFull)

	activity, err := repo.AddParticipant(ctx, "Chess Club", "c@x.edu", false)
	require.NoError(t, err, "overbooking is allowed when capacity is not enforced")
	require.Len(t, activity.Participants, 3)
}

func TestRemoveParticipant(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, email := range []string{"a@x.edu", "b@x.edu"} {
		_, err := repo.AddParticipant(ctx, "Chess Club", email, false)
		require.NoError(t, err)
	}

	activity, err := repo.RemoveParticipant(ctx, "Chess Club", "a@x.edu")
	require.NoError(t, err)
	require.Equal(t, []string{"b@x.edu"}, activity.Participants)

	_, err = repo.RemoveParticipant(ctx, "Chess Club", "a@x.edu")
	require.ErrorIs(t, err, domain.ErrNotRegistered)

	_, err = repo.RemoveParticipant(ctx, "Ghost Club", "b@x.edu")
	require.ErrorIs(t, err, domain.ErrActivityNotFound)

	stored, err := repo.Get(ctx, "Chess Club")
	require.NoError(t, err)
	require.Equal(t, []string{"b@x.edu"}, stored.Participants)
}

func TestConcurrentSignupsAreNotLost(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	const workers = 64
	var wg sync.WaitGroup
	wg.Add(workers * 2)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = repo.AddParticipant(ctx, "Programming Class", fmt.Sprintf("student%d@x.edu", i), false)
		}(i)
		// Every worker also races on the same email; only one may win.
		go func() {
			defer wg.Done()
			_, _ = repo.AddParticipant(ctx, "Programming Class", "shared@x.edu", false)
		}()
	}
	wg.Wait()

	activity, err := repo.Get(ctx, "Programming Class")
	require.NoError(t, err)
	require.Len(t, activity.Participants, 1+workers+1)
}

func TestNewInMemoryRepositoryRejectsDuplicateNames(t *testing.T) {
	_, err := NewInMemoryRepository([]domain.Activity{
		{Name: "Art Club", MaxParticipants: 1},
		{Name: "Art Club", MaxParticipants: 2},
	})
	require.Error(t, err)
}
