// Package sharelogtest holds the behaviour every share history backend must satisfy.
package sharelogtest

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/pkg/types"
)

// Store mirrors store.ShareHistoryStore.
type Store interface {
	Append(ctx context.Context, attempt *types.ShareAttempt) error
	Latest(ctx context.Context, postID int64, platform types.Platform) (*types.ShareAttempt, error)
	LatestByPost(ctx context.Context, postID int64) ([]types.ShareAttempt, error)
	Recent(ctx context.Context, limit, offset uint64) ([]types.ShareAttempt, error)
	Total(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (types.ShareStats, error)
	Trim(ctx context.Context, keep int) (int64, error)
	Clear(ctx context.Context) error
}

// Attempt builds a log entry, the post id doubles as a marker of append order.
func Attempt(postID int64, platform types.Platform, status types.ShareStatus) *types.ShareAttempt {
	return &types.ShareAttempt{
		PostID:   postID,
		Platform: platform,
		Status:   status,
		Snapshot: &types.SharingData{
			PostID:    postID,
			Title:     "post",
			Tags:      []string{"go"},
			Summaries: types.Summaries{Default: "summary"},
		},
		CreatedAt: 1700000000,
	}
}

// Run executes the suite. newStore must return an empty store capped at 100 entries.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("eviction keeps the last 100 in order", func(t *testing.T) {
		s := newStore(t)
		for i := int64(1); i <= 150; i++ {
			require.NoError(t, s.Append(ctx, Attempt(i, types.PlatformLinkedIn, types.ShareStatusInitiated)))
		}

		total, err := s.Total(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(100), total)

		list, err := s.Recent(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, list, 100)
		for i, e := range list {
			assert.Equal(t, int64(150-i), e.PostID)
		}
	})

	t.Run("latest is overwritten per key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Append(ctx, Attempt(1, types.PlatformLinkedIn, types.ShareStatusInitiated)))
		require.NoError(t, s.Append(ctx, Attempt(1, types.PlatformTwitter, types.ShareStatusInitiated)))
		second := Attempt(1, types.PlatformLinkedIn, types.ShareStatusCompleted)
		second.Snapshot.Title = "second"
		require.NoError(t, s.Append(ctx, second))

		latest, err := s.Latest(ctx, 1, types.PlatformLinkedIn)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, types.ShareStatusCompleted, latest.Status)
		require.NotNil(t, latest.Snapshot)
		assert.Equal(t, "second", latest.Snapshot.Title)
		assert.Equal(t, []string{"go"}, latest.Snapshot.Tags)

		missing, err := s.Latest(ctx, 2, types.PlatformLinkedIn)
		require.NoError(t, err)
		assert.Nil(t, missing)

		byPost, err := s.LatestByPost(ctx, 1)
		require.NoError(t, err)
		assert.ElementsMatch(t, []types.Platform{types.PlatformLinkedIn, types.PlatformTwitter},
			lo.Map(byPost, func(a types.ShareAttempt, _ int) types.Platform { return a.Platform }))
	})

	t.Run("latest survives eviction", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Append(ctx, Attempt(1000, types.PlatformLinkedIn, types.ShareStatusCompleted)))
		for i := int64(1); i <= 100; i++ {
			require.NoError(t, s.Append(ctx, Attempt(i, types.PlatformLinkedIn, types.ShareStatusInitiated)))
		}
		latest, err := s.Latest(ctx, 1000, types.PlatformLinkedIn)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, types.ShareStatusCompleted, latest.Status)
	})

	t.Run("recent paginates newest first", func(t *testing.T) {
		s := newStore(t)
		for i := int64(1); i <= 5; i++ {
			require.NoError(t, s.Append(ctx, Attempt(i, types.PlatformLinkedIn, types.ShareStatusInitiated)))
		}
		page, err := s.Recent(ctx, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 3}, lo.Map(page, func(a types.ShareAttempt, _ int) int64 { return a.PostID }))

		empty, err := s.Recent(ctx, 2, 10)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("stats", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Append(ctx, Attempt(1, types.PlatformLinkedIn, types.ShareStatusInitiated)))
		require.NoError(t, s.Append(ctx, Attempt(1, types.PlatformLinkedIn, types.ShareStatusCompleted)))
		require.NoError(t, s.Append(ctx, Attempt(2, types.PlatformLinkedIn, types.ShareStatusFailed)))
		require.NoError(t, s.Append(ctx, Attempt(3, types.PlatformTwitter, types.ShareStatusInitiated)))

		stats, err := s.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.Total)
		assert.Equal(t, int64(2), stats.ByStatus[types.ShareStatusInitiated])
		assert.Equal(t, int64(1), stats.ByStatus[types.ShareStatusCompleted])
		assert.Equal(t, int64(1), stats.ByStatus[types.ShareStatusFailed])
		assert.Equal(t, int64(3), stats.ByPlatform[types.PlatformLinkedIn])
		assert.Equal(t, int64(1), stats.ByPlatform[types.PlatformTwitter])
	})

	t.Run("trim and clear", func(t *testing.T) {
		s := newStore(t)
		for i := int64(1); i <= 10; i++ {
			require.NoError(t, s.Append(ctx, Attempt(i, types.PlatformLinkedIn, types.ShareStatusInitiated)))
		}
		removed, err := s.Trim(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, int64(6), removed)

		list, err := s.Recent(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []int64{10, 9, 8, 7}, lo.Map(list, func(a types.ShareAttempt, _ int) int64 { return a.PostID }))

		require.NoError(t, s.Clear(ctx))
		total, err := s.Total(ctx)
		require.NoError(t, err)
		assert.Zero(t, total)
		latest, err := s.Latest(ctx, 10, types.PlatformLinkedIn)
		require.NoError(t, err)
		assert.Nil(t, latest)
	})

	t.Run("concurrent appends stay consistent", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for w := int64(0); w < 8; w++ {
			wg.Add(1)
			go func(w int64) {
				defer wg.Done()
				for i := int64(0); i < 25; i++ {
					assert.NoError(t, s.Append(ctx, Attempt(w, types.PlatformLinkedIn, types.ShareStatusInitiated)))
				}
			}(w)
		}
		wg.Wait()

		total, err := s.Total(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(100), total)

		list, err := s.Recent(ctx, 0, 0)
		require.NoError(t, err)
		ids := lo.Map(list, func(a types.ShareAttempt, _ int) int64 { return a.ID })
		assert.Len(t, lo.Uniq(ids), 100)
		for i := 1; i < len(list); i++ {
			assert.Greater(t, list[i-1].ID, list[i].ID)
		}
	})
}
