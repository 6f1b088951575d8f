package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipshare/backend/internal/repositories"
)

func TestFollowAndUnfollow(t *testing.T) {
	store := repositories.NewMemoryStore()
	graph := NewGraph(store.Follows(), false)
	ctx := context.Background()

	require.NoError(t, graph.Follow(ctx, "alice", "bob"))

	following, err := graph.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := graph.IsFollowing(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, reverse, "follow edges are directed")

	require.NoError(t, graph.Unfollow(ctx, "alice", "bob"))

	following, err = graph.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowIsIdempotent(t *testing.T) {
	store := repositories.NewMemoryStore()
	graph := NewGraph(store.Follows(), false)
	ctx := context.Background()

	require.NoError(t, graph.Follow(ctx, "alice", "bob"))
	require.NoError(t, graph.Follow(ctx, "alice", "bob"))

	followers, _, err := graph.Counts(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, followers, "re-following must not add a second edge")

	require.NoError(t, graph.Unfollow(ctx, "alice", "bob"))
	require.NoError(t, graph.Unfollow(ctx, "alice", "bob"), "unfollowing twice is a no-op")
}

func TestSelfFollowPolicy(t *testing.T) {
	store := repositories.NewMemoryStore()
	ctx := context.Background()

	t.Run("rejected by default", func(t *testing.T) {
		graph := NewGraph(store.Follows(), false)
		assert.ErrorIs(t, graph.Follow(ctx, "alice", "alice"), ErrSelfFollow)
	})

	t.Run("allowed when configured", func(t *testing.T) {
		graph := NewGraph(store.Follows(), true)
		require.NoError(t, graph.Follow(ctx, "alice", "alice"))

		following, err := graph.IsFollowing(ctx, "alice", "alice")
		require.NoError(t, err)
		assert.True(t, following)
	})
}

func TestCounts(t *testing.T) {
	store := repositories.NewMemoryStore()
	graph := NewGraph(store.Follows(), false)
	ctx := context.Background()

	require.NoError(t, graph.Follow(ctx, "alice", "bob"))
	require.NoError(t, graph.Follow(ctx, "carol", "bob"))
	require.NoError(t, graph.Follow(ctx, "bob", "alice"))

	followers, following, err := graph.Counts(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, followers)
	assert.Equal(t, 1, following)

	followers, following, err = graph.Counts(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, followers)
	assert.Zero(t, following)
}
