// Package social maintains the directed follower/following graph.
package social

import (
	"context"
	"errors"

	"github.com/clipshare/backend/internal/repositories"
)

// ErrSelfFollow indicates a user attempted to follow themselves while the
// policy forbids it.
var ErrSelfFollow = errors.New("users cannot follow themselves")

// Graph exposes follow operations over a FollowRepository, layering the
// self-follow policy on top. The default policy rejects self-follows.
type Graph struct {
	follows         repositories.FollowRepository
	allowSelfFollow bool
}

// NewGraph constructs a Graph with the given self-follow policy.
func NewGraph(follows repositories.FollowRepository, allowSelfFollow bool) *Graph {
	return &Graph{follows: follows, allowSelfFollow: allowSelfFollow}
}

// Follow records a follow edge. Following an already-followed user is a
// no-op, not an error.
func (g *Graph) Follow(ctx context.Context, followerID, targetID string) error {
	if !g.allowSelfFollow && followerID == targetID {
		return ErrSelfFollow
	}
	return g.follows.Follow(ctx, followerID, targetID)
}

// Unfollow removes a follow edge. Unfollowing a non-followed user is a no-op.
func (g *Graph) Unfollow(ctx context.Context, followerID, targetID string) error {
	return g.follows.Unfollow(ctx, followerID, targetID)
}

// IsFollowing reports whether followerID currently follows targetID.
func (g *Graph) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	return g.follows.IsFollowing(ctx, followerID, targetID)
}

// Counts returns the follower and following totals for a user.
func (g *Graph) Counts(ctx context.Context, userID string) (followers, following int, err error) {
	return g.follows.Counts(ctx, userID)
}
