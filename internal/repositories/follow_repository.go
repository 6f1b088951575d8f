package repositories

import "context"

// FollowRepository defines data access for the directed follow graph.
// Follow and Unfollow are idempotent at this layer; policy checks such as
// self-follow rejection live above it.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	Counts(ctx context.Context, userID string) (followers, following int, err error)
}
