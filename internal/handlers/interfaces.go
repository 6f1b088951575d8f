package handlers

import (
	"context"
	"io"
	"time"

	"github.com/clipshare/backend/internal/accounts"
	"github.com/clipshare/backend/internal/models"
)

// AccountService captures the credential store operations required by the
// auth and profile handlers.
type AccountService interface {
	Register(ctx context.Context, in accounts.RegisterInput) (models.User, error)
	Authenticate(ctx context.Context, identifier, password string) (models.User, error)
	UpdateProfile(ctx context.Context, userID, username, description string) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// SocialGraph captures the follow operations required by the profile handler.
type SocialGraph interface {
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
	IsFollowing(ctx context.Context, followerID, targetID string) (bool, error)
	Counts(ctx context.Context, userID string) (followers, following int, err error)
}

// VideoCatalog captures the media catalog and reaction ledger operations.
type VideoCatalog interface {
	Upload(ctx context.Context, ownerID, title, filename string, r io.Reader) (models.Video, error)
	Delete(ctx context.Context, videoID, requesterID string) error
	ListAll(ctx context.Context) ([]models.VideoSummary, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.VideoSummary, error)
	Like(ctx context.Context, videoID, userID string) error
	Dislike(ctx context.Context, videoID, userID string) error
}

// TokenIssuer mints credential tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	TTL() time.Duration
}
