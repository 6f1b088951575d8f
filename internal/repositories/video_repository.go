package repositories

import (
	"context"

	"github.com/clipshare/backend/internal/models"
)

// VideoRepository exposes data access for uploaded videos and their
// reaction sets.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	Find(ctx context.Context, id string) (models.Video, error)
	Delete(ctx context.Context, id string) error
	// ListAll returns summaries for every video in upload order.
	ListAll(ctx context.Context) ([]models.VideoSummary, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.VideoSummary, error)
	// React records a like or dislike, replacing any opposite reaction the
	// user previously held on the same video.
	React(ctx context.Context, videoID, userID, kind string) error
}
