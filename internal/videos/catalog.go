// Package videos implements the media catalog and reaction ledger.
package videos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
	"github.com/clipshare/backend/internal/storage"
)

var (
	// ErrUnsupportedFormat indicates the uploaded file extension is not an
	// accepted video format.
	ErrUnsupportedFormat = errors.New("unsupported video format")
	// ErrForbidden indicates the requester does not own the video.
	ErrForbidden = errors.New("video is owned by another user")
)

// DefaultTitle replaces a blank upload title.
const DefaultTitle = "Untitled"

// videoExtensions lists the accepted upload formats.
var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
}

// Catalog manages uploaded videos, their backing media files, and the
// per-video reaction sets.
type Catalog struct {
	videos repositories.VideoRepository
	media  storage.MediaStore

	now func() time.Time
}

// NewCatalog constructs a Catalog over the given repository and media store.
func NewCatalog(videos repositories.VideoRepository, media storage.MediaStore) *Catalog {
	return &Catalog{videos: videos, media: media, now: time.Now}
}

// Upload validates the file extension, stores the content under a generated
// collision-free name, and records the video. Video ids are xids, so listing
// by ascending id preserves upload order.
func (c *Catalog) Upload(ctx context.Context, ownerID, title, filename string, r io.Reader) (models.Video, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !videoExtensions[ext] {
		return models.Video{}, ErrUnsupportedFormat
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}

	id := xid.New().String()
	stored := "videos/" + id + ext

	if _, err := c.media.Save(ctx, stored, r); err != nil {
		return models.Video{}, fmt.Errorf("store video file: %w", err)
	}

	video := models.Video{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Filename:  stored,
		CreatedAt: c.now().UTC(),
	}

	if err := c.videos.Create(ctx, video); err != nil {
		_ = c.media.Remove(ctx, stored)
		return models.Video{}, err
	}

	return video, nil
}

// Delete removes a video owned by the requester. The catalog record goes
// first; the backing file removal is best-effort and never surfaced.
func (c *Catalog) Delete(ctx context.Context, videoID, requesterID string) error {
	video, err := c.videos.Find(ctx, videoID)
	if err != nil {
		return err
	}
	if video.OwnerID != requesterID {
		return ErrForbidden
	}

	if err := c.videos.Delete(ctx, videoID); err != nil {
		return err
	}

	if err := c.media.Remove(ctx, video.Filename); err != nil {
		logging.FromContext(ctx).Warn("remove video file", "error", err, "videoId", videoID)
	}

	return nil
}

// ListAll returns summaries for every video in upload order.
func (c *Catalog) ListAll(ctx context.Context) ([]models.VideoSummary, error) {
	return c.videos.ListAll(ctx)
}

// ListByOwner returns summaries for one user's videos in upload order.
func (c *Catalog) ListByOwner(ctx context.Context, ownerID string) ([]models.VideoSummary, error) {
	return c.videos.ListByOwner(ctx, ownerID)
}

// Like records a like, evicting any dislike the user held on the video.
// Liking twice is a no-op.
func (c *Catalog) Like(ctx context.Context, videoID, userID string) error {
	return c.videos.React(ctx, videoID, userID, models.ReactionLike)
}

// Dislike records a dislike, evicting any like the user held on the video.
func (c *Catalog) Dislike(ctx context.Context, videoID, userID string) error {
	return c.videos.React(ctx, videoID, userID, models.ReactionDislike)
}
