package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/clipshare/backend/internal/auth"
	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/metrics"
	"github.com/clipshare/backend/internal/repositories"
	"github.com/clipshare/backend/internal/videos"
	"github.com/clipshare/backend/internal/web"
)

// VideoHandler implements the index, upload, and reaction endpoints.
type VideoHandler struct {
	Catalog  VideoCatalog
	Accounts AccountService

	MediaBase      string
	MaxUploadBytes int64
}

// Index handles GET / — the public listing of all videos.
func (h VideoHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	summaries, err := h.Catalog.ListAll(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("list videos", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	web.Render(w, r, "index.html", page{
		Title:     "Home",
		Flash:     popFlash(w, r),
		Viewer:    viewerUsername(r, h.Accounts),
		MediaBase: h.MediaBase,
		Videos:    summaries,
	})
}

// Upload handles GET and POST /upload. Authentication is enforced by the
// route middleware.
func (h VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		web.Render(w, r, "upload.html", page{
			Title:  "Upload",
			Flash:  popFlash(w, r),
			Viewer: viewerUsername(r, h.Accounts),
		})
	case http.MethodPost:
		h.upload(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h VideoHandler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	userID, _ := auth.UserIDFromContext(ctx)

	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		flashRedirect(w, r, "Upload too large or malformed", "/upload")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		flashRedirect(w, r, "Please choose a video file", "/upload")
		return
	}
	defer file.Close()

	video, err := h.Catalog.Upload(ctx, userID, r.FormValue("title"), header.Filename, file)
	switch {
	case err == nil:
		metrics.UploadAccepted()
		logger.Info("video uploaded", "videoId", video.ID, "userId", userID)
		flashRedirect(w, r, "Video uploaded", "/")
	case errors.Is(err, videos.ErrUnsupportedFormat):
		flashRedirect(w, r, "That file format is not supported", "/upload")
	default:
		logger.Error("upload failed", "error", err, "userId", userID)
		flashRedirect(w, r, "Upload failed, please try again", "/upload")
	}
}

// Like handles GET /video/{id}/like.
func (h VideoHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, "Liked the video", h.Catalog.Like)
}

// Dislike handles GET /video/{id}/dislike.
func (h VideoHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, "Disliked the video", h.Catalog.Dislike)
}

func (h VideoHandler) react(w http.ResponseWriter, r *http.Request, notice string, apply func(ctx context.Context, videoID, userID string) error) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)
	videoID := r.PathValue("id")

	err := apply(ctx, videoID, userID)
	switch {
	case err == nil:
		flashRedirect(w, r, notice, backOrIndex(r))
	case errors.Is(err, repositories.ErrNotFound):
		flashRedirect(w, r, "That video no longer exists", "/")
	default:
		logging.FromContext(ctx).Error("record reaction", "error", err, "videoId", videoID)
		flashRedirect(w, r, "Something went wrong, please try again", backOrIndex(r))
	}
}
