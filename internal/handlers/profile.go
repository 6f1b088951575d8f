package handlers

import (
	"errors"
	"net/http"

	"github.com/clipshare/backend/internal/accounts"
	"github.com/clipshare/backend/internal/auth"
	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
	"github.com/clipshare/backend/internal/social"
	"github.com/clipshare/backend/internal/videos"
	"github.com/clipshare/backend/internal/web"
)

// ProfileHandler renders profile pages and dispatches their form actions:
// follow, unfollow, update_profile, and delete_video.
type ProfileHandler struct {
	Accounts AccountService
	Graph    SocialGraph
	Catalog  VideoCatalog

	MediaBase string
}

// Handle serves GET and POST /profile/{username}.
func (h ProfileHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewerID, _ := auth.UserIDFromContext(ctx)

	subject, err := h.Accounts.FindByUsername(ctx, r.PathValue("username"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			flashRedirect(w, r, "User not found", "/")
			return
		}
		logging.FromContext(ctx).Error("load profile", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, r, subject, viewerID)
	case http.MethodPost:
		h.action(w, r, subject, viewerID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h ProfileHandler) render(w http.ResponseWriter, r *http.Request, subject models.User, viewerID string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	followers, following, err := h.Graph.Counts(ctx, subject.ID)
	if err != nil {
		logger.Error("count follows", "error", err, "userId", subject.ID)
	}

	isFollowing := false
	if viewerID != "" && viewerID != subject.ID {
		isFollowing, err = h.Graph.IsFollowing(ctx, viewerID, subject.ID)
		if err != nil {
			logger.Error("check follow edge", "error", err)
		}
	}

	owned, err := h.Catalog.ListByOwner(ctx, subject.ID)
	if err != nil {
		logger.Error("list owned videos", "error", err, "userId", subject.ID)
	}

	// Password hash never leaves the handler layer.
	subject.Password = ""

	web.Render(w, r, "profile.html", page{
		Title:     subject.Username,
		Flash:     popFlash(w, r),
		Viewer:    viewerUsername(r, h.Accounts),
		MediaBase: h.MediaBase,
		IsOwn:     viewerID == subject.ID,
		Profile: models.Profile{
			User:        subject,
			Followers:   followers,
			Following:   following,
			IsFollowing: isFollowing,
			Videos:      owned,
		},
	})
}

func (h ProfileHandler) action(w http.ResponseWriter, r *http.Request, subject models.User, viewerID string) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	back := "/profile/" + subject.Username

	switch action := r.FormValue("action"); action {
	case "follow":
		err := h.Graph.Follow(ctx, viewerID, subject.ID)
		switch {
		case err == nil:
			flashRedirect(w, r, "You are now following "+subject.Username, back)
		case errors.Is(err, social.ErrSelfFollow):
			flashRedirect(w, r, "You cannot follow yourself", back)
		default:
			logger.Error("follow", "error", err)
			flashRedirect(w, r, "Something went wrong, please try again", back)
		}

	case "unfollow":
		if err := h.Graph.Unfollow(ctx, viewerID, subject.ID); err != nil {
			logger.Error("unfollow", "error", err)
			flashRedirect(w, r, "Something went wrong, please try again", back)
			return
		}
		flashRedirect(w, r, "You unfollowed "+subject.Username, back)

	case "update_profile":
		if viewerID != subject.ID {
			flashRedirect(w, r, "You can only edit your own profile", back)
			return
		}
		newUsername := r.FormValue("username")
		err := h.Accounts.UpdateProfile(ctx, viewerID, newUsername, r.FormValue("description"))
		switch {
		case err == nil:
			if newUsername == "" {
				newUsername = subject.Username
			}
			flashRedirect(w, r, "Profile updated", "/profile/"+newUsername)
		case errors.Is(err, accounts.ErrDuplicateIdentity):
			flashRedirect(w, r, "Username already exists", back)
		default:
			logger.Error("update profile", "error", err, "userId", viewerID)
			flashRedirect(w, r, "Something went wrong, please try again", back)
		}

	case "delete_video":
		err := h.Catalog.Delete(ctx, r.FormValue("video_id"), viewerID)
		switch {
		case err == nil:
			flashRedirect(w, r, "Video deleted", back)
		case errors.Is(err, videos.ErrForbidden):
			flashRedirect(w, r, "You can only delete your own videos", back)
		case errors.Is(err, repositories.ErrNotFound):
			flashRedirect(w, r, "That video no longer exists", back)
		default:
			logger.Error("delete video", "error", err)
			flashRedirect(w, r, "Something went wrong, please try again", back)
		}

	default:
		flashRedirect(w, r, "Unknown action", back)
	}
}
