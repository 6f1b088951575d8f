package handlers

import (
	"net/http"

	"github.com/clipshare/backend/internal/auth"
	"github.com/clipshare/backend/internal/models"
)

// page is the data handed to every template. Viewer is the logged-in user's
// username, empty for anonymous visitors.
type page struct {
	Title     string
	Flash     string
	Viewer    string
	MediaBase string

	Videos  []models.VideoSummary
	Profile models.Profile
	IsOwn   bool
}

// viewerUsername resolves the authenticated identity to a display name for
// the navigation bar. Lookup failures degrade to an anonymous view.
func viewerUsername(r *http.Request, accounts AccountService) string {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return ""
	}
	user, err := accounts.FindByID(r.Context(), userID)
	if err != nil {
		return ""
	}
	return user.Username
}
