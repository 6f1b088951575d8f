package handlers

import (
	"net/http"

	"github.com/clipshare/backend/internal/metrics"
	"github.com/clipshare/backend/internal/middleware"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Accounts     AccountService
	Graph        SocialGraph
	Catalog      VideoCatalog
	Tokens       TokenIssuer
	LoginLimiter middleware.RateLimiter

	// MediaDir is the local directory served under /media/; empty when an
	// object store hosts the files directly.
	MediaDir string
	// MediaBase prefixes stored filenames in rendered pages.
	MediaBase      string
	MaxUploadBytes int64
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	auth := AuthHandler{Accounts: deps.Accounts, Tokens: deps.Tokens, Limiter: deps.LoginLimiter}
	videos := VideoHandler{
		Catalog:        deps.Catalog,
		Accounts:       deps.Accounts,
		MediaBase:      deps.MediaBase,
		MaxUploadBytes: deps.MaxUploadBytes,
	}
	profile := ProfileHandler{
		Accounts:  deps.Accounts,
		Graph:     deps.Graph,
		Catalog:   deps.Catalog,
		MediaBase: deps.MediaBase,
	}

	// Unauthenticated mutation attempts are turned away here, before any
	// domain component is reached.
	requireUser := middleware.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flashRedirect(w, r, "Please log in first", "/login")
	}))

	mux.HandleFunc("/{$}", videos.Index)
	mux.HandleFunc("/register", auth.Register)
	mux.HandleFunc("/login", auth.Login)
	mux.HandleFunc("/logout", auth.Logout)
	mux.Handle("/upload", requireUser(http.HandlerFunc(videos.Upload)))
	mux.Handle("/profile/{username}", requireUser(http.HandlerFunc(profile.Handle)))
	mux.Handle("/video/{id}/like", requireUser(http.HandlerFunc(videos.Like)))
	mux.Handle("/video/{id}/dislike", requireUser(http.HandlerFunc(videos.Dislike)))

	if deps.MediaDir != "" {
		fs := http.FileServer(http.Dir(deps.MediaDir))
		mux.Handle("/media/", http.StripPrefix("/media/", fs))
	}

	mux.HandleFunc("/healthz", health.Handle)
	mux.Handle("/metrics", metrics.Handler())
}
