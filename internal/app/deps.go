package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clipshare/backend/internal/accounts"
	"github.com/clipshare/backend/internal/auth"
	"github.com/clipshare/backend/internal/config"
	"github.com/clipshare/backend/internal/db"
	"github.com/clipshare/backend/internal/handlers"
	"github.com/clipshare/backend/internal/middleware"
	"github.com/clipshare/backend/internal/repositories"
	"github.com/clipshare/backend/internal/social"
	"github.com/clipshare/backend/internal/storage"
	"github.com/clipshare/backend/internal/videos"
)

// buildDependencies wires the PostgreSQL-backed service graph.
func buildDependencies(pool db.Pool, cfg config.Config, tokens *auth.TokenService, media storage.MediaStore) handlers.Dependencies {
	users := repositories.NewPostgresUserRepository(pool)
	follows := repositories.NewPostgresFollowRepository(pool)
	videoRepo := repositories.NewPostgresVideoRepository(pool)

	return assemble(users, follows, videoRepo, cfg, tokens, media)
}

// buildMemoryDependencies wires the in-memory service graph used for local
// development, and bootstraps the owner account that normally comes from the
// database seed.
func buildMemoryDependencies(ctx context.Context, cfg config.Config, tokens *auth.TokenService, media storage.MediaStore) (handlers.Dependencies, error) {
	store := repositories.NewMemoryStore()
	deps := assemble(store.Users(), store.Follows(), store.Videos(), cfg, tokens, media)

	if cfg.OwnerUsername != "" {
		// The owner gets an unguessable password; log in as a regular
		// account and rename it if you need to drive this profile.
		_, err := deps.Accounts.Register(ctx, accounts.RegisterInput{
			Username: cfg.OwnerUsername,
			Email:    fmt.Sprintf("%s@localhost", cfg.OwnerUsername),
			Password: uuid.NewString(),
		})
		if err != nil {
			return handlers.Dependencies{}, fmt.Errorf("bootstrap owner account: %w", err)
		}
	}

	return deps, nil
}

func assemble(
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	videoRepo repositories.VideoRepository,
	cfg config.Config,
	tokens *auth.TokenService,
	media storage.MediaStore,
) handlers.Dependencies {
	graph := social.NewGraph(follows, cfg.AllowSelfFollow)
	accountSvc := accounts.NewService(users, graph, media, cfg.OwnerUsername)
	catalog := videos.NewCatalog(videoRepo, media)

	limiter := middleware.NewIPRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow, cfg.LoginRateLimit, 0)

	return handlers.Dependencies{
		Accounts:       accountSvc,
		Graph:          graph,
		Catalog:        catalog,
		Tokens:         tokens,
		LoginLimiter:   limiter,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}
}
