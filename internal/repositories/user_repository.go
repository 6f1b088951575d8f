package repositories

import (
	"context"

	"github.com/clipshare/backend/internal/models"
)

// UserRepository defines the data access contract for users.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	// FindByIdentifier resolves a login identifier that may be either a
	// username or an email address.
	FindByIdentifier(ctx context.Context, identifier string) (models.User, error)
	UpdateProfile(ctx context.Context, id, username, description string) error
}
