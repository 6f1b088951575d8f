// Package accounts implements the credential store: registration,
// authentication, and profile updates.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
	"github.com/clipshare/backend/internal/storage"
)

var (
	// ErrDuplicateIdentity indicates the username or email is already taken.
	ErrDuplicateIdentity = errors.New("username or email already registered")
	// ErrInvalidCredentials indicates the identifier/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingFields indicates a required registration field was blank.
	ErrMissingFields = errors.New("username, email, and password are required")
)

// imageExtensions lists the accepted profile picture formats.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// FollowGraph is the subset of the social graph used during registration.
type FollowGraph interface {
	Follow(ctx context.Context, followerID, targetID string) error
}

// Service manages user accounts.
type Service struct {
	users repositories.UserRepository
	graph FollowGraph
	media storage.MediaStore

	ownerUsername string
	now           func() time.Time
}

// NewService constructs an account service. ownerUsername names the bootstrap
// account every new registrant is auto-connected to; pass an empty string to
// disable the behavior.
func NewService(users repositories.UserRepository, graph FollowGraph, media storage.MediaStore, ownerUsername string) *Service {
	return &Service{
		users:         users,
		graph:         graph,
		media:         media,
		ownerUsername: ownerUsername,
		now:           time.Now,
	}
}

// RegisterInput carries the registration form fields. Image is optional; it
// is ignored unless its filename carries an accepted image extension.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	ImageName string
	Image     io.Reader
}

// Register creates a new account with a hashed password, stores the optional
// profile picture, and auto-follows the bootstrap owner account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return models.User{}, ErrMissingFields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}

	user.ProfilePic = s.saveProfilePic(ctx, in.ImageName, in.Image)

	if err := s.users.Create(ctx, user); err != nil {
		if user.ProfilePic != "" {
			_ = s.media.Remove(ctx, user.ProfilePic)
		}
		if errors.Is(err, repositories.ErrConflict) {
			return models.User{}, ErrDuplicateIdentity
		}
		return models.User{}, err
	}

	s.autoFollowOwner(ctx, user)

	return user, nil
}

// saveProfilePic stores an accepted image under a generated name and returns
// the stored name, or "" when no usable image was provided. Storage failures
// leave the picture unset rather than failing registration.
func (s *Service) saveProfilePic(ctx context.Context, name string, r io.Reader) string {
	if r == nil {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !imageExtensions[ext] {
		return ""
	}

	stored := "avatars/" + xid.New().String() + ext
	if _, err := s.media.Save(ctx, stored, r); err != nil {
		logging.FromContext(ctx).Warn("store profile picture", "error", err)
		return ""
	}
	return stored
}

// autoFollowOwner connects a fresh registrant to the bootstrap owner account.
// Failures are logged, never surfaced: registration already succeeded.
func (s *Service) autoFollowOwner(ctx context.Context, user models.User) {
	if s.ownerUsername == "" || user.Username == s.ownerUsername {
		return
	}

	owner, err := s.users.FindByUsername(ctx, s.ownerUsername)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			logging.FromContext(ctx).Warn("look up owner account", "error", err)
		}
		return
	}
	if owner.ID == user.ID {
		return
	}

	if err := s.graph.Follow(ctx, user.ID, owner.ID); err != nil {
		logging.FromContext(ctx).Warn("auto-follow owner account", "error", err, "userId", user.ID)
	}
}

// Authenticate resolves a username-or-email identifier and verifies the
// password against the stored hash.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}

	return user, nil
}

// UpdateProfile changes a user's username and description. A blank username
// keeps the current one.
func (s *Service) UpdateProfile(ctx context.Context, userID, username, description string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		current, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		username = current.Username
	}

	if err := s.users.UpdateProfile(ctx, userID, username, description); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return ErrDuplicateIdentity
		}
		return err
	}
	return nil
}

// FindByID fetches a user by id.
func (s *Service) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

// FindByUsername fetches a user by username.
func (s *Service) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.users.FindByUsername(ctx, username)
}
