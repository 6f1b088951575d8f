package repositories

import (
	"context"
	"strings"
	"sync"

	"github.com/clipshare/backend/internal/models"
)

// MemoryStore holds in-process state shared by the in-memory repositories.
// It backs local development and handler tests. A single mutex serializes
// all mutations, which is sufficient for this system's throughput.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[string]models.User
	videos    []models.Video
	reactions map[string]map[string]string // videoID -> userID -> kind
	follows   map[string]map[string]bool   // followerID -> set of followedID
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]models.User),
		reactions: make(map[string]map[string]string),
		follows:   make(map[string]map[string]bool),
	}
}

// Users returns the user repository view of the store.
func (s *MemoryStore) Users() *MemoryUserRepository { return &MemoryUserRepository{s: s} }

// Videos returns the video repository view of the store.
func (s *MemoryStore) Videos() *MemoryVideoRepository { return &MemoryVideoRepository{s: s} }

// Follows returns the follow repository view of the store.
func (s *MemoryStore) Follows() *MemoryFollowRepository { return &MemoryFollowRepository{s: s} }

// MemoryUserRepository implements UserRepository over a MemoryStore.
type MemoryUserRepository struct {
	s *MemoryStore
}

// Create stores a new user, rejecting duplicate usernames or emails.
func (r *MemoryUserRepository) Create(_ context.Context, user models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return ErrConflict
		}
	}
	r.s.users[user.ID] = user
	return nil
}

// FindByID fetches a user by id.
func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

// FindByUsername fetches a user by username.
func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.findByUsernameLocked(username)
}

func (s *MemoryStore) findByUsernameLocked(username string) (models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

// FindByIdentifier fetches a user by username or email.
func (r *MemoryUserRepository) FindByIdentifier(_ context.Context, identifier string) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if user, err := r.s.findByUsernameLocked(identifier); err == nil {
		return user, nil
	}
	email := strings.ToLower(identifier)
	for _, user := range r.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

// UpdateProfile replaces the mutable profile fields of an existing user.
func (r *MemoryUserRepository) UpdateProfile(_ context.Context, id, username, description string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.users[id]
	if !ok {
		return ErrNotFound
	}
	for otherID, other := range r.s.users {
		if otherID != id && other.Username == username {
			return ErrConflict
		}
	}
	user.Username = username
	user.Description = description
	r.s.users[id] = user
	return nil
}

// MemoryFollowRepository implements FollowRepository over a MemoryStore.
type MemoryFollowRepository struct {
	s *MemoryStore
}

// Follow records a follow edge; re-following is a no-op.
func (r *MemoryFollowRepository) Follow(_ context.Context, followerID, followedID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	edges, ok := r.s.follows[followerID]
	if !ok {
		edges = make(map[string]bool)
		r.s.follows[followerID] = edges
	}
	edges[followedID] = true
	return nil
}

// Unfollow removes a follow edge; removing a missing edge is a no-op.
func (r *MemoryFollowRepository) Unfollow(_ context.Context, followerID, followedID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.follows[followerID], followedID)
	return nil
}

// IsFollowing reports whether the follow edge exists.
func (r *MemoryFollowRepository) IsFollowing(_ context.Context, followerID, followedID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.follows[followerID][followedID], nil
}

// Counts returns follower and following totals for a user.
func (r *MemoryFollowRepository) Counts(_ context.Context, userID string) (int, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	following := len(r.s.follows[userID])
	followers := 0
	for _, edges := range r.s.follows {
		if edges[userID] {
			followers++
		}
	}
	return followers, following, nil
}

// MemoryVideoRepository implements VideoRepository over a MemoryStore.
type MemoryVideoRepository struct {
	s *MemoryStore
}

// Create appends a video to the catalog. The backing slice preserves upload
// order for listing.
func (r *MemoryVideoRepository) Create(_ context.Context, video models.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[video.OwnerID]; !ok {
		return ErrNotFound
	}
	for _, existing := range r.s.videos {
		if existing.ID == video.ID {
			return ErrConflict
		}
	}
	r.s.videos = append(r.s.videos, video)
	return nil
}

// Find fetches a video by id.
func (r *MemoryVideoRepository) Find(_ context.Context, id string) (models.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, video := range r.s.videos {
		if video.ID == id {
			return video, nil
		}
	}
	return models.Video{}, ErrNotFound
}

// Delete removes a video and its reactions.
func (r *MemoryVideoRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, video := range r.s.videos {
		if video.ID == id {
			r.s.videos = append(r.s.videos[:i], r.s.videos[i+1:]...)
			delete(r.s.reactions, id)
			return nil
		}
	}
	return ErrNotFound
}

// ListAll returns summaries for all videos in upload order.
func (r *MemoryVideoRepository) ListAll(_ context.Context) ([]models.VideoSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var summaries []models.VideoSummary
	for _, video := range r.s.videos {
		summaries = append(summaries, r.s.summaryLocked(video))
	}
	return summaries, nil
}

// ListByOwner returns summaries for one user's videos in upload order.
func (r *MemoryVideoRepository) ListByOwner(_ context.Context, ownerID string) ([]models.VideoSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var summaries []models.VideoSummary
	for _, video := range r.s.videos {
		if video.OwnerID == ownerID {
			summaries = append(summaries, r.s.summaryLocked(video))
		}
	}
	return summaries, nil
}

func (s *MemoryStore) summaryLocked(video models.Video) models.VideoSummary {
	summary := models.VideoSummary{
		ID:       video.ID,
		Title:    video.Title,
		Filename: video.Filename,
	}
	if owner, ok := s.users[video.OwnerID]; ok {
		summary.Uploader = owner.Username
	}
	for _, kind := range s.reactions[video.ID] {
		switch kind {
		case models.ReactionLike:
			summary.Likes++
		case models.ReactionDislike:
			summary.Dislikes++
		}
	}
	return summary
}

// React records the user's reaction, replacing any opposite one.
func (r *MemoryVideoRepository) React(_ context.Context, videoID, userID, kind string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	found := false
	for _, video := range r.s.videos {
		if video.ID == videoID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}

	set, ok := r.s.reactions[videoID]
	if !ok {
		set = make(map[string]string)
		r.s.reactions[videoID] = set
	}
	set[userID] = kind
	return nil
}

var _ UserRepository = (*MemoryUserRepository)(nil)
var _ FollowRepository = (*MemoryFollowRepository)(nil)
var _ VideoRepository = (*MemoryVideoRepository)(nil)
