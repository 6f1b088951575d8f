package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clipshare/backend/internal/db"
	"github.com/clipshare/backend/internal/models"
)

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO users (id, username, email, password_hash, profile_pic, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, user.ID, user.Username, user.Email, user.Password, user.ProfilePic, user.Description, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByID fetches a user by primary key.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findWhere(ctx, `id = $1`, id)
}

// FindByUsername fetches a user by their unique username.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return r.findWhere(ctx, `username = $1`, username)
}

// FindByIdentifier fetches a user by username or email address.
func (r *PostgresUserRepository) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	return r.findWhere(ctx, `username = $1 OR email = lower($1)`, identifier)
}

func (r *PostgresUserRepository) findWhere(ctx context.Context, where string, arg string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, username, email, password_hash, profile_pic, description, created_at, updated_at
        FROM users
        WHERE `+where, arg)

	var user models.User
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password,
		&user.ProfilePic, &user.Description, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}

	return user, nil
}

// UpdateProfile modifies the mutable profile fields of an existing user.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, id, username, description string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET username = $2, description = $3, updated_at = NOW()
        WHERE id = $1
    `, id, username, description)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("update user profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresFollowRepository provides PostgreSQL-backed persistence for the
// follow graph.
type PostgresFollowRepository struct {
	pool db.Pool
}

// NewPostgresFollowRepository constructs a follow repository backed by PostgreSQL.
func NewPostgresFollowRepository(pool db.Pool) *PostgresFollowRepository {
	return &PostgresFollowRepository{pool: pool}
}

// Follow records a directed follow edge. Re-following is a no-op.
func (r *PostgresFollowRepository) Follow(ctx context.Context, followerID, followedID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO follows (follower_id, followed_id, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (follower_id, followed_id) DO NOTHING
    `, followerID, followedID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert follow: %w", err)
	}

	return nil
}

// Unfollow removes a follow edge. Removing a missing edge is a no-op.
func (r *PostgresFollowRepository) Unfollow(ctx context.Context, followerID, followedID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM follows
        WHERE follower_id = $1 AND followed_id = $2
    `, followerID, followedID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	return nil
}

// IsFollowing reports whether the follow edge exists.
func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	row := conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2
        )
    `, followerID, followedID)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("select follow: %w", err)
	}

	return exists, nil
}

// Counts returns the follower and following totals for a user.
func (r *PostgresFollowRepository) Counts(ctx context.Context, userID string) (int, int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var followers, following int
	row := conn.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM follows WHERE followed_id = $1),
            (SELECT COUNT(*) FROM follows WHERE follower_id = $1)
    `, userID)
	if err := row.Scan(&followers, &following); err != nil {
		return 0, 0, fmt.Errorf("count follows: %w", err)
	}

	return followers, following, nil
}

// PostgresVideoRepository provides PostgreSQL-backed persistence for videos
// and their reaction sets.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create stores a new video record.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, title, filename, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `, video.ID, video.OwnerID, video.Title, video.Filename, video.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// Find fetches a single video record.
func (r *PostgresVideoRepository) Find(ctx context.Context, id string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, title, filename, created_at
        FROM videos
        WHERE id = $1
    `, id)

	var video models.Video
	if err := row.Scan(&video.ID, &video.OwnerID, &video.Title, &video.Filename, &video.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video: %w", err)
	}

	return video, nil
}

// Delete removes a video record along with its reactions.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

const videoSummarySelect = `
        SELECT v.id, v.title, v.filename, u.username,
            COUNT(*) FILTER (WHERE r.kind = 'like'),
            COUNT(*) FILTER (WHERE r.kind = 'dislike')
        FROM videos v
        JOIN users u ON u.id = v.owner_id
        LEFT JOIN video_reactions r ON r.video_id = v.id
`

// ListAll returns summaries for every video in upload order.
func (r *PostgresVideoRepository) ListAll(ctx context.Context) ([]models.VideoSummary, error) {
	return r.list(ctx, videoSummarySelect+`
        GROUP BY v.id, v.title, v.filename, u.username
        ORDER BY v.id
    `)
}

// ListByOwner returns summaries for a single user's videos in upload order.
func (r *PostgresVideoRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.VideoSummary, error) {
	return r.list(ctx, videoSummarySelect+`
        WHERE v.owner_id = $1
        GROUP BY v.id, v.title, v.filename, u.username
        ORDER BY v.id
    `, ownerID)
}

func (r *PostgresVideoRepository) list(ctx context.Context, query string, args ...any) ([]models.VideoSummary, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query video summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.VideoSummary
	for rows.Next() {
		var s models.VideoSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Filename, &s.Uploader, &s.Likes, &s.Dislikes); err != nil {
			return nil, fmt.Errorf("scan video summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video summaries: %w", err)
	}

	return summaries, nil
}

// React upserts the user's reaction on a video. The primary key on
// (video_id, user_id) keeps the like and dislike sets mutually exclusive.
func (r *PostgresVideoRepository) React(ctx context.Context, videoID, userID, kind string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO video_reactions (video_id, user_id, kind, created_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (video_id, user_id)
        DO UPDATE SET kind = EXCLUDED.kind, created_at = NOW()
    `, videoID, userID, kind)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("upsert reaction: %w", err)
	}

	return nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
var _ FollowRepository = (*PostgresFollowRepository)(nil)
var _ VideoRepository = (*PostgresVideoRepository)(nil)
