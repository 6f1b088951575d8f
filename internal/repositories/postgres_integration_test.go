package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/cockroach-go/v2/testserver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/xid"

	"github.com/clipshare/backend/internal/models"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	server, err := testserver.NewTestServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "start cockroach test server: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, server.PGURL().String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to cockroach test server: %v\n", err)
		server.Stop()
		os.Exit(1)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
		pool.Close()
		server.Stop()
		os.Exit(1)
	}

	testPool = pool

	code := m.Run()

	pool.Close()
	server.Stop()

	os.Exit(code)
}

func TestPostgresUserRepository_CreateFindAndUpdate(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	repo := NewPostgresUserRepository(testPool)
	user := createTestUser(t, repo, "alice")

	dup := models.User{
		ID:        uuid.NewString(),
		Username:  "alice2",
		Email:     user.Email,
		Password:  "another-hash",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}

	dup.Username = user.Username
	dup.Email = "unique@example.com"
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}

	fetched, err := repo.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if fetched.ID != user.ID || fetched.Email != user.Email || fetched.Password != user.Password {
		t.Fatalf("unexpected user fetched: %+v", fetched)
	}

	byEmail, err := repo.FindByIdentifier(ctx, user.Email)
	if err != nil {
		t.Fatalf("find by email identifier: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected %s got %s", user.ID, byEmail.ID)
	}

	if _, err := repo.FindByIdentifier(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown identifier, got %v", err)
	}

	if err := repo.UpdateProfile(ctx, user.ID, "alicia", "new bio"); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	fetched, err = repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if fetched.Username != "alicia" || fetched.Description != "new bio" {
		t.Fatalf("expected updated fields to persist, got %+v", fetched)
	}

	other := createTestUser(t, repo, "bob")
	if err := repo.UpdateProfile(ctx, other.ID, "alicia", ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict renaming onto a taken username, got %v", err)
	}

	if err := repo.UpdateProfile(ctx, uuid.NewString(), "ghost", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing user, got %v", err)
	}
}

func TestPostgresFollowRepository_EdgesAndCounts(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	alice := createTestUser(t, userRepo, "alice")
	bob := createTestUser(t, userRepo, "bob")
	carol := createTestUser(t, userRepo, "carol")

	repo := NewPostgresFollowRepository(testPool)

	if err := repo.Follow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := repo.Follow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("expected re-follow to be a no-op, got %v", err)
	}
	if err := repo.Follow(ctx, carol.ID, bob.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}

	if err := repo.Follow(ctx, alice.ID, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound following a missing user, got %v", err)
	}

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if !following {
		t.Fatal("expected alice to follow bob")
	}

	reverse, err := repo.IsFollowing(ctx, bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("is following: %v", err)
	}
	if reverse {
		t.Fatal("follow edges are directed")
	}

	followers, followingCount, err := repo.Counts(ctx, bob.ID)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if followers != 2 || followingCount != 0 {
		t.Fatalf("expected 2/0 got %d/%d", followers, followingCount)
	}

	if err := repo.Unfollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := repo.Unfollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("expected repeated unfollow to be a no-op, got %v", err)
	}

	followers, _, err = repo.Counts(ctx, bob.ID)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if followers != 1 {
		t.Fatalf("expected 1 follower got %d", followers)
	}
}

func TestPostgresVideoRepository_CatalogAndReactions(t *testing.T) {
	ctx := context.Background()
	resetDatabase(t)

	userRepo := NewPostgresUserRepository(testPool)
	alice := createTestUser(t, userRepo, "alice")
	bob := createTestUser(t, userRepo, "bob")

	repo := NewPostgresVideoRepository(testPool)

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		video := models.Video{
			ID:        xid.New().String(),
			OwnerID:   alice.ID,
			Title:     title,
			Filename:  "videos/" + title + ".mp4",
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.Create(ctx, video); err != nil {
			t.Fatalf("create video %s: %v", title, err)
		}
		ids = append(ids, video.ID)
	}

	orphan := models.Video{
		ID:       xid.New().String(),
		OwnerID:  uuid.NewString(),
		Title:    "orphan",
		Filename: "videos/orphan.mp4",
	}
	if err := repo.Create(ctx, orphan); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing owner, got %v", err)
	}

	listed, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 videos got %d", len(listed))
	}
	for i, title := range []string{"first", "second", "third"} {
		if listed[i].Title != title {
			t.Fatalf("expected %q at position %d, got %q", title, i, listed[i].Title)
		}
		if listed[i].Uploader != "alice" {
			t.Fatalf("unexpected uploader %q", listed[i].Uploader)
		}
	}

	if err := repo.React(ctx, ids[0], bob.ID, models.ReactionLike); err != nil {
		t.Fatalf("react: %v", err)
	}
	if err := repo.React(ctx, ids[0], bob.ID, models.ReactionLike); err != nil {
		t.Fatalf("expected repeated like to be a no-op, got %v", err)
	}
	if err := repo.React(ctx, ids[0], alice.ID, models.ReactionDislike); err != nil {
		t.Fatalf("react: %v", err)
	}

	listed, err = repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if listed[0].Likes != 1 || listed[0].Dislikes != 1 {
		t.Fatalf("expected 1/1 got %d/%d", listed[0].Likes, listed[0].Dislikes)
	}

	// Switching a reaction replaces the previous one.
	if err := repo.React(ctx, ids[0], bob.ID, models.ReactionDislike); err != nil {
		t.Fatalf("react: %v", err)
	}
	listed, err = repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if listed[0].Likes != 0 || listed[0].Dislikes != 2 {
		t.Fatalf("expected 0/2 got %d/%d", listed[0].Likes, listed[0].Dislikes)
	}

	if err := repo.React(ctx, xid.New().String(), bob.ID, models.ReactionLike); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound reacting to a missing video, got %v", err)
	}

	owned, err := repo.ListByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(owned) != 3 {
		t.Fatalf("expected 3 videos got %d", len(owned))
	}

	if err := repo.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}

	if _, err := repo.Find(ctx, ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrationsDir := filepath.Join("..", "..", "migrations")
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(migrationsDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}

		if _, err := pool.Exec(ctx, string(contents)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	conn, err := testPool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "TRUNCATE TABLE video_reactions, follows, videos, users CASCADE"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func createTestUser(t *testing.T, repo *PostgresUserRepository, username string) models.User {
	t.Helper()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password-hash",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}
