package videos

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
)

type mediaStub struct {
	saved   []string
	removed []string
}

func (m *mediaStub) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	m.saved = append(m.saved, name)
	return "/" + name, nil
}

func (m *mediaStub) Remove(_ context.Context, name string) error {
	m.removed = append(m.removed, name)
	return nil
}

func newTestCatalog(t *testing.T) (*Catalog, *repositories.MemoryStore, *mediaStub) {
	t.Helper()

	store := repositories.NewMemoryStore()
	for _, u := range []models.User{
		{ID: "alice-id", Username: "alice", Email: "alice@example.com"},
		{ID: "bob-id", Username: "bob", Email: "bob@example.com"},
	} {
		require.NoError(t, store.Users().Create(context.Background(), u))
	}

	media := &mediaStub{}
	return NewCatalog(store.Videos(), media), store, media
}

func TestUpload(t *testing.T) {
	catalog, _, media := newTestCatalog(t)

	video, err := catalog.Upload(context.Background(), "alice-id", "My Clip", "holiday.MP4", strings.NewReader("bytes"))
	require.NoError(t, err)

	assert.NotEmpty(t, video.ID)
	assert.Equal(t, "alice-id", video.OwnerID)
	assert.Equal(t, "My Clip", video.Title)
	assert.True(t, strings.HasPrefix(video.Filename, "videos/"))
	assert.True(t, strings.HasSuffix(video.Filename, ".mp4"), "extension should be lowercased")

	require.Len(t, media.saved, 1)
	assert.Equal(t, video.Filename, media.saved[0])
}

func TestUploadDefaultsTitle(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)

	video, err := catalog.Upload(context.Background(), "alice-id", "   ", "clip.mov", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, video.Title)
}

func TestUploadRejectsUnsupportedFormats(t *testing.T) {
	catalog, _, media := newTestCatalog(t)

	for _, name := range []string{"malware.exe", "notes.txt", "archive.zip", "noextension"} {
		_, err := catalog.Upload(context.Background(), "alice-id", "t", name, strings.NewReader("bytes"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "filename %q", name)
	}
	assert.Empty(t, media.saved, "rejected uploads must not touch storage")
}

func TestUploadRollsBackFileOnRecordFailure(t *testing.T) {
	catalog, _, media := newTestCatalog(t)

	_, err := catalog.Upload(context.Background(), "ghost-id", "t", "clip.mp4", strings.NewReader("bytes"))
	require.Error(t, err)

	require.Len(t, media.saved, 1)
	require.Len(t, media.removed, 1)
	assert.Equal(t, media.saved[0], media.removed[0])
}

func TestDelete(t *testing.T) {
	catalog, _, media := newTestCatalog(t)
	ctx := context.Background()

	video, err := catalog.Upload(ctx, "alice-id", "t", "clip.mp4", strings.NewReader("bytes"))
	require.NoError(t, err)

	t.Run("not the owner", func(t *testing.T) {
		assert.ErrorIs(t, catalog.Delete(ctx, video.ID, "bob-id"), ErrForbidden)
	})

	t.Run("owner", func(t *testing.T) {
		require.NoError(t, catalog.Delete(ctx, video.ID, "alice-id"))
		assert.Contains(t, media.removed, video.Filename)

		listed, err := catalog.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("unknown video", func(t *testing.T) {
		assert.ErrorIs(t, catalog.Delete(ctx, "missing", "alice-id"), repositories.ErrNotFound)
	})
}

func TestListAllPreservesUploadOrder(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := catalog.Upload(ctx, "alice-id", title, "clip.mp4", strings.NewReader("bytes"))
		require.NoError(t, err)
	}

	listed, err := catalog.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "first", listed[0].Title)
	assert.Equal(t, "second", listed[1].Title)
	assert.Equal(t, "third", listed[2].Title)
	assert.Equal(t, "alice", listed[0].Uploader)
}

func TestReactions(t *testing.T) {
	catalog, _, _ := newTestCatalog(t)
	ctx := context.Background()

	video, err := catalog.Upload(ctx, "alice-id", "t", "clip.mp4", strings.NewReader("bytes"))
	require.NoError(t, err)

	counts := func() (int, int) {
		listed, err := catalog.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		return listed[0].Likes, listed[0].Dislikes
	}

	require.NoError(t, catalog.Like(ctx, video.ID, "bob-id"))
	likes, dislikes := counts()
	assert.Equal(t, 1, likes)
	assert.Zero(t, dislikes)

	// Liking again changes nothing.
	require.NoError(t, catalog.Like(ctx, video.ID, "bob-id"))
	likes, dislikes = counts()
	assert.Equal(t, 1, likes)
	assert.Zero(t, dislikes)

	// Switching to a dislike evicts the like.
	require.NoError(t, catalog.Dislike(ctx, video.ID, "bob-id"))
	likes, dislikes = counts()
	assert.Zero(t, likes)
	assert.Equal(t, 1, dislikes)

	// A second user's reaction is counted independently.
	require.NoError(t, catalog.Like(ctx, video.ID, "alice-id"))
	likes, dislikes = counts()
	assert.Equal(t, 1, likes)
	assert.Equal(t, 1, dislikes)

	t.Run("unknown video", func(t *testing.T) {
		assert.ErrorIs(t, catalog.Like(ctx, "missing", "bob-id"), repositories.ErrNotFound)
	})
}
