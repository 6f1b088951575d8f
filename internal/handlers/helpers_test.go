package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/clipshare/backend/internal/accounts"
	"github.com/clipshare/backend/internal/auth"
	"github.com/clipshare/backend/internal/middleware"
	"github.com/clipshare/backend/internal/models"
	"github.com/clipshare/backend/internal/repositories"
	"github.com/clipshare/backend/internal/social"
	"github.com/clipshare/backend/internal/storage"
	"github.com/clipshare/backend/internal/videos"
)

// testEnv wires the real services over the in-memory store behind the full
// route table, session middleware included.
type testEnv struct {
	handler  http.Handler
	store    *repositories.MemoryStore
	tokens   *auth.TokenService
	accounts *accounts.Service
	catalog  *videos.Catalog
	graph    *social.Graph
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repositories.NewMemoryStore()

	media, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	tokens, err := auth.NewTokenService("handler-test-secret-123", time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	graph := social.NewGraph(store.Follows(), false)
	accountSvc := accounts.NewService(store.Users(), graph, media, "")
	catalog := videos.NewCatalog(store.Videos(), media)

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Accounts:       accountSvc,
		Graph:          graph,
		Catalog:        catalog,
		Tokens:         tokens,
		MediaDir:       media.Dir(),
		MediaBase:      "/media",
		MaxUploadBytes: 8 << 20,
	})

	return &testEnv{
		handler:  middleware.Session(tokens)(mux),
		store:    store,
		tokens:   tokens,
		accounts: accountSvc,
		catalog:  catalog,
		graph:    graph,
	}
}

// signUp registers a user directly against the service and returns the user
// with a valid session cookie.
func (e *testEnv) signUp(t *testing.T, username string) (models.User, *http.Cookie) {
	t.Helper()

	user, err := e.accounts.Register(context.Background(), accounts.RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}

	token, err := e.tokens.Issue(user.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	return user, &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// formRequest builds an urlencoded POST.
func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// multipartRequest builds a multipart POST with the given fields and an
// optional named file part.
func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, fileName string, fileBody []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := mw.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(fileBody)); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// flashFrom extracts the flash message set on the response, if any.
func flashFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == flashCookie && cookie.MaxAge >= 0 {
			message, err := url.QueryUnescape(cookie.Value)
			if err != nil {
				t.Fatalf("unescape flash: %v", err)
			}
			return message
		}
	}
	return ""
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, target string) {
	t.Helper()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected status %d got %d", http.StatusSeeOther, rec.Code)
	}
	if got := rec.Header().Get("Location"); got != target {
		t.Fatalf("expected redirect to %q got %q", target, got)
	}
}
