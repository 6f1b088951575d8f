package middleware

import (
	"errors"
	"net/http"

	"github.com/clipshare/backend/internal/auth"
	"github.com/clipshare/backend/internal/logging"
)

// SessionCookie is the name of the credential token cookie.
const SessionCookie = "clipshare_session"

// TokenVerifier resolves a raw credential token to a user id.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

// Session resolves the session cookie to an authenticated identity on the
// request context. Requests without a valid token proceed as anonymous;
// expired tokens are treated the same way.
func Session(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err == nil && cookie.Value != "" {
				userID, err := tokens.Verify(cookie.Value)
				switch {
				case err == nil:
					r = r.WithContext(auth.WithUserID(r.Context(), userID))
				case errors.Is(err, auth.ErrTokenExpired):
					logging.FromContext(r.Context()).Info("session token expired")
				default:
					logging.FromContext(r.Context()).Warn("invalid session token", "error", err)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser gates mutating routes: anonymous requests never reach the
// domain components and are redirected to the login page instead.
func RequireUser(onReject http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserIDFromContext(r.Context()); !ok {
				onReject.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
