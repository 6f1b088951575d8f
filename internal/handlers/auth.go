package handlers

import (
	"errors"
	"net/http"

	"github.com/clipshare/backend/internal/accounts"
	"github.com/clipshare/backend/internal/logging"
	"github.com/clipshare/backend/internal/middleware"
	"github.com/clipshare/backend/internal/web"
)

// AuthHandler implements registration, login, and logout.
type AuthHandler struct {
	Accounts AccountService
	Tokens   TokenIssuer
	Limiter  middleware.RateLimiter
}

// Register handles GET and POST /register.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		web.Render(w, r, "register.html", page{Title: "Register", Flash: popFlash(w, r)})
	case http.MethodPost:
		h.register(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Limiter != nil && !h.Limiter.Allow("register:"+middleware.ClientIP(r)) {
		flashRedirect(w, r, "Too many attempts, try again shortly", "/register")
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		flashRedirect(w, r, "Could not read the registration form", "/register")
		return
	}

	in := accounts.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	if file, header, err := r.FormFile("profile_pic"); err == nil {
		defer file.Close()
		in.Image = file
		in.ImageName = header.Filename
	}

	user, err := h.Accounts.Register(ctx, in)
	switch {
	case err == nil:
		logger.Info("user registered", "userId", user.ID, "username", user.Username)
		flashRedirect(w, r, "Registration successful, you can now log in", "/login")
	case errors.Is(err, accounts.ErrDuplicateIdentity):
		flashRedirect(w, r, "Username or email is already registered", "/register")
	case errors.Is(err, accounts.ErrMissingFields):
		flashRedirect(w, r, "Please fill in all required fields", "/register")
	default:
		logger.Error("registration failed", "error", err)
		flashRedirect(w, r, "Registration failed, please try again", "/register")
	}
}

// Login handles GET and POST /login.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		web.Render(w, r, "login.html", page{Title: "Log in", Flash: popFlash(w, r)})
	case http.MethodPost:
		h.login(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if h.Limiter != nil && !h.Limiter.Allow("login:"+middleware.ClientIP(r)) {
		flashRedirect(w, r, "Too many attempts, try again shortly", "/login")
		return
	}

	user, err := h.Accounts.Authenticate(ctx, r.FormValue("identifier"), r.FormValue("password"))
	if err != nil {
		if !errors.Is(err, accounts.ErrInvalidCredentials) {
			logger.Error("authenticate", "error", err)
		}
		flashRedirect(w, r, "Invalid username or password", "/login")
		return
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		logger.Error("issue credential token", "error", err, "userId", user.ID)
		flashRedirect(w, r, "Login failed, please try again", "/login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.Tokens.TTL().Seconds()),
	})

	logger.Info("user logged in", "userId", user.ID)
	flashRedirect(w, r, "Welcome back, "+user.Username, "/")
}

// Logout handles GET /logout. The cookie is cleared unconditionally;
// logging out an anonymous session is harmless.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	flashRedirect(w, r, "You have been logged out", "/")
}
