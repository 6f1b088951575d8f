package handlers

import (
	"net/http"
	"net/url"
)

// flashCookie carries a one-shot notice across the redirect that follows
// every form submission. It is set on rejection or success, rendered once by
// the next page load, and cleared.
const flashCookie = "clipshare_flash"

func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60,
	})
}

// popFlash reads and clears the pending flash message, if any.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}

// flashRedirect sets a notice and sends the browser to target.
func flashRedirect(w http.ResponseWriter, r *http.Request, message, target string) {
	setFlash(w, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// backOrIndex returns the referring page when it is local, otherwise the index.
func backOrIndex(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) {
		return "/"
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}
