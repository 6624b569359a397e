// Package identity resolves the signed-in student from the session value the
// browser carries, and ends that session on sign-out.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"semaphore/booking/internal/model"
)

// CookieName is the only cookie name Firebase Hosting forwards to backends.
const CookieName = "__session"

var ErrNoUser = errors.New("no signed-in user")

type Provider interface {
	// CreateSession exchanges a client-side ID token for a session value.
	CreateSession(ctx context.Context, idToken string, ttl time.Duration) (string, error)
	// CurrentUser returns ErrNoUser when the session is absent, invalid or revoked.
	CurrentUser(ctx context.Context, session string) (*model.User, error)
	SignOut(ctx context.Context, session string) error
}

// SessionFromRequest prefers the session cookie and falls back to a bearer token.
func SessionFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func SetCookie(w http.ResponseWriter, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl.Seconds()),
	})
}

func ClearCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
