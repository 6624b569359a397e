// Package session holds the login state of office and director accounts.
// The state travels as a signed token in the officeLoginData cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"semaphore/booking/internal/auth"
	"semaphore/booking/internal/revocation"
)

const CookieName = "officeLoginData"

var ErrInvalidSession = errors.New("invalid session")

type Session struct {
	ID        string
	Office    string
	Username  string
	ExpiresAt time.Time
}

type Manager struct {
	secret       string
	issuer       string
	ttl          time.Duration
	denylist     revocation.Denylist
	secureCookie bool
}

func NewManager(secret, issuer string, ttl time.Duration, denylist revocation.Denylist, secureCookie bool) *Manager {
	return &Manager{
		secret:       secret,
		issuer:       issuer,
		ttl:          ttl,
		denylist:     denylist,
		secureCookie: secureCookie,
	}
}

func (m *Manager) Issue(office, username string) (string, Session, error) {
	office = strings.TrimSpace(office)
	if office == "" {
		return "", Session{}, ErrInvalidSession
	}
	token, err := auth.NewToken(m.secret, m.issuer, m.ttl, auth.Claims{
		Office:   office,
		Username: username,
	})
	if err != nil {
		return "", Session{}, err
	}
	sess, err := m.verify(token)
	if err != nil {
		return "", Session{}, err
	}
	return token, *sess, nil
}

func (m *Manager) Parse(ctx context.Context, token string) (*Session, error) {
	sess, err := m.verify(token)
	if err != nil {
		return nil, err
	}
	if m.denylist != nil {
		revoked, err := m.denylist.IsRevoked(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidSession
		}
	}
	return sess, nil
}

func (m *Manager) verify(token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}
	claims, err := auth.ParseToken(m.secret, m.issuer, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if strings.TrimSpace(claims.Office) == "" || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidSession
	}
	return &Session{
		ID:        claims.ID,
		Office:    claims.Office,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (m *Manager) Revoke(ctx context.Context, sess Session) error {
	if m.denylist == nil {
		return nil
	}
	return m.denylist.Revoke(ctx, sess.ID, time.Until(sess.ExpiresAt))
}

// FromRequest parses the session cookie. A missing cookie is ErrInvalidSession.
func (m *Manager) FromRequest(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrInvalidSession
	}
	return m.Parse(r.Context(), cookie.Value)
}

func (m *Manager) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
