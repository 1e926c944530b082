// Package session keeps the signed-in user id in a signed cookie using
// gorilla/sessions.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"

	"jokeshare/src/infra/config"
)

const userIDKey = "userId"

// Store reads and writes the user session cookie.
type Store struct {
	cookies *sessions.CookieStore
	name    string
}

// New creates a cookie-backed session store.
func New(cfg config.SessionConfig) *Store {
	cookies := sessions.NewCookieStore([]byte(cfg.Secret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cookies, name: cfg.CookieName}
}

// UserID returns the user id stored in the request's session, if any.
// Cookies that fail verification are treated as no session.
func (s *Store) UserID(r *http.Request) (string, bool) {
	sess, err := s.cookies.Get(r, s.name)
	if err != nil {
		return "", false
	}
	id, ok := sess.Values[userIDKey].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Create starts a session for userID and writes the cookie.
func (s *Store) Create(w http.ResponseWriter, r *http.Request, userID string) error {
	// A stale or tampered cookie still yields a usable fresh session.
	sess, _ := s.cookies.Get(r, s.name)
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// Destroy expires the session cookie.
func (s *Store) Destroy(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.cookies.Get(r, s.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
