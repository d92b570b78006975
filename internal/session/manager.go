package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/emilythestrangee/technews/backend/internal/models"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

// Manager ties the Store and Codec to HTTP requests.
type Manager struct {
	store  *Store
	codec  *Codec
	cookie CookieConfig
}

func NewManager(store *Store, codec *Codec, cookie CookieConfig) *Manager {
	return &Manager{store: store, codec: codec, cookie: cookie}
}

// Load resolves the session referenced by the request cookie. A missing,
// forged or expired cookie yields ErrNotFound.
func (m *Manager) Load(r *http.Request) (*models.Session, error) {
	c, err := r.Cookie(m.cookie.Name)
	if err != nil || c.Value == "" {
		return nil, ErrNotFound
	}
	id, err := m.codec.Decode(c.Value)
	if err != nil {
		return nil, ErrNotFound
	}
	return m.store.Get(r.Context(), id)
}

// Start creates a session for userID and sets its cookie. A session the
// request already carries is destroyed first, and sessions that have already
// expired are swept at the same time.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request, userID int) (*models.Session, error) {
	prev, err := m.Load(r)
	switch {
	case err == nil:
		if err := m.store.Delete(r.Context(), prev.ID); err != nil {
			return nil, err
		}
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	if _, err := m.store.DeleteExpired(r.Context()); err != nil {
		return nil, err
	}
	sess, err := m.store.Create(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	value, err := m.codec.Encode(sess.ID, sess.ExpiresAt)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
	})
	return sess, nil
}

// End destroys the current session, if any, and clears the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.Load(r)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if sess != nil {
		if err := m.store.Delete(r.Context(), sess.ID); err != nil {
			return err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookie.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	if sess == nil {
		return ErrNotFound
	}
	return nil
}
