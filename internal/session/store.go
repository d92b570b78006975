// Package session keeps server side login state. The browser holds a signed
// cookie naming a row in the sessions table; the row holds the user id.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilythestrangee/technews/backend/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Store persists sessions in the database. Expiry is judged against now, which
// tests replace with a fixed clock.
type Store struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewStore(db *gorm.DB, ttl time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{db: db, ttl: ttl, now: now}
}

// Create starts a logged in session for userID.
func (s *Store) Create(ctx context.Context, userID int) (*models.Session, error) {
	now := s.now().UTC()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		LoggedIn:  true,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Get returns the live session with the given id. Expired sessions are
// removed and reported as ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	if !s.now().Before(sess.ExpiresAt) {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every session past its expiry and reports how many
// were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
