// Package session keeps server-side login sessions. Clients hold a signed
// token naming the session; the session record itself lives in a Store.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postboard/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrInvalidToken = errors.New("invalid session token")
)

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions by id. Get returns ErrNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type Manager struct {
	store  Store
	tokens *jwt.Service
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(store Store, tokens *jwt.Service, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		tokens: tokens,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for the user and returns it with its token.
func (m *Manager) Create(ctx context.Context, userID, username string) (*Session, string, error) {
	s := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  username,
		ExpiresAt: m.now().Add(m.ttl).UTC(),
	}

	if err := m.store.Save(ctx, s); err != nil {
		return nil, "", fmt.Errorf("failed to save session: %w", err)
	}

	token, err := m.tokens.GenerateToken(s.ID, s.UserID, m.ttl)
	if err != nil {
		_ = m.store.Delete(ctx, s.ID)
		return nil, "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return s, token, nil
}

// Resolve returns the live session named by token.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	s, err := m.store.Get(ctx, claims.SessionID())
	if err != nil {
		return nil, err
	}
	if s.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}
	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, s.ID)
		return nil, ErrNotFound
	}
	return s, nil
}

// Destroy removes the session named by token, also when the token itself has
// expired. Unknown or malformed tokens are ignored so logout is always safe
// to repeat.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sessionID, err := m.tokens.SessionID(token)
	if err != nil {
		return nil
	}
	if err := m.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
