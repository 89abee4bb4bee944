package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postboard/internal/model"
	"postboard/pkg/session"

	"gorm.io/gorm"
)

// SessionStore keeps sessions in the sessions table, so deleting a user
// revokes their sessions through the foreign key.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	sessionModel := &model.SessionModel{
		ID:        sess.ID,
		UserID:    sess.UserID,
		Username:  sess.Username,
		ExpiresAt: sess.ExpiresAt,
	}
	if err := s.db.WithContext(ctx).Create(sessionModel).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	if !validID(id) {
		return nil, session.ErrNotFound
	}

	var sessionModel model.SessionModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sessionModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session.Session{
		ID:        sessionModel.ID,
		UserID:    sessionModel.UserID,
		Username:  sessionModel.Username,
		ExpiresAt: sessionModel.ExpiresAt,
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.SessionModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PurgeExpired drops sessions that expired before now and reports how many.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&model.SessionModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
