package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slotwise/models"

	"github.com/go-redis/redis/v8"
)

const (
	bookingKeyPrefix    = "wizard:"
	rescheduleKeyPrefix = "reschedule:"
)

// SessionStore keeps wizard sessions in Redis for the session TTL.
// Sessions are re-enterable: every handler call loads, mutates and
// re-saves the full session document.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) SaveBooking(ctx context.Context, session *models.WizardSession) error {
	return s.save(ctx, bookingKeyPrefix+session.SessionID, session)
}

func (s *SessionStore) GetBooking(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	var session models.WizardSession
	if err := s.load(ctx, bookingKeyPrefix+sessionID, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionStore) DeleteBooking(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, bookingKeyPrefix+sessionID).Err()
}

func (s *SessionStore) SaveReschedule(ctx context.Context, session *models.RescheduleSession) error {
	return s.save(ctx, rescheduleKeyPrefix+session.SessionID, session)
}

func (s *SessionStore) GetReschedule(ctx context.Context, sessionID string) (*models.RescheduleSession, error) {
	var session models.RescheduleSession
	if err := s.load(ctx, rescheduleKeyPrefix+sessionID, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionStore) DeleteReschedule(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, rescheduleKeyPrefix+sessionID).Err()
}

func (s *SessionStore) save(ctx context.Context, key string, session any) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *SessionStore) load(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("failed to parse session: %w", err)
	}
	return nil
}
