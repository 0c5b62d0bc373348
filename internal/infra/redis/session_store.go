package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"quiztimer-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// SessionStore keeps each pack's finished sessions as a Redis list of JSON
// documents. History is append-only, so RPUSH plus a full LRANGE read keeps
// the aggregator's caller-supplied-snapshot contract.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) InsertSession(ctx context.Context, session domain.GameSession) error {
	if session.ID == "" {
		session.ID = newID()
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.RPush(ctx, s.key(session.PackID), data).Err(); err != nil {
		return fmt.Errorf("push session: %w", err)
	}
	return nil
}

func (s *SessionStore) GetSessionsForPack(ctx context.Context, packID string) ([]domain.GameSession, error) {
	raw, err := s.client.LRange(ctx, s.key(packID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}
	sessions := make([]domain.GameSession, 0, len(raw))
	for _, item := range raw {
		var session domain.GameSession
		if err := json.Unmarshal([]byte(item), &session); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *SessionStore) key(packID string) string {
	return "quiz:sessions:" + packID
}
