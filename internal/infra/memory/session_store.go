package memory

import (
	"context"
	"sync"

	"quiztimer-service/internal/domain"
)

// SessionStore is an in-memory implementation of app.SessionStore. Finished
// sessions are append-only; history reads return copies.
type SessionStore struct {
	mu       sync.RWMutex
	sessions []domain.GameSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) InsertSession(_ context.Context, session domain.GameSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == "" {
		session.ID = newID()
	}
	s.sessions = append(s.sessions, session)
	return nil
}

func (s *SessionStore) GetSessionsForPack(_ context.Context, packID string) ([]domain.GameSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.GameSession
	for _, session := range s.sessions {
		if session.PackID == packID {
			matched = append(matched, session)
		}
	}
	return matched, nil
}
