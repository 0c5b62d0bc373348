package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"quiztimer-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SessionStore persists finished sessions as JSONB, with pack id and start
// time lifted into columns for filtering and ordering.
type SessionStore struct {
	pool *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) InsertSession(ctx context.Context, session domain.GameSession) error {
	if session.ID == "" {
		session.ID = newID()
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO game_sessions (id, pack_id, started_at, data) VALUES ($1, $2, $3, $4)`,
		session.ID, session.PackID, session.StartedAtUTC, data)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SessionStore) GetSessionsForPack(ctx context.Context, packID string) ([]domain.GameSession, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM game_sessions WHERE pack_id=$1 ORDER BY started_at`, packID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.GameSession
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var session domain.GameSession
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}
