package app

import (
	"context"
	"fmt"

	"quiztimer-service/internal/domain"
)

// PackRepository loads pack snapshots (from cache/backing store).
type PackRepository interface {
	GetPack(ctx context.Context, packID string) (domain.QuestionPack, error)
}

// PackStore is the full pack collaborator boundary. The engine itself only
// ever reads; editing flows go through Upsert/Delete.
type PackStore interface {
	GetAllPacks(ctx context.Context) ([]domain.QuestionPack, error)
	UpsertPack(ctx context.Context, pack domain.QuestionPack) error
	DeletePack(ctx context.Context, packID string) error
}

// SessionStore persists finished sessions and serves pack history.
type SessionStore interface {
	InsertSession(ctx context.Context, session domain.GameSession) error
	GetSessionsForPack(ctx context.Context, packID string) ([]domain.GameSession, error)
}

// BankStore is the deduplicated question bank. InsertQuestion fails with
// domain.ErrDuplicateQuestion on a fingerprint collision.
type BankStore interface {
	InsertQuestion(ctx context.Context, question domain.Question) error
	GetByCategory(ctx context.Context, categoryID string) ([]domain.Question, error)
}

// GameService composes the session engine with the storage collaborators:
// it snapshots the pack at start, persists the finished session, and serves
// history-derived stats and leaderboards.
type GameService struct {
	packs    PackRepository
	sessions SessionStore
}

func NewGameService(packs PackRepository, sessions SessionStore) *GameService {
	return &GameService{packs: packs, sessions: sessions}
}

// StartSession loads the pack and starts a fresh engine for one player.
// The finished session is persisted fire-and-observe: an insert failure is
// reported through events.Warning and never interrupts the play-through.
func (s *GameService) StartSession(ctx context.Context, packID, playerName string, events EngineEvents, opts ...EngineOption) (*Engine, error) {
	pack, err := s.packs.GetPack(ctx, packID)
	if err != nil {
		return nil, err
	}

	finished := events.SessionFinished
	warn := events.Warning
	events.SessionFinished = func(session domain.GameSession, summary string) {
		if err := s.sessions.InsertSession(ctx, session); err != nil && warn != nil {
			warn(fmt.Errorf("persist session: %w", err))
		}
		if finished != nil {
			finished(session, summary)
		}
	}

	engine := NewEngine(events, opts...)
	if err := engine.Start(pack, playerName); err != nil {
		return nil, err
	}
	return engine, nil
}

// QuestionStats computes the live answer distribution for one question.
// Store failures degrade to empty stats; live stats are advisory.
func (s *GameService) QuestionStats(ctx context.Context, packID, questionText string) domain.AnswerStats {
	history, err := s.sessions.GetSessionsForPack(ctx, packID)
	if err != nil {
		return domain.AnswerStats{CountsByAnswer: map[string]int{}}
	}
	return ComputeStats(packID, questionText, history)
}

// Leaderboard returns the pack's top sessions, best score first.
func (s *GameService) Leaderboard(ctx context.Context, packID string, n int) []domain.GameSession {
	history, err := s.sessions.GetSessionsForPack(ctx, packID)
	if err != nil {
		return nil
	}
	return TopN(packID, history, n)
}
