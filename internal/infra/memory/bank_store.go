package memory

import (
	"context"
	"sync"

	"quiztimer-service/internal/app"
	"quiztimer-service/internal/domain"
)

// BankStore is an in-memory deduplicated question bank keyed by content
// fingerprint. Inserts are append-only; there is no update path.
type BankStore struct {
	mu        sync.RWMutex
	questions map[string]domain.Question // fingerprint -> question
}

func NewBankStore() *BankStore {
	return &BankStore{questions: make(map[string]domain.Question)}
}

func (s *BankStore) InsertQuestion(_ context.Context, question domain.Question) error {
	fp := app.Fingerprint(question)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[fp]; ok {
		return domain.ErrDuplicateQuestion
	}
	if question.ID == "" {
		question.ID = newID()
	}
	s.questions[fp] = question
	return nil
}

func (s *BankStore) GetByCategory(_ context.Context, categoryID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []domain.Question
	for _, q := range s.questions {
		if q.CategoryID == categoryID {
			matched = append(matched, q)
		}
	}
	return matched, nil
}
