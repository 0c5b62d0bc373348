package memory

import (
	"context"
	"sync"

	"quiztimer-service/internal/domain"
)

// PackStore keeps question packs in memory. Useful for tests and for
// running the service without a database.
type PackStore struct {
	mu    sync.RWMutex
	packs map[string]domain.QuestionPack
}

func NewPackStore() *PackStore {
	return &PackStore{packs: make(map[string]domain.QuestionPack)}
}

// Seed inserts packs in bulk, assigning IDs where missing.
func (s *PackStore) Seed(packs ...domain.QuestionPack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, pack := range packs {
		if pack.ID == "" {
			pack.ID = newID()
		}
		s.packs[pack.ID] = pack
	}
}

func (s *PackStore) GetPack(_ context.Context, packID string) (domain.QuestionPack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pack, ok := s.packs[packID]
	if !ok {
		return domain.QuestionPack{}, domain.ErrPackNotFound
	}
	return pack, nil
}

func (s *PackStore) GetAllPacks(_ context.Context) ([]domain.QuestionPack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	packs := make([]domain.QuestionPack, 0, len(s.packs))
	for _, pack := range s.packs {
		packs = append(packs, pack)
	}
	return packs, nil
}

func (s *PackStore) UpsertPack(_ context.Context, pack domain.QuestionPack) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pack.ID == "" {
		pack.ID = newID()
	}
	s.packs[pack.ID] = pack
	return nil
}

func (s *PackStore) DeletePack(_ context.Context, packID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.packs, packID)
	return nil
}
