package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"quiztimer-service/internal/app"
	"quiztimer-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// BankStore is a Redis-backed deduplicated question bank. The fingerprint
// set is the uniqueness constraint: SADD is atomic, so a 0 reply is the
// race-safe duplicate signal and no check-then-insert window exists.
// Question bodies live in a hash keyed by fingerprint.
type BankStore struct {
	client *redis.Client
}

func NewBankStore(client *redis.Client) *BankStore {
	return &BankStore{client: client}
}

func (s *BankStore) InsertQuestion(ctx context.Context, question domain.Question) error {
	fp := app.Fingerprint(question)

	added, err := s.client.SAdd(ctx, s.fingerprintKey(), fp).Result()
	if err != nil {
		return fmt.Errorf("claim fingerprint: %w", err)
	}
	if added == 0 {
		return domain.ErrDuplicateQuestion
	}

	if question.ID == "" {
		question.ID = newID()
	}
	data, err := json.Marshal(question)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	if err := s.client.HSet(ctx, s.questionsKey(), fp, data).Err(); err != nil {
		return fmt.Errorf("store question: %w", err)
	}
	return nil
}

func (s *BankStore) GetByCategory(ctx context.Context, categoryID string) ([]domain.Question, error) {
	raw, err := s.client.HGetAll(ctx, s.questionsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("read bank: %w", err)
	}
	var matched []domain.Question
	for _, item := range raw {
		var q domain.Question
		if err := json.Unmarshal([]byte(item), &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		if q.CategoryID == categoryID {
			matched = append(matched, q)
		}
	}
	return matched, nil
}

func (s *BankStore) fingerprintKey() string {
	return "quiz:bank:fingerprints"
}

func (s *BankStore) questionsKey() string {
	return "quiz:bank:questions"
}
