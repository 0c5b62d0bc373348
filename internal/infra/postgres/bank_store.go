package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiztimer-service/internal/app"
	"quiztimer-service/internal/domain"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
)

// unique_violation, https://www.postgresql.org/docs/current/errcodes-appendix.html
const uniqueViolation = "23505"

// BankStore is the Postgres question bank. The UNIQUE index on fingerprint
// is the uniqueness constraint of record; inserts race safely and the
// constraint violation maps to domain.ErrDuplicateQuestion.
type BankStore struct {
	pool *pgxpool.Pool
}

func NewBankStore(pool *pgxpool.Pool) *BankStore {
	return &BankStore{pool: pool}
}

func (s *BankStore) InsertQuestion(ctx context.Context, question domain.Question) error {
	if question.ID == "" {
		question.ID = newID()
	}
	data, err := json.Marshal(question)
	if err != nil {
		return fmt.Errorf("marshal question: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO bank_questions (id, fingerprint, category_id, data) VALUES ($1, $2, $3, $4)`,
		question.ID, app.Fingerprint(question), question.CategoryID, data)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateQuestion
		}
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

func (s *BankStore) GetByCategory(ctx context.Context, categoryID string) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM bank_questions WHERE category_id=$1`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("query bank: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var q domain.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
