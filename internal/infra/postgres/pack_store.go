package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiztimer-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PackStore keeps question packs as one JSONB row each.
type PackStore struct {
	pool *pgxpool.Pool
}

func NewPackStore(pool *pgxpool.Pool) *PackStore {
	return &PackStore{pool: pool}
}

func (s *PackStore) GetPack(ctx context.Context, packID string) (domain.QuestionPack, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM packs WHERE id=$1`, packID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionPack{}, domain.ErrPackNotFound
	}
	if err != nil {
		return domain.QuestionPack{}, fmt.Errorf("load pack: %w", err)
	}
	var pack domain.QuestionPack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return domain.QuestionPack{}, fmt.Errorf("unmarshal pack: %w", err)
	}
	return pack, nil
}

// LoadPack satisfies memory.PackLoader so a TTL cache can front this store.
func (s *PackStore) LoadPack(ctx context.Context, packID string) (domain.QuestionPack, error) {
	return s.GetPack(ctx, packID)
}

func (s *PackStore) GetAllPacks(ctx context.Context) ([]domain.QuestionPack, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM packs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	defer rows.Close()

	var packs []domain.QuestionPack
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan pack: %w", err)
		}
		var pack domain.QuestionPack
		if err := json.Unmarshal(raw, &pack); err != nil {
			return nil, fmt.Errorf("unmarshal pack: %w", err)
		}
		packs = append(packs, pack)
	}
	return packs, rows.Err()
}

func (s *PackStore) UpsertPack(ctx context.Context, pack domain.QuestionPack) error {
	if pack.ID == "" {
		pack.ID = newID()
	}
	data, err := json.Marshal(pack)
	if err != nil {
		return fmt.Errorf("marshal pack: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO packs (id, data) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data`,
		pack.ID, data)
	if err != nil {
		return fmt.Errorf("upsert pack: %w", err)
	}
	return nil
}

func (s *PackStore) DeletePack(ctx context.Context, packID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM packs WHERE id=$1`, packID); err != nil {
		return fmt.Errorf("delete pack: %w", err)
	}
	return nil
}
