package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"quiztimer-service/internal/app"
	"quiztimer-service/internal/config"
	"quiztimer-service/internal/domain"
	pgstore "quiztimer-service/internal/infra/postgres"
	redisstore "quiztimer-service/internal/infra/redis"
	"quiztimer-service/internal/infra/trivia"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewImportCmd fetches questions from the Open Trivia Database and inserts
// them into the deduplicated question bank.
func NewImportCmd(configPath *string) *cobra.Command {
	var (
		amount     int
		category   string
		difficulty string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import trivia questions into the question bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, amount, category, difficulty)
		},
	}
	cmd.Flags().IntVar(&amount, "amount", 10, "number of questions to fetch")
	cmd.Flags().StringVar(&category, "category", "", "opentdb category id")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium, or hard")
	return cmd
}

func runImport(ctx context.Context, configPath string, amount int, category, difficulty string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	bank, err := bankStoreFromConfig(ctx, cfg)
	if err != nil {
		return err
	}

	questions, err := trivia.NewClient().Fetch(ctx, amount, category, difficulty)
	if err != nil {
		return err
	}

	inserted, duplicates := 0, 0
	for _, q := range questions {
		switch err := bank.InsertQuestion(ctx, q); {
		case err == nil:
			inserted++
		case errors.Is(err, domain.ErrDuplicateQuestion):
			duplicates++
		default:
			return err
		}
	}
	log.Printf("imported %d questions (%d duplicates skipped)", inserted, duplicates)
	return nil
}

func bankStoreFromConfig(ctx context.Context, cfg config.Config) (app.BankStore, error) {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisstore.NewBankStore(client), nil
	}
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		return pgstore.NewBankStore(pool), nil
	}
	return nil, fmt.Errorf("question bank needs redis or postgres configured")
}
