package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiztimer-service/internal/app"
	"quiztimer-service/internal/config"
	"quiztimer-service/internal/domain"
	"quiztimer-service/internal/infra/memory"
	pgstore "quiztimer-service/internal/infra/postgres"
	redisstore "quiztimer-service/internal/infra/redis"
	transport "quiztimer-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.PackLoader
	if pool != nil {
		loader = pgstore.NewPackStore(pool)
	} else {
		seeded := memory.NewPackStore()
		seeded.Seed(samplePacks()...)
		loader = memory.NewStorePackLoader(seeded)
	}
	packTTL := config.Duration(cfg.Quiz.PackTTL, 10*time.Minute)
	packs := memory.NewPackRepository(loader, packTTL)

	var sessions app.SessionStore
	switch {
	case redisClient != nil:
		sessions = redisstore.NewSessionStore(redisClient)
	case pool != nil:
		sessions = pgstore.NewSessionStore(pool)
	default:
		sessions = memory.NewSessionStore()
	}

	service := app.NewGameService(packs, sessions)

	engineOpts := []app.EngineOption{}
	if pause := config.Duration(cfg.Quiz.RevealPause, 0); pause > 0 {
		engineOpts = append(engineOpts, app.WithRevealPause(pause))
	}
	wsHandler := transport.NewWSHandler(service, engineOpts...)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// samplePacks provides a minimal playable pack for running without a database.
func samplePacks() []domain.QuestionPack {
	return []domain.QuestionPack{
		{
			ID:               "pack-1",
			Name:             "Nordic capitals",
			Difficulty:       domain.DifficultyEasy,
			TimeLimitSeconds: 30,
			Questions: []domain.Question{
				{
					Prompt:           "What is the capital of Sweden?",
					CorrectAnswer:    "Stockholm",
					IncorrectAnswers: []string{"Oslo", "Copenhagen", "Helsinki"},
				},
				{
					Prompt:           "What is the capital of Norway?",
					CorrectAnswer:    "Oslo",
					IncorrectAnswers: []string{"Stockholm", "Bergen", "Reykjavik"},
				},
			},
		},
	}
}
