package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"quiztimer-service/internal/app"
	"quiztimer-service/internal/domain"
	"quiztimer-service/internal/infra/memory"
	pgstore "quiztimer-service/internal/infra/postgres"
	pgmigrations "quiztimer-service/internal/infra/postgres/migrations"
	redisstore "quiztimer-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestTimedSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisAddr, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	applyMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	packStore := pgstore.NewPackStore(pool)
	pack := samplePack()
	if err := packStore.UpsertPack(ctx, pack); err != nil {
		t.Fatalf("seed pack: %v", err)
	}

	redisClient := goredis.NewClient(&goredis.Options{Addr: redisAddr})
	sessions := redisstore.NewSessionStore(redisClient)
	packs := memory.NewPackRepository(packStore, 5*time.Minute)
	service := app.NewGameService(packs, sessions)

	playPerfectSession(t, ctx, service, pack, "Alice")
	playPerfectSession(t, ctx, service, pack, "Bob")

	history, err := sessions.GetSessionsForPack(ctx, pack.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 persisted sessions, got %d", len(history))
	}

	stats := service.QuestionStats(ctx, pack.ID, pack.Questions[0].Prompt)
	if stats.TotalAnswers != 2 || stats.CountsByAnswer[pack.Questions[0].CorrectAnswer] != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if pcts := app.Percentages(stats); pcts[pack.Questions[0].CorrectAnswer] != 100 {
		t.Fatalf("expected 100%%, got %v", pcts)
	}

	top := service.Leaderboard(ctx, pack.ID, 5)
	if len(top) != 2 || top[0].CorrectCount != len(pack.Questions) {
		t.Fatalf("unexpected leaderboard: %+v", top)
	}
}

func TestBankDeduplicationEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	applyMigrations(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	bank := pgstore.NewBankStore(pool)
	q := domain.Question{
		Prompt:           "What is the capital of Sweden?",
		CorrectAnswer:    "Stockholm",
		IncorrectAnswers: []string{"Oslo", "Copenhagen", "Helsinki"},
		CategoryID:       "geo",
	}
	if err := bank.InsertQuestion(ctx, q); err != nil {
		t.Fatalf("insert: %v", err)
	}

	dup := q
	dup.IncorrectAnswers = []string{"Helsinki", "Oslo", "Copenhagen"}
	if err := bank.InsertQuestion(ctx, dup); !errors.Is(err, domain.ErrDuplicateQuestion) {
		t.Fatalf("expected ErrDuplicateQuestion from unique index, got %v", err)
	}

	questions, err := bank.GetByCategory(ctx, "geo")
	if err != nil || len(questions) != 1 {
		t.Fatalf("expected 1 banked question, got %d (err=%v)", len(questions), err)
	}
}

func playPerfectSession(t *testing.T, ctx context.Context, service *app.GameService, pack domain.QuestionPack, player string) {
	t.Helper()

	questions := make(chan app.QuestionView, 8)
	finished := make(chan domain.GameSession, 1)
	events := app.EngineEvents{
		QuestionPresented: func(v app.QuestionView) { questions <- v },
		SessionFinished:   func(s domain.GameSession, _ string) { finished <- s },
	}

	engine, err := service.StartSession(ctx, pack.ID, player, events, app.WithRevealPause(time.Millisecond))
	if err != nil {
		t.Fatalf("start session: %v", err)
	}

	for i := 0; i < len(pack.Questions); i++ {
		select {
		case view := <-questions:
			engine.SubmitAnswer(correctOption(t, pack, view))
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for question %d", i)
		}
	}

	select {
	case session := <-finished:
		if session.CorrectCount != len(pack.Questions) {
			t.Fatalf("expected perfect session, got %+v", session)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for session to finish")
	}
}

func correctOption(t *testing.T, pack domain.QuestionPack, view app.QuestionView) int {
	t.Helper()
	for _, q := range pack.Questions {
		if q.Prompt != view.Prompt {
			continue
		}
		for i, opt := range view.Options {
			if opt == q.CorrectAnswer {
				return i
			}
		}
	}
	t.Fatalf("correct option not found for %q", view.Prompt)
	return -1
}

func samplePack() domain.QuestionPack {
	return domain.QuestionPack{
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
	}
}

func applyMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, port.Port()), func() {
		_ = container.Terminate(ctx)
	}
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
