package app_test

import (
	"testing"

	"quiztimer-service/internal/app"
	"quiztimer-service/internal/domain"
)

func TestTopNOrdersByScoreThenTime(t *testing.T) {
	history := []domain.GameSession{
		{PackID: "p1", PlayerName: "slow", CorrectCount: 5, TotalTimeSeconds: 55},
		{PackID: "p1", PlayerName: "fast", CorrectCount: 5, TotalTimeSeconds: 40},
		{PackID: "p1", PlayerName: "best", CorrectCount: 7, TotalTimeSeconds: 90},
		{PackID: "p2", PlayerName: "other", CorrectCount: 9, TotalTimeSeconds: 10},
	}

	top := app.TopN("p1", history, 5)
	if len(top) != 3 {
		t.Fatalf("expected 3 sessions for p1, got %d", len(top))
	}
	if top[0].PlayerName != "best" {
		t.Fatalf("expected highest score first, got %q", top[0].PlayerName)
	}
	if top[1].PlayerName != "fast" || top[2].PlayerName != "slow" {
		t.Fatalf("tie must prefer faster time: %q before %q", top[1].PlayerName, top[2].PlayerName)
	}
}

func TestTopNReturnsFewerThanN(t *testing.T) {
	history := []domain.GameSession{
		{PackID: "p1", CorrectCount: 1},
		{PackID: "p1", CorrectCount: 2},
	}
	top := app.TopN("p1", history, 5)
	if len(top) != 2 {
		t.Fatalf("expected both sessions, got %d", len(top))
	}
}

func TestTopNTruncatesToN(t *testing.T) {
	history := make([]domain.GameSession, 8)
	for i := range history {
		history[i] = domain.GameSession{PackID: "p1", CorrectCount: i}
	}
	top := app.TopN("p1", history, 0) // defaults to 5
	if len(top) != app.DefaultLeaderboardSize {
		t.Fatalf("expected default size %d, got %d", app.DefaultLeaderboardSize, len(top))
	}
	if top[0].CorrectCount != 7 {
		t.Fatalf("expected best score first, got %d", top[0].CorrectCount)
	}
}

func TestTopNBlankPackIsEmpty(t *testing.T) {
	history := []domain.GameSession{{PackID: "p1", CorrectCount: 3}}
	if top := app.TopN("", history, 5); len(top) != 0 {
		t.Fatalf("blank pack id must rank nothing, got %d", len(top))
	}
	if top := app.TopN("missing", history, 5); len(top) != 0 {
		t.Fatalf("unknown pack id must rank nothing, got %d", len(top))
	}
}
