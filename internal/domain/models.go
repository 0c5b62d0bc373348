package domain

import (
	"strings"
	"time"
)

// Difficulty grades a question pack.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyHard:
		return "hard"
	default:
		return "medium"
	}
}

// ParseDifficulty maps a difficulty name to its enum value; unknown names
// fall back to medium, the pack default.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Question models an MCQ question with one correct and three incorrect answers.
type Question struct {
	ID               string   `json:"id,omitempty"`
	Prompt           string   `json:"prompt"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
	CategoryID       string   `json:"categoryId,omitempty"`
}

// Complete reports whether the question is playable: a non-blank prompt,
// a non-blank correct answer, and exactly three non-blank incorrect answers.
func (q Question) Complete() bool {
	if strings.TrimSpace(q.Prompt) == "" || strings.TrimSpace(q.CorrectAnswer) == "" {
		return false
	}
	if len(q.IncorrectAnswers) != 3 {
		return false
	}
	for _, a := range q.IncorrectAnswers {
		if strings.TrimSpace(a) == "" {
			return false
		}
	}
	return true
}

// QuestionPack is a named, ordered collection of questions sharing a
// difficulty and a per-question time limit.
type QuestionPack struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Difficulty       Difficulty `json:"difficulty"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
	CategoryID       string     `json:"categoryId,omitempty"`
	Questions        []Question `json:"questions"`
}

// GameSessionAnswer records one answered (or timed-out) question within a session.
type GameSessionAnswer struct {
	QuestionIndex    int    `json:"questionIndex"`
	QuestionText     string `json:"questionText"`
	SelectedAnswer   string `json:"selectedAnswer"`
	CorrectAnswer    string `json:"correctAnswer"`
	IsCorrect        bool   `json:"isCorrect"`
	TimeSpentSeconds int    `json:"timeSpentSeconds"`
}

// GameSession is one complete play-through of a pack by one player. The
// engine appends to it during play and finalizes it once; it is immutable
// after that.
type GameSession struct {
	ID               string              `json:"id,omitempty"`
	PlayerName       string              `json:"playerName"`
	PackID           string              `json:"packId"`
	PackName         string              `json:"packName"`
	StartedAtUTC     time.Time           `json:"startedAtUtc"`
	EndedAtUTC       time.Time           `json:"endedAtUtc"`
	TotalTimeSeconds int                 `json:"totalTimeSeconds"`
	CorrectCount     int                 `json:"correctCount"`
	QuestionCount    int                 `json:"questionCount"`
	Answers          []GameSessionAnswer `json:"answers"`
}

// AnswerStats is the selection distribution for one (pack, question) pair,
// derived on demand from session history.
type AnswerStats struct {
	TotalAnswers   int            `json:"totalAnswers"`
	CountsByAnswer map[string]int `json:"countsByAnswer"`
}
