package app

import (
	"math"
	"strings"

	"quiztimer-service/internal/domain"
)

// ComputeStats builds the answer-selection distribution for one question of
// one pack from historical sessions. Question text is matched ordinally
// (these are generated strings, not user queries) and blank selections, the
// engine's timeout sentinel, are excluded. Pure and side-effect-free; call
// it per presentation, history can grow between calls.
func ComputeStats(packID, questionText string, history []domain.GameSession) domain.AnswerStats {
	stats := domain.AnswerStats{CountsByAnswer: make(map[string]int)}
	if strings.TrimSpace(packID) == "" || strings.TrimSpace(questionText) == "" {
		return stats
	}

	for _, session := range history {
		if session.PackID != packID {
			continue
		}
		for _, answer := range session.Answers {
			if answer.QuestionText != questionText {
				continue
			}
			if strings.TrimSpace(answer.SelectedAnswer) == "" {
				continue
			}
			stats.CountsByAnswer[answer.SelectedAnswer]++
			stats.TotalAnswers++
		}
	}
	return stats
}

// Percentages renders a stats distribution as whole percentages per answer.
// A zero total yields all-zero percentages rather than dividing.
func Percentages(stats domain.AnswerStats) map[string]int {
	out := make(map[string]int, len(stats.CountsByAnswer))
	for answer, count := range stats.CountsByAnswer {
		if stats.TotalAnswers == 0 {
			out[answer] = 0
			continue
		}
		out[answer] = int(math.Round(100 * float64(count) / float64(stats.TotalAnswers)))
	}
	return out
}
