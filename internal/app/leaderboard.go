package app

import (
	"sort"
	"strings"

	"quiztimer-service/internal/domain"
)

// DefaultLeaderboardSize is how many sessions TopN returns when the caller
// does not care.
const DefaultLeaderboardSize = 5

// TopN ranks the historical sessions of a pack: most correct answers first,
// ties broken by faster total time. A blank packID yields an empty board;
// ranking is advisory, never an error.
func TopN(packID string, history []domain.GameSession, n int) []domain.GameSession {
	ranked := make([]domain.GameSession, 0, len(history))
	if strings.TrimSpace(packID) == "" {
		return ranked
	}
	if n <= 0 {
		n = DefaultLeaderboardSize
	}

	for _, session := range history {
		if session.PackID == packID {
			ranked = append(ranked, session)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CorrectCount != ranked[j].CorrectCount {
			return ranked[i].CorrectCount > ranked[j].CorrectCount
		}
		return ranked[i].TotalTimeSeconds < ranked[j].TotalTimeSeconds
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
