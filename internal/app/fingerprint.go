package app

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"quiztimer-service/internal/domain"
)

// Fingerprint computes a stable content hash for a question. Case,
// surrounding whitespace, and the order of the incorrect answers do not
// affect the digest, so reworded copies of the same question collide on
// purpose. Used by bank stores as the uniqueness key.
func Fingerprint(q domain.Question) string {
	incorrect := make([]string, len(q.IncorrectAnswers))
	for i, a := range q.IncorrectAnswers {
		incorrect[i] = normalizeField(a)
	}
	sort.Strings(incorrect)

	payload := normalizeField(q.Prompt) + "|" + normalizeField(q.CorrectAnswer) + "|" + strings.Join(incorrect, ",")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func normalizeField(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
