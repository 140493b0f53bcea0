package exam

import (
	"fmt"
	"strings"
)

// IsCorrectOption reports whether option key matches the question's
// authoritative answer string. Generated answers arrive in several shapes
// ("B", "b", "B)", "B. some explanation"), so after upper-casing and trimming
// both sides the key matches on exact equality, a trailing close-paren, or
// the answer starting with the key.
func IsCorrectOption(answer, key string) bool {
	if answer == "" {
		return false
	}
	a := strings.ToUpper(strings.TrimSpace(answer))
	k := strings.ToUpper(strings.TrimSpace(key))
	return a == k || a == k+")" || strings.HasPrefix(a, k)
}

// Score is the outcome of grading one attempt.
type Score struct {
	Correct    int
	Total      int
	Percentage string // one decimal, e.g. "50.0"; transported as a string
}

// CalculateScore grades an answer map (question index -> selected option key)
// against the exam's questions. The comparison is strict case-insensitive
// equality, not the looser IsCorrectOption matching: both sides are option
// keys by construction. Unanswered questions count as incorrect and Total is
// always the full question count.
func CalculateScore(questions []Question, answers map[int]string) Score {
	correct := 0
	for i, q := range questions {
		sel, ok := answers[i]
		if !ok || sel == "" || q.Answer == "" {
			continue
		}
		if strings.EqualFold(sel, q.Answer) {
			correct++
		}
	}
	s := Score{Correct: correct, Total: len(questions), Percentage: "0.0"}
	if s.Total > 0 {
		s.Percentage = fmt.Sprintf("%.1f", float64(correct)/float64(s.Total)*100)
	}
	return s
}
