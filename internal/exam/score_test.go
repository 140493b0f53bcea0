package exam

import "testing"

func TestIsCorrectOption(t *testing.T) {
	cases := []struct {
		answer, key string
		want        bool
	}{
		{"B", "B", true},
		{"b", "B", true},
		{" B ", "B", true},
		{"B)", "B", true},
		{"B. because X", "B", true},
		{"C", "B", false},
		{"", "B", false},
		{"A", "a", true},
	}
	for _, c := range cases {
		if got := IsCorrectOption(c.answer, c.key); got != c.want {
			t.Errorf("IsCorrectOption(%q, %q) = %v, want %v", c.answer, c.key, got, c.want)
		}
	}
}

func fourQuestions() []Question {
	answers := []string{"A", "B", "C", "D"}
	qs := make([]Question, 0, 4)
	for i, a := range answers {
		qs = append(qs, Question{
			Question: "q" + string(rune('1'+i)),
			Options: map[string]string{
				"A": "first", "B": "second", "C": "third", "D": "fourth",
			},
			Answer: a,
		})
	}
	return qs
}

func TestCalculateScore(t *testing.T) {
	qs := fourQuestions()
	got := CalculateScore(qs, map[int]string{0: "A", 1: "C", 2: "C"})
	if got.Correct != 2 {
		t.Errorf("Correct = %d, want 2", got.Correct)
	}
	if got.Total != 4 {
		t.Errorf("Total = %d, want 4", got.Total)
	}
	if got.Percentage != "50.0" {
		t.Errorf("Percentage = %q, want %q", got.Percentage, "50.0")
	}
}

func TestCalculateScoreCaseInsensitive(t *testing.T) {
	qs := []Question{{Question: "q", Options: map[string]string{"A": "x", "B": "y"}, Answer: "b"}}
	got := CalculateScore(qs, map[int]string{0: "B"})
	if got.Correct != 1 {
		t.Errorf("Correct = %d, want 1", got.Correct)
	}
}

func TestCalculateScoreEmpty(t *testing.T) {
	got := CalculateScore(nil, nil)
	if got.Correct != 0 || got.Total != 0 || got.Percentage != "0.0" {
		t.Errorf("unexpected score for empty exam: %+v", got)
	}
}
