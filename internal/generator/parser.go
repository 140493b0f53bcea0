package generator

import (
	"errors"
	"regexp"
	"strings"

	"github.com/study-portal/study-portal/internal/exam"
)

var (
	questionPattern = regexp.MustCompile(`(?i)^(?:question\s*\d*[:.)]|q\d*[:.)]|\d+[:.)])\s*(.+)$`)
	optionPattern   = regexp.MustCompile(`^([A-D])[).]\s*(.+)$`)
	answerPattern   = regexp.MustCompile(`(?i)^(?:correct answer|answer|ans)[:.)]\s*(.+)$`)
)

// ErrNoQuestions means the model reply contained nothing parseable.
var ErrNoQuestions = errors.New("no questions could be parsed from model output")

// ParseMCQs scans model output line by line for the prompted
// "Question N: / A)..D) / Answer: X" shape. Questions without text or with
// fewer than two options are dropped; at most max questions are returned.
// The line patterns tolerate the variations local models actually produce:
// "Q1." headers, "A." options, "Correct Answer: B".
func ParseMCQs(text string, max int) ([]exam.Question, error) {
	var (
		out     []exam.Question
		current *exam.Question
	)
	flush := func() {
		if current != nil && current.Question != "" && len(current.Options) >= 2 {
			out = append(out, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := questionPattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &exam.Question{
				Question: strings.TrimSpace(m[1]),
				Options:  map[string]string{},
			}
			continue
		}
		if current == nil {
			continue
		}
		if m := optionPattern.FindStringSubmatch(line); m != nil {
			current.Options[m[1]] = strings.TrimSpace(m[2])
			continue
		}
		if m := answerPattern.FindStringSubmatch(line); m != nil {
			ans := strings.TrimSpace(m[1])
			if ans != "" {
				// Keep the leading letter only; models sometimes echo "B) text".
				current.Answer = strings.ToUpper(ans[:1])
			}
		}
	}
	flush()

	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out, nil
}
