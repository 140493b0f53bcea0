package exam

import (
	"fmt"
	"strings"
)

// ExportText renders a question set as plain text for download: numbered
// question, lettered options, the correct-answer line, with a --- separator
// between consecutive questions. Pure; no side effects.
func ExportText(questions []Question) string {
	blocks := make([]string, 0, len(questions))
	for i, q := range questions {
		var b strings.Builder
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, q.Question)
		for _, k := range q.OptionKeys() {
			fmt.Fprintf(&b, "%s) %s\n", k, q.Options[k])
		}
		fmt.Fprintf(&b, "Correct Answer: %s\n", q.Answer)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n---\n\n")
}
