package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/study-portal/study-portal/internal/exam"
)

// maxSourceChars caps the combined material text sent to the model; local
// models run with tight context windows.
const maxSourceChars = 10000

const systemPrompt = "You are a helpful assistant that creates multiple-choice questions. " +
	"Always follow the exact format requested."

// Service turns study-material text into multiple-choice questions via an LLM.
type Service struct {
	chat Chat
}

func NewService(chat Chat) *Service {
	return &Service{chat: chat}
}

// Generate prompts the model over the combined source texts and parses the
// reply. Returns ErrNoQuestions when the reply yields nothing usable.
func (s *Service) Generate(ctx context.Context, sources []string, numQuestions int) ([]exam.Question, error) {
	combined := strings.TrimSpace(strings.Join(sources, "\n\n"))
	if len(combined) > maxSourceChars {
		combined = combined[:maxSourceChars] + "..."
	}

	reply, err := s.chat.Chat(ctx, systemPrompt, buildPrompt(combined, numQuestions))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	return ParseMCQs(reply, numQuestions)
}

func buildPrompt(material string, n int) string {
	return fmt.Sprintf(`Create exactly %d multiple-choice questions from the following study material.

Format each question EXACTLY like this:

Question 1: [Question text here]
A) [Option A]
B) [Option B]
C) [Option C]
D) [Option D]
Answer: A

IMPORTANT: For the Answer line, only write the letter (A, B, C, or D), nothing else.

Study material:
%s

Now create %d questions following the exact format above:`, n, material, n)
}
