package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
)

const sampleOutput = `Here are your questions:

Question 1: What is the boiling point of water at sea level?
A) 90 degrees Celsius
B) 100 degrees Celsius
C) 110 degrees Celsius
D) 120 degrees Celsius
Answer: B

Q2. Which gas do plants absorb?
A. Oxygen
B. Nitrogen
C. Carbon dioxide
D. Helium
Correct Answer: C

3) Incomplete one with a single option
A) only option
Answer: A
`

func TestParseMCQs(t *testing.T) {
	qs, err := ParseMCQs(sampleOutput, 10)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("want 2 questions (third has <2 options), got %d: %+v", len(qs), qs)
	}
	if qs[0].Question != "What is the boiling point of water at sea level?" {
		t.Errorf("question text: %q", qs[0].Question)
	}
	if qs[0].Options["B"] != "100 degrees Celsius" {
		t.Errorf("option B: %q", qs[0].Options["B"])
	}
	if qs[0].Answer != "B" {
		t.Errorf("answer: %q", qs[0].Answer)
	}
	if qs[1].Answer != "C" {
		t.Errorf("answer via 'Correct Answer' line: %q", qs[1].Answer)
	}
	if len(qs[1].Options) != 4 {
		t.Errorf("dot-style options: %+v", qs[1].Options)
	}
}

func TestParseMCQsCapsAtMax(t *testing.T) {
	text := strings.Repeat(sampleOutput, 3)
	qs, err := ParseMCQs(text, 4)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(qs) != 4 {
		t.Errorf("want 4 capped questions, got %d", len(qs))
	}
}

func TestParseMCQsAnswerKeepsLetterOnly(t *testing.T) {
	text := "Question 1: q?\nA) x\nB) y\nAnswer: b) y is right\n"
	qs, err := ParseMCQs(text, 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if qs[0].Answer != "B" {
		t.Errorf("answer: %q", qs[0].Answer)
	}
}

func TestParseMCQsNothingUsable(t *testing.T) {
	if _, err := ParseMCQs("sorry, I cannot do that", 5); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("want ErrNoQuestions, got %v", err)
	}
}

type fakeChat struct {
	reply  string
	err    error
	gotMsg string
}

func (f *fakeChat) Chat(_ context.Context, _, user string) (string, error) {
	f.gotMsg = user
	return f.reply, f.err
}

func TestServiceGenerateTruncatesSources(t *testing.T) {
	chat := &fakeChat{reply: sampleOutput}
	svc := NewService(chat)

	long := strings.Repeat("x", maxSourceChars+500)
	qs, err := svc.Generate(context.Background(), []string{long}, 5)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(qs) == 0 {
		t.Fatal("no questions parsed")
	}
	if !strings.Contains(chat.gotMsg, "...") {
		t.Error("long source was not truncated")
	}
	if strings.Contains(chat.gotMsg, strings.Repeat("x", maxSourceChars+1)) {
		t.Error("prompt carries more than the source cap")
	}
}

func TestServiceGenerateChatError(t *testing.T) {
	svc := NewService(&fakeChat{err: errors.New("model offline")})
	if _, err := svc.Generate(context.Background(), []string{"text"}, 5); err == nil {
		t.Fatal("want error from chat failure")
	}
}
