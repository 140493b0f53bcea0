package session

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/study-portal/study-portal/internal/exam"
)

const (
	defaultQuestionCount = 10
	maxQuestionCount     = 50
)

// clampQuestionCount applies the builder's bounds: zero means the default,
// anything else is forced into [1, 50].
func clampQuestionCount(n int) int {
	switch {
	case n == 0:
		return defaultQuestionCount
	case n < 1:
		return 1
	case n > maxQuestionCount:
		return maxQuestionCount
	}
	return n
}

// BuildExam generates a draft from the selected materials. With nothing
// selected, no request is issued. A generation that returns zero questions is
// an error, not an empty draft.
func (s *Session) BuildExam(ctx context.Context, numQuestions int) error {
	st, err := s.employer()
	if err != nil {
		return err
	}
	if len(st.Selected) == 0 {
		return validationf("select at least one material")
	}
	if !s.begin("build") {
		return ErrInFlight
	}
	defer s.end("build")

	ids := make([]string, 0, len(st.Selected))
	for id := range st.Selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	questions, err := s.svc.GenerateExam(ctx, ids, clampQuestionCount(numQuestions))
	if err != nil {
		s.notes.Error("Generation failed: " + err.Error())
		return err
	}
	if len(questions) == 0 {
		s.notes.Error("No questions were generated")
		return ErrEmptyGeneration
	}

	st, err = s.employer()
	if err != nil {
		return err
	}
	st.Draft = &Draft{Questions: questions}
	s.setState(st)
	s.notes.Success(fmt.Sprintf("Generated %d questions", len(questions)))
	return nil
}

// SetDraftTitle names the draft before publishing.
func (s *Session) SetDraftTitle(title string) error {
	st, err := s.employer()
	if err != nil {
		return err
	}
	if st.Draft == nil {
		return validationf("no draft exam to name")
	}
	st.Draft.Title = title
	s.setState(st)
	return nil
}

// PublishDraft publishes the draft. On success the draft and the material
// selection are cleared and the exam list refreshed; on failure everything is
// kept so the employer can retry.
func (s *Session) PublishDraft(ctx context.Context) error {
	st, err := s.employer()
	if err != nil {
		return err
	}
	if st.Draft == nil {
		return validationf("no draft exam to publish")
	}
	if strings.TrimSpace(st.Draft.Title) == "" {
		return validationf("exam title is required")
	}
	if !s.begin("publish") {
		return ErrInFlight
	}
	defer s.end("publish")

	if err := s.svc.PublishExam(ctx, st.Draft.Title, st.Draft.Questions); err != nil {
		s.notes.Error("Publish failed: " + err.Error())
		return err
	}

	st, err = s.employer()
	if err != nil {
		return err
	}
	st.Draft = nil
	st.Selected = map[string]bool{}
	s.setState(st)
	s.notes.Success("Exam published")
	s.refreshEmployer(ctx)
	return nil
}

// DiscardDraft throws the draft away. The material selection survives so a
// fresh build can follow.
func (s *Session) DiscardDraft() error {
	st, err := s.employer()
	if err != nil {
		return err
	}
	if st.Draft == nil {
		return validationf("no draft exam to discard")
	}
	st.Draft = nil
	s.setState(st)
	return nil
}

// ExportDraftText renders the draft as plain text for saving to a file.
func (s *Session) ExportDraftText() (string, error) {
	st, err := s.employer()
	if err != nil {
		return "", err
	}
	if st.Draft == nil {
		return "", validationf("no draft exam to export")
	}
	return exam.ExportText(st.Draft.Questions), nil
}

// DeleteExam removes a published exam after confirmation and refreshes the
// exam list. Recorded results for it go with it.
func (s *Session) DeleteExam(ctx context.Context, id string) error {
	if _, err := s.employer(); err != nil {
		return err
	}
	if !s.confirm("Delete this exam? Its results are removed too.") {
		return ErrCancelled
	}
	if !s.begin("delete-exam:" + id) {
		return ErrInFlight
	}
	defer s.end("delete-exam:" + id)

	if err := s.svc.DeleteExam(ctx, id); err != nil {
		s.notes.Error("Delete failed: " + err.Error())
		return err
	}
	s.notes.Success("Exam deleted")
	s.refreshEmployer(ctx)
	return nil
}

// ExamResults fetches the recorded attempts for one exam, for the employer's
// per-exam drill-down.
func (s *Session) ExamResults(ctx context.Context, examID string) ([]exam.Result, error) {
	if _, err := s.employer(); err != nil {
		return nil, err
	}
	results, err := s.svc.ListExamResults(ctx, examID)
	if err != nil {
		s.notes.Error("Failed to load results: " + err.Error())
		return nil, err
	}
	return results, nil
}
