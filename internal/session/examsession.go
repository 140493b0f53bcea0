package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/study-portal/study-portal/internal/exam"
)

// SetEmployeeName records the name the employee will take exams under.
func (s *Session) SetEmployeeName(name string) error {
	st, err := s.employee()
	if err != nil {
		return err
	}
	st.Name = strings.TrimSpace(name)
	s.setState(st)
	return nil
}

// StartExam begins an attempt. The duplicate-attempt check runs first: if
// this name has already taken the exam, the exam itself is never loaded.
func (s *Session) StartExam(ctx context.Context, examID string) error {
	st, err := s.employee()
	if err != nil {
		return err
	}
	if st.Name == "" {
		return validationf("enter your name first")
	}
	if !s.begin("start-exam") {
		return ErrInFlight
	}
	defer s.end("start-exam")

	taken, err := s.svc.CheckAttempt(ctx, examID, st.Name)
	if err != nil {
		s.notes.Error("Could not verify attempt: " + err.Error())
		return err
	}
	if taken {
		s.notes.Error("You have already taken this exam")
		return ErrAlreadyTaken
	}

	e, err := s.svc.GetExam(ctx, examID)
	if err != nil {
		s.notes.Error("Failed to load exam: " + err.Error())
		return err
	}
	s.setState(ExamInProgress{
		Name:    st.Name,
		Exam:    e,
		Answers: map[int]string{},
	})
	return nil
}

// SelectAnswer records the chosen option for the question currently shown,
// replacing any earlier choice.
func (s *Session) SelectAnswer(optionKey string) error {
	st, ok := s.State().(ExamInProgress)
	if !ok {
		return ErrWrongState
	}
	key := strings.ToUpper(strings.TrimSpace(optionKey))
	if _, exists := st.Exam.Questions[st.Index].Options[key]; !exists {
		return validationf("no option %q on this question", optionKey)
	}
	st.Answers[st.Index] = key
	s.setState(st)
	return nil
}

// NextQuestion advances one question; at the last question it does nothing.
func (s *Session) NextQuestion() error {
	st, ok := s.State().(ExamInProgress)
	if !ok {
		return ErrWrongState
	}
	if st.Index < len(st.Exam.Questions)-1 {
		st.Index++
		s.setState(st)
	}
	return nil
}

// PrevQuestion goes back one question; at the first question it does nothing.
func (s *Session) PrevQuestion() error {
	st, ok := s.State().(ExamInProgress)
	if !ok {
		return ErrWrongState
	}
	if st.Index > 0 {
		st.Index--
		s.setState(st)
	}
	return nil
}

// SubmitExam scores the attempt and records the result. Unanswered questions
// prompt for confirmation first; a declined prompt or a failed submit leaves
// the attempt in progress with every answer intact.
func (s *Session) SubmitExam(ctx context.Context) error {
	st, ok := s.State().(ExamInProgress)
	if !ok {
		return ErrWrongState
	}
	if unanswered := len(st.Exam.Questions) - len(st.Answers); unanswered > 0 {
		prompt := fmt.Sprintf("You have %d unanswered questions. Submit anyway?", unanswered)
		if !s.confirm(prompt) {
			return ErrCancelled
		}
	}
	if !s.begin("submit-exam") {
		return ErrInFlight
	}
	defer s.end("submit-exam")

	score := exam.CalculateScore(st.Exam.Questions, st.Answers)
	if err := s.svc.SubmitResult(ctx, st.Exam.ID, st.Name, score); err != nil {
		s.notes.Error("Submit failed: " + err.Error())
		return err
	}
	s.setState(ExamResults{
		Name:    st.Name,
		Exam:    st.Exam,
		Answers: st.Answers,
		Score:   score,
	})
	return nil
}

// BackToDashboard leaves the results screen. The attempt and the employee
// name are both cleared, so the next attempt starts from name entry.
func (s *Session) BackToDashboard(ctx context.Context) error {
	if _, ok := s.State().(ExamResults); !ok {
		return ErrWrongState
	}
	s.setState(EmployeeDashboard{})
	s.refreshEmployee(ctx)
	return nil
}
