package session

import (
	"context"
	"fmt"
	"strings"
)

// ChooseEmployer moves from role selection to the passcode prompt. No request
// is issued until the passcode is submitted.
func (s *Session) ChooseEmployer() error {
	if _, ok := s.State().(Unauthenticated); !ok {
		return fmt.Errorf("%w: already signed in", ErrWrongState)
	}
	s.setState(PasscodePrompt{})
	return nil
}

// CancelPasscode abandons the prompt and returns to role selection.
func (s *Session) CancelPasscode() error {
	if _, ok := s.State().(PasscodePrompt); !ok {
		return ErrWrongState
	}
	s.setState(Unauthenticated{})
	return nil
}

// SubmitPasscode verifies the employer passcode. An empty code is rejected
// locally. On success the session enters the employer dashboard and loads
// its data; a load failure still lands on the dashboard with empty lists.
func (s *Session) SubmitPasscode(ctx context.Context, code string) error {
	if _, ok := s.State().(PasscodePrompt); !ok {
		return ErrWrongState
	}
	if strings.TrimSpace(code) == "" {
		return validationf("passcode is required")
	}
	if !s.begin("auth") {
		return ErrInFlight
	}
	defer s.end("auth")

	if err := s.svc.VerifyEmployer(ctx, code); err != nil {
		s.notes.Error("Invalid passcode")
		return ErrBadPasscode
	}
	s.setState(EmployerDashboard{Selected: map[string]bool{}})
	s.refreshEmployer(ctx)
	return nil
}

// ChooseEmployee enters the employee dashboard and loads materials and
// published exams.
func (s *Session) ChooseEmployee(ctx context.Context) error {
	if _, ok := s.State().(Unauthenticated); !ok {
		return fmt.Errorf("%w: already signed in", ErrWrongState)
	}
	s.setState(EmployeeDashboard{})
	s.refreshEmployee(ctx)
	return nil
}

// Logout drops every piece of session state, whatever screen is live, and
// returns to role selection.
func (s *Session) Logout() {
	s.mu.Lock()
	s.state = Unauthenticated{}
	s.pending = map[string]bool{}
	s.mu.Unlock()
	s.notes.Clear()
}

// refreshEmployer reloads the employer dashboard lists. Failures keep
// whatever was already loaded and surface a notification.
func (s *Session) refreshEmployer(ctx context.Context) {
	st, err := s.employer()
	if err != nil {
		return
	}
	if mats, err := s.svc.ListMaterials(ctx); err != nil {
		s.notes.Error("Failed to load materials: " + err.Error())
	} else {
		st.Materials = mats
		st.Selected = pruneSelection(st.Selected, mats)
	}
	if exams, err := s.svc.ListExams(ctx); err != nil {
		s.notes.Error("Failed to load exams: " + err.Error())
	} else {
		st.Exams = exams
	}
	if results, err := s.svc.ListAllResults(ctx); err != nil {
		s.notes.Error("Failed to load results: " + err.Error())
	} else {
		st.Results = results
	}
	s.setState(st)
}

func (s *Session) refreshEmployee(ctx context.Context) {
	st, err := s.employee()
	if err != nil {
		return
	}
	if mats, err := s.svc.ListMaterials(ctx); err != nil {
		s.notes.Error("Failed to load materials: " + err.Error())
	} else {
		st.Materials = mats
	}
	if exams, err := s.svc.ListExams(ctx); err != nil {
		s.notes.Error("Failed to load exams: " + err.Error())
	} else {
		st.Exams = exams
	}
	s.setState(st)
}
