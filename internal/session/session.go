// Package session holds the client-side state machine: role gating, material
// management, exam building, and exam taking. States form a tagged union so a
// session can never hold data for a screen it is not on; all service calls go
// through the Service interface and every user-visible failure resolves to a
// notification plus the prior state.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/study-portal/study-portal/internal/exam"
	"github.com/study-portal/study-portal/internal/notify"
)

// Service is the backend surface the session depends on. *client.Client
// satisfies it.
type Service interface {
	ListMaterials(ctx context.Context) ([]exam.Material, error)
	UploadMaterial(ctx context.Context, title, filename string, content io.Reader) error
	UpdateMaterial(ctx context.Context, id, newTitle, filename string, content io.Reader) error
	DeleteMaterial(ctx context.Context, id string) error
	DownloadMaterial(ctx context.Context, id string) (io.ReadCloser, error)
	GenerateExam(ctx context.Context, materialIDs []string, numQuestions int) ([]exam.Question, error)
	PublishExam(ctx context.Context, title string, questions []exam.Question) error
	ListExams(ctx context.Context) ([]exam.Summary, error)
	GetExam(ctx context.Context, id string) (exam.Exam, error)
	DeleteExam(ctx context.Context, id string) error
	CheckAttempt(ctx context.Context, examID, employeeName string) (bool, error)
	SubmitResult(ctx context.Context, examID, employeeName string, score exam.Score) error
	ListAllResults(ctx context.Context) ([]exam.Result, error)
	ListExamResults(ctx context.Context, examID string) ([]exam.Result, error)
	VerifyEmployer(ctx context.Context, passcode string) error
}

// Confirmer answers yes/no prompts before destructive actions. The host
// environment supplies it; tests inject a deterministic one.
type Confirmer func(prompt string) bool

var (
	// ErrValidation wraps input problems caught before any request is issued.
	ErrValidation = errors.New("invalid input")
	// ErrWrongState marks an event the current state does not accept.
	ErrWrongState = errors.New("not available in this state")
	// ErrInFlight marks a re-entrant trigger of an action whose request is
	// still pending.
	ErrInFlight = errors.New("action already in flight")
	// ErrBadPasscode is returned when the service rejects the employer
	// passcode.
	ErrBadPasscode = errors.New("invalid passcode")
	// ErrEmptyGeneration marks a generation call that succeeded over the wire
	// but produced no questions.
	ErrEmptyGeneration = errors.New("no questions were generated")
	// ErrAlreadyTaken blocks an exam whose attempt pre-check reports a prior
	// submission for this employee name.
	ErrAlreadyTaken = errors.New("exam already taken")
	// ErrCancelled is returned when the user declines a confirmation prompt.
	ErrCancelled = errors.New("cancelled")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// State is the tagged union of session screens. Exactly one concrete state is
// live at a time.
type State interface {
	state()
}

// Unauthenticated is the role-selection screen.
type Unauthenticated struct{}

// PasscodePrompt is the employer passcode entry screen.
type PasscodePrompt struct{}

// EmployerDashboard carries everything the employer screen shows: the material
// list with the current selection, published exams, all recorded results, and
// the draft exam being built, if any.
type EmployerDashboard struct {
	Materials []exam.Material
	Selected  map[string]bool
	Exams     []exam.Summary
	Results   []exam.Result
	Draft     *Draft
}

// Draft is a generated-but-unpublished exam.
type Draft struct {
	Title     string
	Questions []exam.Question
}

// EmployeeDashboard carries the read-only material list, the published exams,
// and the name the employee has typed so far.
type EmployeeDashboard struct {
	Name      string
	Materials []exam.Material
	Exams     []exam.Summary
}

// ExamInProgress is a live attempt: the loaded exam, the answers chosen so
// far (question index to option key), and the question currently shown.
type ExamInProgress struct {
	Name    string
	Exam    exam.Exam
	Answers map[int]string
	Index   int
}

// ExamResults is the post-submit review screen.
type ExamResults struct {
	Name    string
	Exam    exam.Exam
	Answers map[int]string
	Score   exam.Score
}

func (Unauthenticated) state()   {}
func (PasscodePrompt) state()    {}
func (EmployerDashboard) state() {}
func (EmployeeDashboard) state() {}
func (ExamInProgress) state()    {}
func (ExamResults) state()       {}

// Session owns the current state and applies events to it. It is meant for a
// single interactive user; methods guard against re-entrant triggering of the
// same action but there is no cross-action locking.
type Session struct {
	svc     Service
	confirm Confirmer
	notes   *notify.Center

	mu      sync.Mutex
	state   State
	pending map[string]bool
}

type Option func(*Session)

// WithConfirmer installs the yes/no prompt capability. Without it every
// confirmation is answered no, so destructive actions never proceed.
func WithConfirmer(c Confirmer) Option {
	return func(s *Session) { s.confirm = c }
}

func WithNotifications(n *notify.Center) Option {
	return func(s *Session) { s.notes = n }
}

func New(svc Service, opts ...Option) *Session {
	s := &Session{
		svc:     svc,
		confirm: func(string) bool { return false },
		notes:   notify.NewCenter(0),
		state:   Unauthenticated{},
		pending: map[string]bool{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the live state. Hosts type-switch on it to decide what to
// render.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Notifications() *notify.Center { return s.notes }

// begin marks an action in flight; it reports false when the same action is
// already pending.
func (s *Session) begin(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[action] {
		return false
	}
	s.pending[action] = true
	return true
}

func (s *Session) end(action string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, action)
}

// InFlight reports whether the named action has a pending request. Hosts use
// it to disable the triggering control.
func (s *Session) InFlight(action string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[action]
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// employer returns the live employer dashboard, or ErrWrongState.
func (s *Session) employer() (EmployerDashboard, error) {
	st, ok := s.State().(EmployerDashboard)
	if !ok {
		return EmployerDashboard{}, fmt.Errorf("%w: employer dashboard required", ErrWrongState)
	}
	return st, nil
}

func (s *Session) employee() (EmployeeDashboard, error) {
	st, ok := s.State().(EmployeeDashboard)
	if !ok {
		return EmployeeDashboard{}, fmt.Errorf("%w: employee dashboard required", ErrWrongState)
	}
	return st, nil
}
