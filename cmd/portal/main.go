// Command portal is the interactive terminal client for the study portal.
// It renders whatever screen the session state machine is on, forwards the
// user's choices as events, and supplies the host capabilities the session
// asks for: yes/no confirmation and saving files to disk.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/study-portal/study-portal/internal/client"
	"github.com/study-portal/study-portal/internal/config"
	"github.com/study-portal/study-portal/internal/exam"
	"github.com/study-portal/study-portal/internal/session"
)

func main() {
	cfg := config.FromEnv()
	app := &app{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
	app.session = session.New(
		client.New(cfg.APIBase),
		session.WithConfirmer(app.confirm),
	)

	fmt.Fprintf(app.out, "Study Portal (%s)\n", cfg.APIBase)
	if err := app.run(); err != nil {
		log.Fatalf("portal: %v", err)
	}
}

type app struct {
	session *session.Session
	in      *bufio.Reader
	out     io.Writer
}

func (a *app) run() error {
	ctx := context.Background()
	for {
		a.showNotifications()
		switch st := a.session.State().(type) {
		case session.Unauthenticated:
			if done := a.roleMenu(ctx); done {
				return nil
			}
		case session.PasscodePrompt:
			a.passcodeScreen(ctx)
		case session.EmployerDashboard:
			a.employerScreen(ctx, st)
		case session.EmployeeDashboard:
			a.employeeScreen(ctx, st)
		case session.ExamInProgress:
			a.examScreen(ctx, st)
		case session.ExamResults:
			a.resultsScreen(ctx, st)
		}
	}
}

func (a *app) showNotifications() {
	for _, m := range a.session.Notifications().Active() {
		fmt.Fprintf(a.out, "[%s] %s\n", m.Level, m.Text)
	}
	a.session.Notifications().Clear()
}

// report prints an action error unless the user simply declined a
// confirmation prompt.
func (a *app) report(err error) {
	if err == nil || err == session.ErrCancelled {
		return
	}
	fmt.Fprintf(a.out, "error: %v\n", err)
}

func (a *app) prompt(label string) string {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (a *app) confirm(prompt string) bool {
	answer := a.prompt(prompt + " [y/N]")
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

func (a *app) roleMenu(ctx context.Context) bool {
	fmt.Fprintln(a.out, "\n1) Employer  2) Employee  q) Quit")
	switch a.prompt("choose") {
	case "1":
		a.report(a.session.ChooseEmployer())
	case "2":
		a.report(a.session.ChooseEmployee(ctx))
	case "q":
		return true
	}
	return false
}

func (a *app) passcodeScreen(ctx context.Context) {
	code := a.prompt("Employer passcode (blank to go back)")
	if code == "" {
		a.report(a.session.CancelPasscode())
		return
	}
	a.report(a.session.SubmitPasscode(ctx, code))
}

func (a *app) employerScreen(ctx context.Context, st session.EmployerDashboard) {
	fmt.Fprintln(a.out, "\n=== Employer Dashboard ===")
	a.printMaterials(st.Materials, st.Selected)
	a.printExams(st.Exams)
	a.printResults(st.Results)
	if st.Draft != nil {
		a.printDraft(st.Draft)
	}

	fmt.Fprintln(a.out, "\nu) upload  e) edit  dm) delete material  dl) download  s) select/deselect")
	fmt.Fprintln(a.out, "b) build exam  t) title draft  p) publish  x) export draft  c) discard draft")
	fmt.Fprintln(a.out, "de) delete exam  er) exam results  r) refresh  l) logout")
	switch a.prompt("choose") {
	case "u":
		a.uploadMaterial(ctx)
	case "e":
		a.editMaterial(ctx)
	case "dm":
		a.report(a.session.DeleteMaterial(ctx, a.prompt("material id")))
	case "dl":
		a.downloadMaterial(ctx)
	case "s":
		a.report(a.session.ToggleMaterial(a.prompt("material id")))
	case "b":
		n, _ := strconv.Atoi(a.prompt("number of questions (blank for 10)"))
		a.report(a.session.BuildExam(ctx, n))
	case "t":
		a.report(a.session.SetDraftTitle(a.prompt("exam title")))
	case "p":
		a.report(a.session.PublishDraft(ctx))
	case "x":
		a.exportDraft()
	case "c":
		a.report(a.session.DiscardDraft())
	case "de":
		a.report(a.session.DeleteExam(ctx, a.prompt("exam id")))
	case "er":
		a.examResults(ctx)
	case "r":
		a.report(a.session.RefreshMaterials(ctx))
	case "l":
		a.session.Logout()
	}
}

func (a *app) employeeScreen(ctx context.Context, st session.EmployeeDashboard) {
	fmt.Fprintln(a.out, "\n=== Employee Dashboard ===")
	if st.Name != "" {
		fmt.Fprintf(a.out, "Taking exams as: %s\n", st.Name)
	}
	a.printMaterials(st.Materials, nil)
	a.printExams(st.Exams)

	fmt.Fprintln(a.out, "\nn) set name  t) take exam  dl) download material  l) logout")
	switch a.prompt("choose") {
	case "n":
		a.report(a.session.SetEmployeeName(a.prompt("your name")))
	case "t":
		a.report(a.session.StartExam(ctx, a.prompt("exam id")))
	case "dl":
		a.downloadMaterial(ctx)
	case "l":
		a.session.Logout()
	}
}

func (a *app) examScreen(ctx context.Context, st session.ExamInProgress) {
	q := st.Exam.Questions[st.Index]
	fmt.Fprintf(a.out, "\n%s - question %d of %d\n", st.Exam.Title, st.Index+1, len(st.Exam.Questions))
	fmt.Fprintln(a.out, q.Question)
	for _, key := range q.OptionKeys() {
		marker := " "
		if st.Answers[st.Index] == key {
			marker = "*"
		}
		fmt.Fprintf(a.out, " %s %s) %s\n", marker, key, q.Options[key])
	}

	fmt.Fprintln(a.out, "\nanswer with an option letter, or: n) next  p) previous  s) submit")
	choice := a.prompt("choose")
	switch choice {
	case "n":
		a.report(a.session.NextQuestion())
	case "p":
		a.report(a.session.PrevQuestion())
	case "s":
		a.report(a.session.SubmitExam(ctx))
	default:
		if choice != "" {
			a.report(a.session.SelectAnswer(choice))
		}
	}
}

func (a *app) resultsScreen(ctx context.Context, st session.ExamResults) {
	fmt.Fprintf(a.out, "\n=== %s - results for %s ===\n", st.Exam.Title, st.Name)
	fmt.Fprintf(a.out, "Score: %d/%d (%s%%)\n\n", st.Score.Correct, st.Score.Total, st.Score.Percentage)

	for i, q := range st.Exam.Questions {
		fmt.Fprintf(a.out, "Question %d: %s\n", i+1, q.Question)
		chosen := st.Answers[i]
		for _, key := range q.OptionKeys() {
			marker := "  "
			switch {
			case exam.IsCorrectOption(q.Answer, key):
				marker = "✓ "
			case key == chosen:
				marker = "✗ "
			}
			fmt.Fprintf(a.out, " %s%s) %s\n", marker, key, q.Options[key])
		}
		fmt.Fprintln(a.out)
	}

	a.prompt("press enter to return to the dashboard")
	a.report(a.session.BackToDashboard(ctx))
}

func (a *app) printMaterials(mats []exam.Material, selected map[string]bool) {
	if len(mats) == 0 {
		fmt.Fprintln(a.out, "No materials uploaded.")
		return
	}
	fmt.Fprintln(a.out, "Materials:")
	for _, m := range mats {
		marker := " "
		if selected[m.ID] {
			marker = "*"
		}
		fmt.Fprintf(a.out, " %s %s  %s (%s)\n", marker, m.ID, m.Title, m.Filename)
	}
}

func (a *app) printExams(exams []exam.Summary) {
	if len(exams) == 0 {
		fmt.Fprintln(a.out, "No published exams.")
		return
	}
	fmt.Fprintln(a.out, "Exams:")
	for _, e := range exams {
		fmt.Fprintf(a.out, "   %s  %s (%d questions)\n", e.ID, e.Title, e.QuestionCount)
	}
}

func (a *app) printResults(results []exam.Result) {
	if len(results) == 0 {
		fmt.Fprintln(a.out, "No submissions yet.")
		return
	}
	fmt.Fprintln(a.out, "Submissions:")
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  EMPLOYEE\tEXAM\tSCORE\tPERCENTAGE")
	for _, r := range results {
		fmt.Fprintf(w, "  %s\t%s\t%d/%d\t%s%%\n",
			r.EmployeeName, r.ExamTitle, r.Score, r.TotalQuestions, r.Percentage)
	}
	w.Flush()
}

func (a *app) printDraft(d *session.Draft) {
	title := d.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(a.out, "\nDraft exam %s, %d questions:\n", title, len(d.Questions))
	for i, q := range d.Questions {
		fmt.Fprintf(a.out, " %d. %s\n", i+1, q.Question)
		for _, key := range q.OptionKeys() {
			marker := "  "
			if exam.IsCorrectOption(q.Answer, key) {
				marker = "✓ "
			}
			fmt.Fprintf(a.out, "   %s%s) %s\n", marker, key, q.Options[key])
		}
	}
}

func (a *app) uploadMaterial(ctx context.Context) {
	title := a.prompt("material title")
	path := a.prompt("file path")
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	defer f.Close()
	a.report(a.session.UploadMaterial(ctx, title, filepath.Base(path), f))
}

func (a *app) editMaterial(ctx context.Context) {
	id := a.prompt("material id")
	title := a.prompt("new title (blank to keep)")
	path := a.prompt("replacement file path (blank to keep)")
	if path == "" {
		a.report(a.session.UpdateMaterial(ctx, id, title, "", nil))
		return
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	defer f.Close()
	a.report(a.session.UpdateMaterial(ctx, id, title, filepath.Base(path), f))
}

func (a *app) downloadMaterial(ctx context.Context) {
	id := a.prompt("material id")
	rc, err := a.session.DownloadMaterial(ctx, id)
	if err != nil {
		a.report(err)
		return
	}
	defer rc.Close()

	dest := a.prompt("save as")
	if dest == "" {
		fmt.Fprintln(a.out, "download discarded")
		return
	}
	f, err := os.Create(dest)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	defer f.Close()
	if _, err := io.Copy(f, rc); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "saved %s\n", dest)
}

func (a *app) exportDraft() {
	text, err := a.session.ExportDraftText()
	if err != nil {
		a.report(err)
		return
	}
	dest := a.prompt("save as (blank for exam_questions.txt)")
	if dest == "" {
		dest = "exam_questions.txt"
	}
	if err := os.WriteFile(dest, []byte(text), 0o644); err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "saved %s\n", dest)
}

func (a *app) examResults(ctx context.Context) {
	id := a.prompt("exam id")
	results, err := a.session.ExamResults(ctx, id)
	if err != nil {
		a.report(err)
		return
	}
	a.printResults(results)
}
