package exam

import "sort"

// Question is one generated multiple-choice question. Option keys are short
// letters ("A".."D"); Answer is the authoritative answer string exactly as the
// generator produced it and is expected to resolve to one option key under
// IsCorrectOption.
type Question struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
	Answer   string            `json:"answer"`
}

// OptionKeys returns the question's option keys in stable lexical order.
// Options is a map, so every renderer that walks it goes through here.
func (q Question) OptionKeys() []string {
	keys := make([]string, 0, len(q.Options))
	for k := range q.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Material is an uploaded study document. File content lives in the blob
// store; the record carries metadata only.
type Material struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

// Exam is a published exam as stored by the service. Immutable after publish.
type Exam struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions,omitempty"`
	CreatedAt int64      `json:"created_at,omitempty"` // unix seconds
}

// Summary is the list-view projection of a published exam.
type Summary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
	CreatedAt     int64  `json:"created_at"`
}

// Result is one employee's completed attempt. At most one result exists per
// (exam, employee name) pair.
type Result struct {
	ID             string `json:"id"`
	ExamID         string `json:"exam_id"`
	ExamTitle      string `json:"exam_title,omitempty"`
	EmployeeName   string `json:"employee_name"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Percentage     string `json:"percentage"`
	CompletedAt    int64  `json:"completed_at"`
}
