package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/study-portal/study-portal/internal/exam"
	"github.com/study-portal/study-portal/internal/generator"
	"github.com/study-portal/study-portal/internal/storage"
)

// QuestionGenerator produces questions from material texts. Satisfied by
// generator.Service.
type QuestionGenerator interface {
	Generate(ctx context.Context, sources []string, numQuestions int) ([]exam.Question, error)
}

func CreateExamHandler(store exam.Store, bs storage.BlobStore, gen QuestionGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MaterialIDs  []string `json:"material_ids"`
			NumQuestions int      `json:"num_questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, 400, "bad json")
			return
		}
		if req.NumQuestions <= 0 {
			req.NumQuestions = 10
		}

		var sources []string
		for _, id := range req.MaterialIDs {
			rec, err := store.GetMaterial(r.Context(), id)
			if err != nil {
				continue // skip ids deleted since selection
			}
			rc, err := bs.Get(rec.BlobKey)
			if err != nil {
				continue
			}
			text, err := generator.ExtractText(rec.Filename, rc)
			rc.Close()
			if err != nil || strings.TrimSpace(text) == "" {
				continue
			}
			sources = append(sources, text)
		}
		if len(sources) == 0 {
			writeDetail(w, 404, "No valid materials found")
			return
		}

		questions, err := gen.Generate(r.Context(), sources, req.NumQuestions)
		if err != nil {
			writeDetail(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, map[string]interface{}{"exam": questions})
	}
}

func PublishExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title     string          `json:"title"`
			Questions []exam.Question `json:"questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, 400, "bad json")
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			writeDetail(w, 400, "title is required")
			return
		}
		if len(req.Questions) == 0 {
			writeDetail(w, 400, "questions are required")
			return
		}
		e, err := store.PutExam(r.Context(), exam.Exam{Title: req.Title, Questions: req.Questions})
		if err != nil {
			writeDetail(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, map[string]string{"message": "Exam published successfully", "exam_id": e.ID})
	}
}

func ListExamsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListExams(r.Context())
		if err != nil {
			writeDetail(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, list)
	}
}

func GetExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		e, err := store.GetExam(r.Context(), id)
		if err != nil {
			writeNotFoundOr500(w, err, "Exam not found")
			return
		}
		writeJSON(w, 200, e)
	}
}

func DeleteExamHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "examID")
		if err := store.DeleteExam(r.Context(), id); err != nil {
			writeNotFoundOr500(w, err, "Exam not found")
			return
		}
		writeJSON(w, 200, map[string]string{"message": "Exam deleted successfully"})
	}
}

func CheckAttemptHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		name := chi.URLParam(r, "employeeName")
		taken, err := store.HasResult(r.Context(), examID, name)
		if err != nil {
			writeDetail(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, map[string]bool{"already_taken": taken})
	}
}

func SubmitResultHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamID         string `json:"exam_id"`
			EmployeeName   string `json:"employee_name"`
			Score          int    `json:"score"`
			TotalQuestions int    `json:"total_questions"`
			Percentage     string `json:"percentage"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeDetail(w, 400, "bad json")
			return
		}
		if req.ExamID == "" || strings.TrimSpace(req.EmployeeName) == "" {
			writeDetail(w, 400, "exam_id and employee_name are required")
			return
		}
		res, err := store.PutResult(r.Context(), exam.Result{
			ExamID:         req.ExamID,
			EmployeeName:   req.EmployeeName,
			Score:          req.Score,
			TotalQuestions: req.TotalQuestions,
			Percentage:     req.Percentage,
		})
		if err != nil {
			if errors.Is(err, exam.ErrDuplicateResult) {
				writeDetail(w, 400, "You have already taken this exam")
				return
			}
			writeDetail(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, map[string]string{"message": "Exam submitted successfully", "result_id": res.ID})
	}
}

func ListExamResultsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		list, err := store.ListResults(r.Context(), examID)
		if err != nil {
			writeDetail(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, list)
	}
}

func ListAllResultsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListResults(r.Context(), "")
		if err != nil {
			writeDetail(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, list)
	}
}
