package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/study-portal/study-portal/internal/exam"
	"github.com/study-portal/study-portal/internal/storage"
)

type RouterConfig struct {
	Store       exam.Store
	Blobs       storage.BlobStore
	Generator   QuestionGenerator
	VerifyPass  func(string) bool
	CORSOrigins []string
}

// NewRouter mounts the portal service contract.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Accept"},
			ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, map[string]string{"message": "Backend is running!"})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	r.Route("/materials", func(mr chi.Router) {
		mr.Get("/", ListMaterialsHandler(cfg.Store))
		mr.Post("/upload", UploadMaterialHandler(cfg.Store, cfg.Blobs))
		mr.Get("/download/{materialID}", DownloadMaterialHandler(cfg.Store, cfg.Blobs))
		mr.Put("/{materialID}", UpdateMaterialHandler(cfg.Store, cfg.Blobs))
		mr.Delete("/{materialID}", DeleteMaterialHandler(cfg.Store, cfg.Blobs))
	})

	r.Route("/exam", func(er chi.Router) {
		er.Post("/create", CreateExamHandler(cfg.Store, cfg.Blobs, cfg.Generator))
		er.Post("/publish", PublishExamHandler(cfg.Store))
		er.Post("/submit", SubmitResultHandler(cfg.Store))
		er.Get("/{examID}", GetExamHandler(cfg.Store))
		er.Delete("/{examID}", DeleteExamHandler(cfg.Store))
		er.Get("/{examID}/results", ListExamResultsHandler(cfg.Store))
		er.Get("/{examID}/check-attempt/{employeeName}", CheckAttemptHandler(cfg.Store))
	})

	r.Get("/exams", ListExamsHandler(cfg.Store))
	r.Get("/results/all", ListAllResultsHandler(cfg.Store))
	r.Post("/auth/employer", EmployerAuthHandler(cfg.VerifyPass))

	return r
}
