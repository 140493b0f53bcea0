package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/study-portal/study-portal/internal/api/http"
	"github.com/study-portal/study-portal/internal/config"
	"github.com/study-portal/study-portal/internal/db"
	"github.com/study-portal/study-portal/internal/exam"
	"github.com/study-portal/study-portal/internal/generator"
	"github.com/study-portal/study-portal/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := exam.NewSQLStore(dbh, cfg.DBDriver)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	llm := generator.NewOllamaClient(generator.OllamaConfig{
		BaseURL: cfg.OllamaBaseURL,
		Model:   cfg.OllamaModel,
	})

	r := api.NewRouter(api.RouterConfig{
		Store:       store,
		Blobs:       bs,
		Generator:   generator.NewService(llm),
		VerifyPass:  api.NewPasscodeVerifier(cfg.EmployerPasscode, cfg.EmployerPassHash),
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("portald listening on %s (db=%s, model=%s)", cfg.HTTPAddr, cfg.DBDriver, cfg.OllamaModel)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server: %v", err)
	}
}
