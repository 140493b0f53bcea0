package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string

	// Employer auth. When EmployerPassHash is set it wins and the submitted
	// passcode is checked against the bcrypt hash; EmployerPasscode is the
	// plain-text fallback for local setups.
	EmployerPasscode string
	EmployerPassHash string

	// Question generation (Ollama).
	OllamaBaseURL string
	OllamaModel   string

	CORSOrigins []string

	// Client side: base URL of the portal service.
	APIBase string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:         envOr("HTTP_ADDR", ":8000"),
		DBDriver:         envOr("DB_DRIVER", "sqlite"),
		DBDSN:            envOr("DB_DSN", ""),
		BlobBasePath:     envOr("BLOB_BASE_PATH", "./uploaded_materials"),
		EmployerPasscode: envOr("EMPLOYER_PASSCODE", "admin123"),
		EmployerPassHash: os.Getenv("EMPLOYER_PASS_HASH"),
		OllamaBaseURL:    envOr("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:      envOr("OLLAMA_MODEL", "llama3:latest"),
		CORSOrigins:      csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		APIBase:          envOr("PORTAL_API_BASE", "http://localhost:8000"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
