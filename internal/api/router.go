package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/PULSECOACH/pulsecoach/internal/auth"
	"github.com/PULSECOACH/pulsecoach/internal/coach"
)

// SetupRoutes configures all API routes.
func SetupRoutes(mux *http.ServeMux, builder SummaryBuilder, analyses AnalysisStore, documents DocumentStore, users UserStore, c *coach.Coach, tokens TokenRecorder, authConfig auth.Config, logger *slog.Logger) {
	authHandler := NewAuthHandler(users, authConfig, logger)
	recordsHandler := NewRecordsHandler(documents, logger)
	analysisHandler := NewAnalysisHandler(builder, analyses, documents, c, tokens, logger)

	authMiddleware := auth.AuthMiddleware(authConfig)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	// Authentication routes (register and login are public)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.Handle("/api/auth/validate", protected(authHandler.ValidateToken))

	// Raw record CRUD
	mux.Handle("/api/records/", protected(recordsHandler.ServeHTTP))

	// Analysis and chat
	mux.Handle("/api/ai-analysis/summary", protected(analysisHandler.GetSummary))
	mux.Handle("/api/ai-analysis/generate", protected(analysisHandler.Generate))
	mux.Handle("/api/ai-analysis/chat", protected(analysisHandler.Chat))
	mux.Handle("/api/ai-analysis/analyses", protected(analysisHandler.List))
	mux.Handle("/api/ai-analysis/analyses/", protected(func(w http.ResponseWriter, r *http.Request) {
		// Everything under analyses/ is a single YYYY-MM id.
		rest := strings.TrimPrefix(r.URL.Path, "/api/ai-analysis/analyses/")
		if rest == "" || strings.Contains(strings.Trim(rest, "/"), "/") {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		analysisHandler.ByID(w, r)
	}))
}
