// Package server exposes the forum's JSON endpoints. Page rendering lives
// elsewhere; this package only serves the API surface the site needs.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"lostcityforum/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// defaultDebugKey gates the diagnostics endpoint when DEBUG_KEY is unset.
const defaultDebugKey = "debugkey2025"

const pingTimeout = 2 * time.Second

// Server handles the JSON API routes.
type Server struct {
	store    storage.Storage
	debugKey string
}

// New builds a server around a store. An empty debugKey falls back to the
// built-in default.
func New(store storage.Storage, debugKey string) *Server {
	if debugKey == "" {
		debugKey = defaultDebugKey
	}
	return &Server{store: store, debugKey: debugKey}
}

// Routes returns the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/users/count", s.handleUserCount)
	r.Get("/api/debug", s.handleDebug)
	return r
}

func (s *Server) handleUserCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountUsers(r.Context())
	if err != nil {
		log.Printf("user count: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// handleDebug reports environment-variable presence and store connectivity.
// It is gated by a shared secret and never echoes variable values, only
// whether they are set.
func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("key") != s.debugKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}

	envVars := map[string]string{}
	for _, name := range []string{"PORT", "DATABASE_URL", "STORAGE", "DEBUG_KEY"} {
		if _, ok := os.LookupEnv(name); ok {
			envVars[name] = "set"
		} else {
			envVars[name] = "unset"
		}
	}

	dbStatus := "Connected"
	var dbError *string
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = "Error"
		msg := err.Error()
		dbError = &msg
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"envVars":  envVars,
		"dbStatus": dbStatus,
		"dbError":  dbError,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}
