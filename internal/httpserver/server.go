// internal/httpserver/server.go
//
// HTTP wiring for the match-game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Game definitions: GET /api/match/{id} (cache-aside read; not-found is
//     the empty-object sentinel `{}`), POST /api/match (auth-free upsert).
//   - Telemetry: POST /api/ping (best-effort result records).
//   - Play driver: engine sessions over HTTP, mounted in routes_play.go.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - There is deliberately no auth surface; games are played by anyone
//     holding a game's short ID.

package httpserver

import (
	"encoding/json"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/babalugats76/quizdini-2.0-learn/internal/match"
	"github.com/babalugats76/quizdini-2.0-learn/internal/matches"
	"github.com/babalugats76/quizdini-2.0-learn/internal/pings"
	"github.com/babalugats76/quizdini-2.0-learn/internal/store"
)

// Server bundles router, live-session store, and the two data stores.
type Server struct {
	r        *chi.Mux
	sessions store.Store
	defs     matches.Backend
	pings    pings.Writer
}

// New constructs a Server, installs middleware, and registers routes.
func New(sessions store.Store, defs matches.Backend, pw pings.Writer) *Server {
	s := &Server{r: chi.NewRouter(), sessions: sessions, defs: defs, pings: pw}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv())                   // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"quizdini-go","endpoints":["/health","GET /api/match/{id}","POST /api/match","POST /api/ping","POST /api/match/{id}/play"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// Game definitions + telemetry
	s.r.Get("/api/match/{id}", s.handleGetMatch)
	s.r.Post("/api/match", s.handleUpsertMatch)
	s.r.Post("/api/ping", s.handlePing)

	// Engine sessions over HTTP
	s.mountPlay(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:3000.
func corsFromEnv() func(http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return cors.New(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler
}

// --------------------------- match definitions -----------------------------

// handleGetMatch serves a game definition through the cache-aside read path.
// A missing game answers 200 with `{}`: callers treat the empty object as the
// distinct not-found state, not as an error.
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	def, err := s.defs.Get(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("matchId", id).Msg("fetch match")
		http.Error(w, `{"error":"fetch_failed"}`, http.StatusInternalServerError)
		return
	}
	if def == nil {
		_, _ = w.Write([]byte(`{}`))
		return
	}
	_ = json.NewEncoder(w).Encode(def)
}

// handleUpsertMatch creates or replaces a game definition.
func (s *Server) handleUpsertMatch(w http.ResponseWriter, r *http.Request) {
	var def match.Definition
	if err := json.NewDecoder(r.Body).Decode(&def); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(def.ID) == "" {
		http.Error(w, `{"error":"id_required"}`, http.StatusBadRequest)
		return
	}
	if len(def.Pairs) == 0 {
		http.Error(w, `{"error":"pairs_required"}`, http.StatusBadRequest)
		return
	}
	if err := s.defs.Upsert(r.Context(), &def); err != nil {
		log.Error().Err(err).Str("matchId", def.ID).Msg("upsert match")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(def)
}

// ------------------------------ telemetry ----------------------------------

// pingReq is the body of POST /api/ping.
type pingReq struct {
	GameID   string          `json:"gameId"`
	GameType string          `json:"gameType"`
	Results  json.RawMessage `json:"results"`
}

// handlePing records one session's final results and echoes the stored
// record. Clients fire-and-forget this call; a failure here must never block
// their game-over screen.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	var req pingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.GameID == "" {
		http.Error(w, `{"error":"gameId_required"}`, http.StatusBadRequest)
		return
	}
	stored, err := s.pings.Insert(r.Context(), pings.Ping{
		IPAddress: clientIP(r),
		GameID:    req.GameID,
		GameType:  req.GameType,
		Results:   req.Results,
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", req.GameID).Msg("insert ping")
		http.Error(w, `{"error":"ping_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(stored)
}

// clientIP strips the port (if any) from the request's remote address.
// chimw.RealIP has already folded proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
