// internal/httpserver/routes_play.go
//
// HTTP driver for engine sessions, for thin clients that don't run the match
// engine locally. Exposes the engine's command/event surface one-to-one:
//   - POST /api/match/{id}/play    → instantiate a session for a game
//   - POST /api/play/{sid}/{event} → relay one event, get the new snapshot
//
// Events: start, deal, drop, exit, tick, finish, splash.
//
// The client owns all timing, exactly as a local presentation layer would:
// it delivers tick at the timer cadence, exit when a tile's hide animation
// completes, and deal/finish after its own settle delays. Stale events after
// a restart are no-ops inside the engine, so the driver never 409s.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/babalugats76/quizdini-2.0-learn/internal/match"
)

// mountPlay registers the session-driver routes.
func (s *Server) mountPlay(r chi.Router) {
	r.Post("/api/match/{id}/play", s.handleNewPlay)
	r.Post("/api/play/{sid}/{event}", s.handlePlayEvent)
}

// playRes is returned by every play endpoint: the fresh snapshot plus any
// event-specific payload.
type playRes struct {
	SessionID string             `json:"sessionId"`
	State     match.Snapshot     `json:"state"`
	Drop      *match.DropOutcome `json:"drop,omitempty"`
	RoundOver bool               `json:"roundOver,omitempty"`
	Result    *match.Result      `json:"result,omitempty"`
}

// handleNewPlay loads the game definition (through the cache) and creates a
// fresh session on the splash screen.
func (s *Server) handleNewPlay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	def, err := s.defs.Get(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("matchId", id).Msg("fetch match for play")
		http.Error(w, `{"error":"fetch_failed"}`, http.StatusInternalServerError)
		return
	}
	if def == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	sess, err := match.New(*def)
	if err != nil {
		http.Error(w, `{"error":"unplayable_game"}`, http.StatusUnprocessableEntity)
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Str("matchId", id).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(playRes{SessionID: sess.ID(), State: sess.Snapshot()})
}

// dropReq is the body of the "drop" event.
type dropReq struct {
	TermTileID       string `json:"termTileId"`
	DefinitionTileID string `json:"definitionTileId"`
}

// exitReq is the body of the "exit" event.
type exitReq struct {
	TileID string     `json:"tileId"`
	Role   match.Role `json:"role"`
}

// handlePlayEvent applies one engine event and returns the new state.
// Invalid-phase events are engine no-ops, mirroring a local presentation
// layer racing its animations; only unknown sessions and unknown event names
// are HTTP errors.
func (s *Server) handlePlayEvent(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		http.Error(w, `{"error":"session_not_found"}`, http.StatusNotFound)
		return
	}

	res := playRes{SessionID: sess.ID()}
	switch chi.URLParam(r, "event") {
	case "start":
		sess.Start()
	case "deal":
		sess.Deal()
	case "tick":
		sess.TimerTick()
	case "drop":
		var req dropReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}
		if out, ok := sess.Drop(req.TermTileID, req.DefinitionTileID); ok {
			res.Drop = &out
		}
	case "exit":
		var req exitReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}
		res.RoundOver = sess.Exit(req.TileID, req.Role)
	case "finish":
		if result, emitted := sess.Finish(); emitted {
			res.Result = &result
		}
	case "splash":
		sess.ToSplash()
	default:
		http.Error(w, `{"error":"unknown_event"}`, http.StatusNotFound)
		return
	}

	res.State = sess.Snapshot()
	_ = json.NewEncoder(w).Encode(res)
}
