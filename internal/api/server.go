// Package api exposes the agent over HTTP: a turn endpoint for the
// cognition collaborator, a cue endpoint for perception, and read-only
// diagnostics mirroring the in-memory ring buffers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"assaultron/internal/agent"
	"assaultron/internal/motion"
	"assaultron/internal/version"
	"assaultron/internal/world"
)

// Server serves the agent state and turn processing.
type Server struct {
	Agent *agent.Agent
	Addr  string
}

// Handler builds the route table. Split out from Run for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/body", s.handleBody)
	mux.HandleFunc("GET /api/world", s.handleWorld)
	mux.HandleFunc("GET /api/mood", s.handleMood)
	mux.HandleFunc("GET /api/hardware", s.handleHardware)
	mux.HandleFunc("GET /api/behaviors", s.handleBehaviors)
	mux.HandleFunc("GET /api/decisions", s.handleDecisions)
	mux.HandleFunc("GET /api/transitions", s.handleTransitions)
	mux.HandleFunc("POST /api/turn", s.handleTurn)
	mux.HandleFunc("POST /api/world", s.handleWorldUpdate)
	return mux
}

// Run starts the HTTP server and blocks until it exits or ctx is
// cancelled; run in a goroutine.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down API server...")
		srv.Shutdown(context.Background()) //nolint:errcheck
	}()

	log.Info().Str("addr", s.Addr).Msg("API server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Agent.World.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"app":       version.AppName,
		"version":   version.Semver,
		"body":      snap.Body,
		"world":     snap.World,
		"mood":      moodView(snap.Mood),
		"behaviors": s.Agent.Arbiter.Behaviors(),
	})
}

func (s *Server) handleBody(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Agent.World.Snapshot().Body)
}

func (s *Server) handleWorld(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Agent.World.Snapshot().World)
}

func (s *Server) handleMood(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, moodView(s.Agent.World.Snapshot().Mood))
}

// handleHardware re-translates the committed body state, so the previous
// configuration is re-served even when the last turn failed.
func (s *Server) handleHardware(w http.ResponseWriter, r *http.Request) {
	body := s.Agent.World.Snapshot().Body
	hw, err := translateBody(body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, hw)
}

func (s *Server) handleBehaviors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"behaviors": s.Agent.Arbiter.Behaviors()})
}

func (s *Server) handleDecisions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Agent.Arbiter.History(limitParam(r, 20)))
}

func (s *Server) handleTransitions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Agent.World.Transitions(limitParam(r, 20)))
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var in agent.TurnInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res, err := s.Agent.ProcessTurn(in)
	if err != nil {
		if errors.Is(err, world.ErrInvalidStateValue) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWorldUpdate(w http.ResponseWriter, r *http.Request) {
	var cues world.Cues
	if err := json.NewDecoder(r.Body).Decode(&cues); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.Agent.World.UpdateWorld(cues); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Agent.World.Snapshot().World)
}

func translateBody(b world.BodyState) (motion.HardwareState, error) {
	return motion.Translate(world.BodyCommand{
		Posture:   b.Posture,
		Luminance: b.Luminance,
		LeftHand:  b.LeftHand,
		RightHand: b.RightHand,
	})
}

// moodView attaches the derived scalars, which are never stored.
func moodView(m world.MoodState) map[string]any {
	return map[string]any{
		"curiosity":  m.Curiosity,
		"irritation": m.Irritation,
		"boredom":    m.Boredom,
		"attachment": m.Attachment,
		"engagement": m.Engagement(),
		"stress":     m.Stress(),
		"updated_at": m.UpdatedAt,
	}
}

func limitParam(r *http.Request, def int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
