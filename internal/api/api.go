// Package api serves read-only match state and score sheets over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

// SnapshotReader loads stored matches.
type SnapshotReader interface {
	Load(ctx context.Context, id string) (match.Snapshot, error)
}

// Presence reports which matches are attached to a player connection.
type Presence interface {
	IsActive(id string) bool
	Count() int
}

// HealthFunc checks a backing dependency; nil means healthy.
type HealthFunc func(ctx context.Context) error

// HandlerDeps are the collaborators of Handler.
type HandlerDeps struct {
	Snapshots SnapshotReader
	Presence  Presence
	// Health is optional.
	Health HealthFunc
	Logger *zap.Logger
}

// Handler serves the results API.
type Handler struct {
	snapshots SnapshotReader
	presence  Presence
	health    HealthFunc
	logger    *zap.Logger
}

// NewHandler creates a Handler.
//
// Precondition: deps.Snapshots, deps.Presence and deps.Logger must be non-nil.
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		snapshots: deps.Snapshots,
		presence:  deps.Presence,
		health:    deps.Health,
		logger:    deps.Logger,
	}
}

// NewRouter mounts h with CORS for allowedOrigins ("*" when empty).
func NewRouter(h *Handler, allowedOrigins []string) chi.Router {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/healthz", h.Healthz)
	r.Get("/matches/{id}", h.GetMatch)
	r.Get("/matches/{id}/scores", h.GetScores)
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// Healthz reports 200 while the backing store is reachable, 503 otherwise.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	body := Health{Status: "ok", ActiveMatches: h.presence.Count()}
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			body.Status = "unavailable"
			body.Error = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, body)
			return
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// GetMatch returns the current state of a stored match.
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, snap, board, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, MatchView{
		ID:         id,
		Round:      snap.Round,
		Rounds:     snap.Rules.Rounds,
		ThrowsLeft: snap.ThrowsLeft,
		Complete:   snap.Complete,
		Active:     h.presence.IsActive(id),
		Dice:       snap.Dice,
		Choices:    board.Available(),
		Total:      board.Total(),
	})
}

// GetScores returns the played categories of a stored match in category order.
func (h *Handler) GetScores(w http.ResponseWriter, r *http.Request) {
	id, snap, board, ok := h.load(w, r)
	if !ok {
		return
	}
	results := board.RoundScores()
	sheet := ScoreSheet{
		ID:       id,
		Scores:   make([]ScoreLine, len(results)),
		Total:    board.Total(),
		Complete: snap.Complete,
	}
	for i, s := range results {
		sheet.Scores[i] = ScoreLine{Category: s.Category, Points: s.Points}
	}
	writeJSON(w, http.StatusOK, sheet)
}

// load fetches and validates the match named in the URL, writing the error
// response itself when it returns ok == false.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) (string, match.Snapshot, *scoring.Scoreboard, bool) {
	id := chi.URLParam(r, "id")
	snap, err := h.snapshots.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, match.ErrSnapshotNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorBody{Error: "match not found"})
			return "", match.Snapshot{}, nil, false
		}
		h.logger.Error("loading match", zap.String("match_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: "loading match failed"})
		return "", match.Snapshot{}, nil, false
	}
	board, err := scoring.Restore(snap.Board)
	if err != nil {
		h.logger.Error("stored match is inconsistent", zap.String("match_id", id), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: "stored match is inconsistent"})
		return "", match.Snapshot{}, nil, false
	}
	return id, snap, board, true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
