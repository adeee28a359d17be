// Package httpapi exposes the engine to the web client as a small JSON API.
// It is presentation glue: every handler just calls an engine mutation or
// reads the current snapshot.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/renatodap/day/internal/engine"
	"github.com/renatodap/day/internal/model"
)

type API struct {
	engine *engine.Engine
	log    *slog.Logger
}

func New(e *engine.Engine, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{engine: e, log: logger}
}

// Handler builds the router. Mutations refresh nothing server-side: the
// engine already applied them locally, and failed writes were rolled back
// before the handler returns.
func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	r.Use(corsMiddleware.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/today", a.handleToday)
		r.Post("/refresh", a.handleRefresh)
		r.Post("/checks/{flag}/toggle", a.handleToggle)
		r.Post("/workouts", a.handleAddWorkout)
		r.Delete("/workouts", a.handleRemoveWorkout)
		r.Put("/weight", a.handleUpdateWeight)
		r.Post("/tasks/{taskID}/completions", a.handleCompleteTask)
		r.Delete("/tasks/{taskID}/completions", a.handleUncompleteTask)
	})
	return r
}

type todayResponse struct {
	Snapshot model.Snapshot `json:"snapshot"`
	Expected int            `json:"expected_workouts"`
}

func (a *API) handleToday(w http.ResponseWriter, r *http.Request) {
	snap, ok := a.engine.Snapshot()
	if !ok {
		if err := a.engine.Err(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "view-model unavailable")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "view-model not loaded")
		return
	}
	writeJSON(w, http.StatusOK, todayResponse{Snapshot: snap, Expected: a.engine.ExpectedWorkouts()})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := a.engine.Refresh(r.Context()); err != nil {
		a.log.Error("refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, "refresh failed")
		return
	}
	a.handleToday(w, r)
}

func (a *API) handleToggle(w http.ResponseWriter, r *http.Request) {
	var err error
	switch flag := chi.URLParam(r, "flag"); flag {
	case "deficit":
		err = a.engine.ToggleDeficit(r.Context())
	case "protein":
		err = a.engine.ToggleProtein(r.Context())
	default:
		writeError(w, http.StatusNotFound, "unknown flag")
		return
	}
	a.respondAfterMutation(w, err)
}

func (a *API) handleAddWorkout(w http.ResponseWriter, r *http.Request) {
	a.respondAfterMutation(w, a.engine.AddWorkout(r.Context()))
}

func (a *API) handleRemoveWorkout(w http.ResponseWriter, r *http.Request) {
	a.respondAfterMutation(w, a.engine.RemoveWorkout(r.Context()))
}

type weightRequest struct {
	Weight float64 `json:"weight"`
}

func (a *API) handleUpdateWeight(w http.ResponseWriter, r *http.Request) {
	var req weightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	a.respondAfterMutation(w, a.engine.UpdateWeight(r.Context(), req.Weight))
}

func (a *API) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	a.respondAfterMutation(w, a.engine.CompleteTask(r.Context(), chi.URLParam(r, "taskID")))
}

func (a *API) handleUncompleteTask(w http.ResponseWriter, r *http.Request) {
	a.respondAfterMutation(w, a.engine.UncompleteTask(r.Context(), chi.URLParam(r, "taskID")))
}

type mutationResponse struct {
	Snapshot model.Snapshot `json:"snapshot"`
	// Failure is set when the remote write failed and local state was
	// rolled back. The request still succeeds: the snapshot is valid.
	Failure string `json:"failure,omitempty"`
}

func (a *API) respondAfterMutation(w http.ResponseWriter, mutErr error) {
	if mutErr == engine.ErrNotLoaded {
		writeError(w, http.StatusServiceUnavailable, "view-model not loaded")
		return
	}
	snap, ok := a.engine.Snapshot()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "view-model not loaded")
		return
	}
	resp := mutationResponse{Snapshot: snap}
	if mutErr != nil {
		a.log.Warn("mutation failed", "error", mutErr)
		resp.Failure = mutErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
