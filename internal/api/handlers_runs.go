package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/semchunk/internal/store"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.orchestrator.Store().ListRuns(r.Context(), limit)
	if err != nil {
		s.log.Error("list runs", "error", err)
		jsonError(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	summary, err := s.orchestrator.Store().GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "run not found", http.StatusNotFound)
			return
		}
		s.log.Error("get run", "run_id", runID, "error", err)
		jsonError(w, "failed to load run", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

func (s *Server) handleGetRunChunks(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	// Confirm the run exists so a missing run is a 404, not an empty list.
	if _, err := s.orchestrator.Store().GetRun(r.Context(), runID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "run not found", http.StatusNotFound)
			return
		}
		s.log.Error("get run", "run_id", runID, "error", err)
		jsonError(w, "failed to load run", http.StatusInternalServerError)
		return
	}

	chunks, err := s.orchestrator.Store().GetChunks(r.Context(), runID)
	if err != nil {
		s.log.Error("get run chunks", "run_id", runID, "error", err)
		jsonError(w, "failed to load chunks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"run_id": runID,
		"chunks": chunks,
		"count":  len(chunks),
	})
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	if err := s.orchestrator.Store().DeleteRun(r.Context(), runID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "run not found", http.StatusNotFound)
			return
		}
		s.log.Error("delete run", "run_id", runID, "error", err)
		jsonError(w, "failed to delete run", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"run_id": runID, "status": "deleted"})
}
