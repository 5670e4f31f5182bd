package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/clipkeep/clipkeep/internal/history"
	"github.com/clipkeep/clipkeep/internal/version"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	GoVersion     string  `json:"go_version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Entries       int     `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	s.writeJSON(w, http.StatusOK, healthzResponse{
		Status:        "ok",
		Version:       version.Version,
		GoVersion:     version.GoVersion,
		UptimeSeconds: time.Since(s.started).Seconds(),
		Entries:       s.hist.Len(),
	})
}

// handleList returns the history newest first, in the same shape the
// history file uses. An optional limit query parameter caps the count.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries := s.hist.Entries()

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit < len(entries) {
			entries = entries[:limit]
		}
	}

	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	entry, err := s.hist.Get(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "no history entry with id "+id)
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

// handleRestore copies an entry back onto the clipboard. A stale id is
// the client's mistake; a failing clipboard is the machine's.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.hist.Restore(id)
	switch {
	case errors.Is(err, history.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "no history entry with id "+id)
	case err != nil:
		s.log.Warn("restore failed", "id", id, "error", err)
		s.writeError(w, http.StatusBadGateway, "could not write to the system clipboard")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.hist.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug("could not write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
