package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/clipkeep/clipkeep/internal/domain"
)

// handleEvents streams history snapshots as server-sent events. The
// client receives the current snapshot right away and then one event
// per mutation until it disconnects. Every event carries the full
// sequence, so a client can always rebuild its view from the latest
// event alone.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Snapshots that arrive faster than the client reads replace each
	// other; only the newest one matters. The subscriber callback runs
	// under the manager's lock and must never block.
	updates := make(chan []domain.Entry, 1)
	unsubscribe := s.hist.Subscribe(func(entries []domain.Entry) {
		select {
		case <-updates:
		default:
		}
		updates <- entries
	})
	defer unsubscribe()

	send := func(entries []domain.Entry) bool {
		data, err := json.Marshal(entries)
		if err != nil {
			s.log.Warn("could not encode history event", "error", err)
			return false
		}
		if _, err := fmt.Fprintf(w, "event: history\ndata: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(s.hist.Entries()) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case entries := <-updates:
			if !send(entries) {
				return
			}
		}
	}
}
