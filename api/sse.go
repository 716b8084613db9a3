package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ckgxrg/dwsh/backend"
	"github.com/ckgxrg/dwsh/events"
)

// sseSink writes events in text/event-stream framing. Each event carries an
// increasing id so clients can spot gaps left by dropped events.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
	id      uint64
}

func (s *sseSink) send(e events.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.Type, err)
	}
	s.id++
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.id, e.Type, data); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// heartbeat sends an SSE comment, which EventSource ignores.
func (s *sseSink) heartbeat() error {
	if _, err := fmt.Fprint(s.w, ": keepalive\n\n"); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// sseHandler streams events to EventSource clients.
func sseHandler(b *backend.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := parseStreamOptions(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		stream(r.Context(), b, opts, &sseSink{w: w, flusher: flusher}, nil)
	}
}
