package backend

import (
	"fmt"
	"net/http"

	"github.com/Another0Noob/fridge-recipes/internal/logging"
	"github.com/goccy/go-json"
)

// HandleEvents streams the session status via SSE: one event on connect and
// one after every change.
// GET /api/sessions/{id}/events
func (api *RecommendAPI) HandleEvents(w http.ResponseWriter, r *http.Request) {
	session, ok := api.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := session.Engine.Subscribe()
	defer unsubscribe()

	sendUpdate := func() {
		data, err := json.Marshal(statusView(session.Engine.Status()))
		if err != nil {
			logging.Warn().Err(err).Str("session", session.ID).Msg("encode status event")
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	// Initial event
	sendUpdate()

	ctx := r.Context()
	for {
		select {
		case <-ch:
			sendUpdate()
		case <-session.Ctx.Done():
			return
		case <-ctx.Done():
			return
		}
	}
}
