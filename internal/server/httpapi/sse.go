package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/pubsub"
)

var topics = map[string]pubsub.Topic{
	"message-added": pubsub.TopicMessageAdded,
	"user-joined":   pubsub.TopicUserJoined,
	"user-left":     pubsub.TopicUserLeft,
}

// handleSubscribe streams broker events as server-sent events. An optional
// ?group= query parameter scopes delivery to one group; without it the
// stream carries every event on the topic and clients filter themselves.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	topic, ok := topics[mux.Vars(r)["topic"]]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown topic"})
		return
	}

	if !requesterFrom(r.Context()).SignedIn() {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	sub := s.broker.Subscribe(topic, r.URL.Query().Get("group"))
	if sub == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "shutting down"})
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				s.logger.Error(r.Context(), "error encoding event", "topic", ev.Topic, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Topic, data)
			flusher.Flush()
		}
	}
}
