package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// maxAudioUpload bounds how much of an audio upload is accepted, 32 MiB.
const maxAudioUpload = 32 << 20

type sendMessageRequest struct {
	Text       string `json:"text"`
	RecieverID string `json:"recieverId"`
	Anonymous  bool   `json:"anonymous"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	message, err := s.messages.SendTextMessage(r.Context(), req.Text, req.RecieverID, req.Anonymous, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	skip := 0
	if v := r.URL.Query().Get("skip"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid skip"})
			return
		}
		skip = parsed
	}

	messages, err := s.messages.ListMessages(r.Context(), groupID, skip, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// handleSendAudio admits a multipart voice upload into the ingestion
// pipeline. The 202 only acknowledges the upload was accepted; the message
// shows up on the event stream once the pipeline finishes.
func (s *Server) handleSendAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUpload)

	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing audio file"})
		return
	}
	defer file.Close()

	// The pipeline outlives this request, but the multipart temp file does
	// not, so the upload is buffered before handing it off.
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unreadable audio file"})
		return
	}

	recieverID := r.FormValue("recieverId")
	anonymous := r.FormValue("anonymous") == "true"
	mimeType := header.Header.Get("Content-Type")

	err = s.ingest.SendAudioMessage(r.Context(), header.Filename, mimeType, bytes.NewReader(data), recieverID, anonymous, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
