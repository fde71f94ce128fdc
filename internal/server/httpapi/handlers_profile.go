package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Ernest2026/groupcon-chatapp-backend/internal/server/services"
)

// maxImageUpload bounds avatar uploads, 8 MiB.
const maxImageUpload = 8 << 20

// handleEditProfile takes a multipart form with bio and phone fields and an
// optional image file.
func (s *Server) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageUpload)

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	var image *services.ImageUpload
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		image = &services.ImageUpload{Filename: header.Filename, Data: file}
	}

	profile, err := s.profiles.EditProfile(r.Context(), r.FormValue("bio"), r.FormValue("phone"), image, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	profile, err := s.profiles.GetProfile(r.Context(), userID, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
