package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type signupRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	user, err := s.users.Signup(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	token, err := s.users.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["id"]

	user, err := s.users.GetUser(r.Context(), userID, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
