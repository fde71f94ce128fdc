package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type createGroupRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type joinGroupRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), req.Name, req.Password, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	group, err := s.groups.GetGroup(r.Context(), groupID, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

func (s *Server) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	var req joinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json"})
		return
	}

	result, err := s.groups.JoinGroup(r.Context(), groupID, req.Nickname, req.Password, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLeaveGroup(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	result, err := s.groups.LeaveGroup(r.Context(), groupID, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	groupID := mux.Vars(r)["id"]

	members, err := s.groups.ListGroupMembers(r.Context(), groupID, requesterFrom(r.Context()))
	if err != nil {
		writeError(r.Context(), w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}
