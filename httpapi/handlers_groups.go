package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type groupRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	grp, err := s.engine.CreateGroup(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(grp))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.engine.ListGroups(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponses(groups))
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	grp, err := s.engine.GetGroup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(grp))
}

func (s *Server) handleRenameGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	grp, err := s.engine.RenameGroup(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(grp))
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteGroup(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Group deleted")
}

type addMemberRequest struct {
	UserName string `json:"userName"`
}

// handleAddMember links the named account into the group identified by
// the path id.
func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req addMemberRequest
	if !decodeBody(w, r, &req) {
		return
	}

	grp, err := s.engine.AddMember(r.Context(), chi.URLParam(r, "id"), req.UserName)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(grp))
}

// handleRemoveMember unlinks the account from the group, both
// identified by path ids.
func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	grp, err := s.engine.RemoveMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(grp))
}

// handleGroupsByAccount lists every group the named account belongs to.
func (s *Server) handleGroupsByAccount(w http.ResponseWriter, r *http.Request) {
	groups, err := s.engine.GroupsByAccountName(r.Context(), chi.URLParam(r, "userName"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponses(groups))
}
