package api

import (
	"net/http"

	"github.com/erazemk/boardtrack/internal/auth"
	"github.com/erazemk/boardtrack/internal/model"
)

// SessionHandler issues role tokens. There is no credential check: the
// client declares a name and a role and gets them back signed, so later
// requests carry a consistent actor identity for the audit log.
type SessionHandler struct {
	Secret string
}

type sessionRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type sessionResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Create handles POST /api/auth/session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Role == "" {
		req.Role = model.RoleViewer
	}
	if !model.ValidRole(req.Role) {
		jsonError(w, http.StatusBadRequest, "unknown role")
		return
	}

	token, err := auth.GenerateToken(h.Secret, req.Name, req.Role)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	jsonResponse(w, http.StatusOK, sessionResponse{
		Token: token,
		User:  model.User{Name: req.Name, Role: req.Role},
	})
}
