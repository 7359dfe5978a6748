package api

import (
	"net/http"

	"github.com/erazemk/boardtrack/internal/syncer"
)

// SyncHandler exposes the synchronization controller.
type SyncHandler struct {
	Controller *syncer.Controller
}

// Pull handles POST /api/sync/pull: fetch the remote snapshot and replace
// the local collections. A failed pull leaves local state untouched.
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	if err := h.Controller.PullAll(r.Context()); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.Controller.Info())
}

// Push handles POST /api/sync/push: send the full local snapshot to the
// mirror.
func (h *SyncHandler) Push(w http.ResponseWriter, r *http.Request) {
	if err := h.Controller.PushAll(r.Context()); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.Controller.Info())
}

// Status handles GET /api/sync/status.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.Controller.Info())
}
