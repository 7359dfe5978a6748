package api

import (
	"net/http"
	"time"

	"github.com/erazemk/boardtrack/internal/engine"
	"github.com/erazemk/boardtrack/internal/model"
	"github.com/erazemk/boardtrack/internal/store"
)

// TransfersHandler handles batch transfers and the audit log view.
type TransfersHandler struct {
	Store *store.Store
}

type transferRequest struct {
	SerialNumbers   []string `json:"serialNumbers"`
	FromWarehouseID string   `json:"fromWarehouseId"`
	ToWarehouseID   string   `json:"toWarehouseId"`
	Reason          string   `json:"reason"`
}

// Create handles POST /api/transfers: moves a batch of boards to another
// warehouse. All serials transfer or none do.
func (h *TransfersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user := actor(r)
	err := h.Store.Apply(r.Context(), func(s model.Snapshot) (model.Snapshot, error) {
		return engine.Transfer(s, req.SerialNumbers, req.FromWarehouseID, req.ToWarehouseID, req.Reason, user, time.Now())
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{
		"transferred": len(req.SerialNumbers),
	})
}

// List handles GET /api/transfers: audit entries newest first, filterable
// by serial and by warehouse (matching either side of a move).
func (h *TransfersHandler) List(w http.ResponseWriter, r *http.Request) {
	serial := r.URL.Query().Get("serial")
	warehouse := r.URL.Query().Get("warehouse")

	snap := h.Store.Snapshot()
	logs := []model.TransferLog{}
	for _, entry := range snap.Logs {
		if serial != "" && entry.SerialNumber != serial {
			continue
		}
		if warehouse != "" && entry.FromWarehouseID != warehouse && entry.ToWarehouseID != warehouse {
			continue
		}
		logs = append(logs, entry)
	}
	jsonResponse(w, http.StatusOK, logs)
}
