package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/boardtrack/internal/engine"
	"github.com/erazemk/boardtrack/internal/model"
	"github.com/erazemk/boardtrack/internal/store"
)

// ItemsHandler handles board CRUD endpoints.
type ItemsHandler struct {
	Store *store.Store
}

type itemRequest struct {
	SerialNumber string `json:"serialNumber"`
	PartNumber   string `json:"partNumber"`
	BoardName    string `json:"boardName"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	WarehouseID  string `json:"warehouseId"`
}

func (req itemRequest) item() model.Item {
	return model.Item{
		SerialNumber: strings.TrimSpace(req.SerialNumber),
		PartNumber:   req.PartNumber,
		BoardName:    req.BoardName,
		Category:     req.Category,
		Status:       model.ItemStatus(req.Status),
		WarehouseID:  req.WarehouseID,
	}
}

// List handles GET /api/items. Supports q (substring match on serial, part
// and board name), warehouse and status filters.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	warehouse := r.URL.Query().Get("warehouse")
	status := r.URL.Query().Get("status")

	snap := h.Store.Snapshot()
	items := []model.Item{}
	for _, item := range snap.Items {
		if warehouse != "" && item.WarehouseID != warehouse {
			continue
		}
		if status != "" && string(item.Status) != status {
			continue
		}
		if q != "" && !matchesQuery(item, q) {
			continue
		}
		items = append(items, item)
	}
	jsonResponse(w, http.StatusOK, items)
}

func matchesQuery(item model.Item, q string) bool {
	return strings.Contains(strings.ToLower(item.SerialNumber), q) ||
		strings.Contains(strings.ToLower(item.PartNumber), q) ||
		strings.Contains(strings.ToLower(item.BoardName), q)
}

// Create handles POST /api/items (receiving a new board).
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item := req.item()
	user := actor(r)
	err := h.Store.Apply(r.Context(), func(s model.Snapshot) (model.Snapshot, error) {
		next, err := engine.Receive(s, item, user, time.Now())
		if err == nil {
			item = next.Items[len(next.Items)-1]
		}
		return next, err
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{serial}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")
	snap := h.Store.Snapshot()
	idx := snap.ItemIndex(serial)
	if idx < 0 {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, snap.Items[idx])
}

// Update handles PUT /api/items/{serial}. The path serial identifies the
// item; the body may carry a different serial number (a rename).
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item := req.item()
	user := actor(r)
	err := h.Store.Apply(r.Context(), func(s model.Snapshot) (model.Snapshot, error) {
		next, err := engine.Update(s, serial, item, user, time.Now())
		if err == nil {
			idx := next.ItemIndex(item.SerialNumber)
			item = next.Items[idx]
		}
		return next, err
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{serial}. Removal is irreversible; the
// audit entry produced by the engine is what remains of the item.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")
	user := actor(r)

	err := h.Store.Apply(r.Context(), func(s model.Snapshot) (model.Snapshot, error) {
		return engine.Delete(s, serial, user, time.Now())
	})
	if err != nil {
		domainError(w, err)
		return
	}

	// Stored photo is orphaned once the item is gone.
	if err := h.Store.DeletePhoto(r.Context(), serial); err != nil {
		jsonError(w, http.StatusInternalServerError, "item deleted but photo cleanup failed")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// History handles GET /api/items/{serial}/history: the item's audit entries,
// newest first.
func (h *ItemsHandler) History(w http.ResponseWriter, r *http.Request) {
	serial := r.PathValue("serial")
	snap := h.Store.Snapshot()

	logs := []model.TransferLog{}
	for _, entry := range snap.Logs {
		if entry.SerialNumber == serial {
			logs = append(logs, entry)
		}
	}
	jsonResponse(w, http.StatusOK, logs)
}
