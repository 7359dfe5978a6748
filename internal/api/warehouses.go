package api

import (
	"net/http"

	"github.com/erazemk/boardtrack/internal/engine"
	"github.com/erazemk/boardtrack/internal/model"
	"github.com/erazemk/boardtrack/internal/store"
)

// WarehousesHandler handles warehouse endpoints. Warehouses can be added
// and edited but never deleted: audit entries reference them by id forever.
type WarehousesHandler struct {
	Store *store.Store
}

type warehouseRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	IsCentral bool   `json:"isCentral"`
}

// List handles GET /api/warehouses.
func (h *WarehousesHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	if snap.Warehouses == nil {
		snap.Warehouses = []model.Warehouse{}
	}
	jsonResponse(w, http.StatusOK, snap.Warehouses)
}

// Create handles POST /api/warehouses.
func (h *WarehousesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req warehouseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var created model.Warehouse
	err := h.Store.Apply(r.Context(), func(s model.Snapshot) (model.Snapshot, error) {
		next, wh, err := engine.AddWarehouse(s, req.Name, req.Location, req.IsCentral)
		created = wh
		return next, err
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Update handles PUT /api/warehouses/{id}.
func (h *WarehousesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req warehouseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wh := model.Warehouse{
		ID:        id,
		Name:      req.Name,
		Location:  req.Location,
		IsCentral: model.CellBool(req.IsCentral),
	}
	err := h.Store.Apply(r.Context(), func(s model.Snapshot) (model.Snapshot, error) {
		return engine.UpdateWarehouse(s, wh)
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, wh)
}

// Transferable handles GET /api/warehouses/{id}/transferable: the items at
// the warehouse that may be offered for transfer (faulty boards excluded).
func (h *WarehousesHandler) Transferable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	snap := h.Store.Snapshot()
	if _, ok := snap.Warehouse(id); !ok {
		jsonError(w, http.StatusNotFound, "warehouse not found")
		return
	}

	items := engine.TransferableItems(snap, id)
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}
