package api

import (
	"net/http"

	"github.com/erazemk/boardtrack/internal/model"
	"github.com/erazemk/boardtrack/internal/store"
)

// DashboardHandler aggregates the overview numbers shown on the landing
// page: stock totals by status, the per-warehouse distribution and the most
// recent audit entries.
type DashboardHandler struct {
	Store *store.Store
}

const recentActivityLimit = 5

type warehouseSummary struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	IsCentral bool           `json:"isCentral"`
	ItemCount int            `json:"itemCount"`
	ByStatus  map[string]int `json:"byStatus"`
}

type dashboardResponse struct {
	TotalItems     int                 `json:"totalItems"`
	ByStatus       map[string]int      `json:"byStatus"`
	Warehouses     []warehouseSummary  `json:"warehouses"`
	RecentActivity []model.TransferLog `json:"recentActivity"`
}

// Get handles GET /api/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()

	resp := dashboardResponse{
		TotalItems:     len(snap.Items),
		ByStatus:       map[string]int{},
		Warehouses:     []warehouseSummary{},
		RecentActivity: []model.TransferLog{},
	}

	perWarehouse := make(map[string]*warehouseSummary, len(snap.Warehouses))
	for _, wh := range snap.Warehouses {
		summary := &warehouseSummary{
			ID:        wh.ID,
			Name:      wh.Name,
			IsCentral: bool(wh.IsCentral),
			ByStatus:  map[string]int{},
		}
		perWarehouse[wh.ID] = summary
	}

	for _, item := range snap.Items {
		resp.ByStatus[string(item.Status)]++
		if summary, ok := perWarehouse[item.WarehouseID]; ok {
			summary.ItemCount++
			summary.ByStatus[string(item.Status)]++
		}
	}

	// Preserve warehouse declaration order.
	for _, wh := range snap.Warehouses {
		resp.Warehouses = append(resp.Warehouses, *perWarehouse[wh.ID])
	}

	for i, entry := range snap.Logs {
		if i == recentActivityLimit {
			break
		}
		resp.RecentActivity = append(resp.RecentActivity, entry)
	}

	jsonResponse(w, http.StatusOK, resp)
}
