package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/boardtrack/internal/store"
	"github.com/erazemk/boardtrack/internal/syncer"
)

// NewRouter creates the API router with all endpoints registered. Read
// endpoints are open; mutating endpoints require an editor role token.
func NewRouter(st *store.Store, controller *syncer.Controller, secret string) http.Handler {
	mux := http.NewServeMux()

	sessionHandler := &SessionHandler{Secret: secret}
	itemsHandler := &ItemsHandler{Store: st}
	warehousesHandler := &WarehousesHandler{Store: st}
	transfersHandler := &TransfersHandler{Store: st}
	importsHandler := &ImportsHandler{Store: st}
	photosHandler := &PhotosHandler{Store: st}
	dashboardHandler := &DashboardHandler{Store: st}
	syncHandler := &SyncHandler{Controller: controller}

	editor := func(h http.HandlerFunc) http.Handler {
		return RequireEditor(h)
	}

	// Sessions.
	mux.HandleFunc("POST /api/auth/session", sessionHandler.Create)

	// Items: read (all), write (editor).
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.Handle("POST /api/items", editor(itemsHandler.Create))
	mux.Handle("POST /api/items/import", editor(importsHandler.Create))
	mux.HandleFunc("GET /api/items/{serial}", itemsHandler.Get)
	mux.Handle("PUT /api/items/{serial}", editor(itemsHandler.Update))
	mux.Handle("DELETE /api/items/{serial}", editor(itemsHandler.Delete))
	mux.HandleFunc("GET /api/items/{serial}/history", itemsHandler.History)
	mux.Handle("PUT /api/items/{serial}/photo", editor(photosHandler.Upload))
	mux.HandleFunc("GET /api/items/{serial}/photo", photosHandler.Get)

	// Warehouses.
	mux.HandleFunc("GET /api/warehouses", warehousesHandler.List)
	mux.Handle("POST /api/warehouses", editor(warehousesHandler.Create))
	mux.Handle("PUT /api/warehouses/{id}", editor(warehousesHandler.Update))
	mux.HandleFunc("GET /api/warehouses/{id}/transferable", warehousesHandler.Transferable)

	// Transfers.
	mux.Handle("POST /api/transfers", editor(transfersHandler.Create))
	mux.HandleFunc("GET /api/transfers", transfersHandler.List)

	// Synchronization: pull/push mutate local or remote state, so they need
	// an editor role too; status is open.
	mux.Handle("POST /api/sync/pull", editor(syncHandler.Pull))
	mux.Handle("POST /api/sync/push", editor(syncHandler.Push))
	mux.HandleFunc("GET /api/sync/status", syncHandler.Status)

	// Dashboard.
	mux.HandleFunc("GET /api/dashboard", dashboardHandler.Get)

	// Prometheus metrics.
	mux.Handle("GET /metrics", promhttp.Handler())

	return LoggingMiddleware(TokenMiddleware(secret)(mux))
}
