package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erazemk/boardtrack/internal/db"
	"github.com/erazemk/boardtrack/internal/importer"
	"github.com/erazemk/boardtrack/internal/mirror"
	"github.com/erazemk/boardtrack/internal/model"
	"github.com/erazemk/boardtrack/internal/store"
	"github.com/erazemk/boardtrack/internal/syncer"
)

const testSecret = "test-secret"

func setupTestServer(t *testing.T) (*httptest.Server, *mirror.Memory, string) {
	t.Helper()

	database := db.NewTestDB(t)
	st, err := store.Open(context.Background(), database)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}

	gw := mirror.NewMemory(model.Snapshot{})
	controller := syncer.New(st, gw, syncer.Config{})

	server := httptest.NewServer(NewRouter(st, controller, testSecret))
	t.Cleanup(server.Close)

	return server, gw, issueToken(t, server, "Alice", model.RoleAdmin)
}

func issueToken(t *testing.T, server *httptest.Server, name, role string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"name": name, "role": role})
	resp, err := http.Post(server.URL+"/api/auth/session", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("session request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session failed: %d", resp.StatusCode)
	}

	var session struct {
		Token string `json:"token"`
	}
	json.NewDecoder(resp.Body).Decode(&session)
	if session.Token == "" {
		t.Fatal("empty token from session")
	}
	return session.Token
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func TestSessionRejectsUnknownRole(t *testing.T) {
	server, _, _ := setupTestServer(t)

	body, _ := json.Marshal(map[string]string{"name": "Mallory", "role": "Owner"})
	resp, err := http.Post(server.URL+"/api/auth/session", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/auth/session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown role, got %d", resp.StatusCode)
	}
}

func TestItemsFlow(t *testing.T) {
	server, _, token := setupTestServer(t)

	// Receive a new board.
	resp := doJSON(t, "POST", server.URL+"/api/items", token, map[string]string{
		"serialNumber": "SN-NEW-1",
		"partNumber":   "PN-100",
		"boardName":    "Sensor Hub",
		"category":     "Sensing",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.Item
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if created.Status != model.StatusFree {
		t.Errorf("expected status Free default, got %s", created.Status)
	}
	if created.WarehouseID != "wh-001" {
		t.Errorf("expected central warehouse default, got %s", created.WarehouseID)
	}

	// Duplicate serial is a conflict.
	resp = doJSON(t, "POST", server.URL+"/api/items", token, map[string]string{
		"serialNumber": "SN-NEW-1",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate serial, got %d", resp.StatusCode)
	}

	// Fetch it back.
	resp = doJSON(t, "GET", server.URL+"/api/items/SN-NEW-1", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Update the status.
	resp = doJSON(t, "PUT", server.URL+"/api/items/SN-NEW-1", token, map[string]string{
		"serialNumber": "SN-NEW-1",
		"partNumber":   "PN-100",
		"boardName":    "Sensor Hub",
		"category":     "Sensing",
		"status":       "Reserved",
		"warehouseId":  "wh-001",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d", resp.StatusCode)
	}
	var updated model.Item
	json.NewDecoder(resp.Body).Decode(&updated)
	resp.Body.Close()
	if updated.Status != model.StatusReserved {
		t.Errorf("expected Reserved, got %s", updated.Status)
	}

	// Delete it.
	resp = doJSON(t, "DELETE", server.URL+"/api/items/SN-NEW-1", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.StatusCode)
	}

	resp = doJSON(t, "GET", server.URL+"/api/items/SN-NEW-1", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}

	// History survives the deletion.
	resp = doJSON(t, "GET", server.URL+"/api/items/SN-NEW-1/history", token, nil)
	var history []model.TransferLog
	json.NewDecoder(resp.Body).Decode(&history)
	resp.Body.Close()
	if len(history) != 2 {
		t.Fatalf("expected receipt + removal entries, got %d", len(history))
	}
	if history[0].ToWarehouseID != model.WarehouseDeleted {
		t.Errorf("newest entry should record removal, got %+v", history[0])
	}
}

func TestItemsListFilters(t *testing.T) {
	server, _, token := setupTestServer(t)

	resp := doJSON(t, "GET", server.URL+"/api/items?warehouse=wh-002", token, nil)
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 || items[0].SerialNumber != "SN-P2001" {
		t.Errorf("warehouse filter: expected SN-P2001, got %+v", items)
	}

	resp = doJSON(t, "GET", server.URL+"/api/items?q=power", token, nil)
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 1 || items[0].BoardName != "Power Shield 30A" {
		t.Errorf("text filter: expected Power Shield 30A, got %+v", items)
	}

	resp = doJSON(t, "GET", server.URL+"/api/items?status=Free", token, nil)
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 3 {
		t.Errorf("status filter: expected 3 free boards, got %d", len(items))
	}
}

func TestViewerIsReadOnly(t *testing.T) {
	server, _, _ := setupTestServer(t)
	viewer := issueToken(t, server, "Bob", model.RoleViewer)

	resp := doJSON(t, "POST", server.URL+"/api/items", viewer, map[string]string{
		"serialNumber": "SN-DENIED",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for viewer create, got %d", resp.StatusCode)
	}

	// No token at all acts as a viewer too.
	resp = doJSON(t, "DELETE", server.URL+"/api/items/SN-X1001", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for anonymous delete, got %d", resp.StatusCode)
	}

	// Reads stay open.
	resp = doJSON(t, "GET", server.URL+"/api/items", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for anonymous list, got %d", resp.StatusCode)
	}
}

func TestTransfersFlow(t *testing.T) {
	server, _, token := setupTestServer(t)

	resp := doJSON(t, "POST", server.URL+"/api/transfers", token, map[string]any{
		"serialNumbers":   []string{"SN-X1001", "SN-X1002"},
		"fromWarehouseId": "wh-001",
		"toWarehouseId":   "wh-003",
		"reason":          "Line restock",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// One entry per moved board, newest first.
	resp = doJSON(t, "GET", server.URL+"/api/transfers?warehouse=wh-003", token, nil)
	var logs []model.TransferLog
	json.NewDecoder(resp.Body).Decode(&logs)
	resp.Body.Close()
	if len(logs) != 2 {
		t.Fatalf("expected 2 transfer entries, got %d", len(logs))
	}
	for _, entry := range logs {
		if entry.Reason != "Line restock" || entry.User != "Alice" {
			t.Errorf("unexpected entry: %+v", entry)
		}
		if entry.Quantity != 1 {
			t.Errorf("each entry represents one board, got quantity %d", entry.Quantity)
		}
	}

	// Missing serial fails the whole batch.
	resp = doJSON(t, "POST", server.URL+"/api/transfers", token, map[string]any{
		"serialNumbers":   []string{"SN-X1003", "SN-MISSING"},
		"fromWarehouseId": "wh-003",
		"toWarehouseId":   "wh-001",
		"reason":          "Return",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown serial, got %d", resp.StatusCode)
	}

	resp = doJSON(t, "GET", server.URL+"/api/items/SN-X1003", token, nil)
	var item model.Item
	json.NewDecoder(resp.Body).Decode(&item)
	resp.Body.Close()
	if item.WarehouseID != "wh-003" {
		t.Errorf("failed batch must not move anything, item at %s", item.WarehouseID)
	}
}

func TestWarehousesFlow(t *testing.T) {
	server, _, token := setupTestServer(t)

	resp := doJSON(t, "POST", server.URL+"/api/warehouses", token, map[string]any{
		"name":      "Overflow Annex",
		"location":  "Building D",
		"isCentral": true,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.Warehouse
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	if !strings.HasPrefix(created.ID, "wh-") {
		t.Errorf("expected generated wh- id, got %q", created.ID)
	}

	// The previous central warehouse was demoted.
	resp = doJSON(t, "GET", server.URL+"/api/warehouses", token, nil)
	var warehouses []model.Warehouse
	json.NewDecoder(resp.Body).Decode(&warehouses)
	resp.Body.Close()
	central := 0
	for _, wh := range warehouses {
		if bool(wh.IsCentral) {
			central++
		}
	}
	if central != 1 {
		t.Errorf("expected exactly one central warehouse, got %d", central)
	}
}

func TestTransferableExcludesFaulty(t *testing.T) {
	server, _, token := setupTestServer(t)

	// wh-004 holds only the faulty display module.
	resp := doJSON(t, "GET", server.URL+"/api/warehouses/wh-004/transferable", token, nil)
	var items []model.Item
	json.NewDecoder(resp.Body).Decode(&items)
	resp.Body.Close()
	if len(items) != 0 {
		t.Errorf("faulty boards must not be transferable, got %+v", items)
	}
}

func TestImportDryRunAndCommit(t *testing.T) {
	server, _, token := setupTestServer(t)

	csv := "serial,part,board,category,warehouse\n" +
		"SN-IMP-1,PN-500,Relay Driver,Power,R&D Lab North\n" +
		",PN-501,No Serial,Power,\n" +
		"SN-X1001,PN-782,Main Controller V2,Logic,\n"

	upload := func(url string) *http.Response {
		req, _ := http.NewRequest("POST", url, strings.NewReader(csv))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "text/csv")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("import request: %v", err)
		}
		return resp
	}

	// Dry run returns drafts without committing.
	resp := upload(server.URL + "/api/items/import?dry_run=1")
	var preview struct {
		Drafts    []model.Item        `json:"drafts"`
		RowErrors []importer.RowError `json:"rowErrors"`
	}
	json.NewDecoder(resp.Body).Decode(&preview)
	resp.Body.Close()
	if len(preview.Drafts) != 2 {
		t.Fatalf("expected 2 drafts (duplicate resolved at commit), got %d", len(preview.Drafts))
	}
	if len(preview.RowErrors) != 1 {
		t.Errorf("expected 1 row error for missing serial, got %d", len(preview.RowErrors))
	}

	resp = doJSON(t, "GET", server.URL+"/api/items/SN-IMP-1", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("dry run must not commit, got %d", resp.StatusCode)
	}

	// Commit: the existing serial is skipped, the new one lands.
	resp = upload(server.URL + "/api/items/import")
	var result struct {
		Added int `json:"added"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()
	if result.Added != 1 {
		t.Errorf("expected 1 item added, got %d", result.Added)
	}

	resp = doJSON(t, "GET", server.URL+"/api/items/SN-IMP-1", token, nil)
	var item model.Item
	json.NewDecoder(resp.Body).Decode(&item)
	resp.Body.Close()
	if item.WarehouseID != "wh-002" {
		t.Errorf("expected R&D Lab North match, got %s", item.WarehouseID)
	}
}

func TestSyncEndpoints(t *testing.T) {
	server, gw, token := setupTestServer(t)

	// Push publishes the local snapshot to the mirror.
	resp := doJSON(t, "POST", server.URL+"/api/sync/push", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on push, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	remote, err := gw.FetchSnapshot(context.Background())
	if err != nil {
		t.Fatalf("fetching mirror: %v", err)
	}
	if len(remote.Items) != 6 {
		t.Errorf("expected 6 mirrored items, got %d", len(remote.Items))
	}

	// Pull reports success and records a sync time.
	resp = doJSON(t, "POST", server.URL+"/api/sync/pull", token, nil)
	var info syncer.Info
	json.NewDecoder(resp.Body).Decode(&info)
	resp.Body.Close()
	if info.Status != syncer.StatusSuccess {
		t.Errorf("expected success status, got %s", info.Status)
	}
	if info.LastSync == "" {
		t.Error("expected last sync time to be recorded")
	}

	resp = doJSON(t, "GET", server.URL+"/api/sync/status", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 from status, got %d", resp.StatusCode)
	}
}

func TestDashboard(t *testing.T) {
	server, _, token := setupTestServer(t)

	resp := doJSON(t, "GET", server.URL+"/api/dashboard", token, nil)
	var dash struct {
		TotalItems int                 `json:"totalItems"`
		ByStatus   map[string]int      `json:"byStatus"`
		Warehouses []warehouseSummary  `json:"warehouses"`
		Recent     []model.TransferLog `json:"recentActivity"`
	}
	json.NewDecoder(resp.Body).Decode(&dash)
	resp.Body.Close()

	if dash.TotalItems != 6 {
		t.Errorf("expected 6 items, got %d", dash.TotalItems)
	}
	if dash.ByStatus["Free"] != 3 || dash.ByStatus["Faulty"] != 1 {
		t.Errorf("unexpected status totals: %+v", dash.ByStatus)
	}
	if len(dash.Warehouses) != 4 {
		t.Fatalf("expected 4 warehouse summaries, got %d", len(dash.Warehouses))
	}
	if dash.Warehouses[0].ItemCount != 3 {
		t.Errorf("expected 3 items in the central store, got %d", dash.Warehouses[0].ItemCount)
	}
	if len(dash.Recent) != 1 {
		t.Errorf("expected the seeded transfer entry, got %d entries", len(dash.Recent))
	}
}

func TestPhotoNotFound(t *testing.T) {
	server, _, token := setupTestServer(t)

	resp := doJSON(t, "GET", server.URL+"/api/items/SN-X1001/photo", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing photo, got %d", resp.StatusCode)
	}

	resp = doJSON(t, "PUT", server.URL+"/api/items/SN-MISSING/photo", token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 uploading to unknown item, got %d", resp.StatusCode)
	}
}
