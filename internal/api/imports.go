package api

import (
	"net/http"
	"time"

	"github.com/erazemk/boardtrack/internal/engine"
	"github.com/erazemk/boardtrack/internal/importer"
	"github.com/erazemk/boardtrack/internal/model"
	"github.com/erazemk/boardtrack/internal/store"
)

// ImportsHandler handles bulk CSV imports.
type ImportsHandler struct {
	Store *store.Store
}

type importResponse struct {
	Added     int                 `json:"added"`
	Drafts    []model.Item        `json:"drafts,omitempty"`
	RowErrors []importer.RowError `json:"rowErrors"`
}

// Create handles POST /api/items/import. The request body is the CSV file.
// With ?dry_run=1 the parsed drafts are returned without committing, so a
// client can show a preview; otherwise the drafts are committed and serials
// already in stock are skipped.
func (h *ImportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	// Bulk files are small; 10 MB is generous.
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	defer r.Body.Close()

	snap := h.Store.Snapshot()
	drafts, rowErrors, err := importer.Parse(r.Body, snap.Warehouses)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "unreadable import file: "+err.Error())
		return
	}
	if rowErrors == nil {
		rowErrors = []importer.RowError{}
	}

	if r.URL.Query().Get("dry_run") == "1" {
		jsonResponse(w, http.StatusOK, importResponse{
			Drafts:    drafts,
			RowErrors: rowErrors,
		})
		return
	}

	user := actor(r)
	added := 0
	err = h.Store.Apply(r.Context(), func(s model.Snapshot) (model.Snapshot, error) {
		next, n, err := engine.BulkImport(s, drafts, user, time.Now())
		added = n
		return next, err
	})
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, importResponse{
		Added:     added,
		RowErrors: rowErrors,
	})
}
