// Package importer parses tabular bulk-import files into item drafts for
// the mutation engine. Rows that fail validation are excluded individually
// instead of aborting the whole batch; overlap with existing stock is
// resolved later, at commit time.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/erazemk/boardtrack/internal/model"
)

// Expected column order: serial number, part number, board name, category,
// warehouse name. A header row is detected and skipped.
const expectedColumns = 5

// RowError reports why a row was excluded from the import set.
type RowError struct {
	Row    int    `json:"row"` // 1-based, as in the source file
	Reason string `json:"reason"`
}

// Parse reads CSV data and produces item drafts. The warehouse column is
// matched against warehouse names case-insensitively; unmatched or empty
// names fall back to the central warehouse. Status is always Free for
// imported stock. Returned drafts are not yet checked against existing
// serials; engine.BulkImport does that at commit time.
func Parse(r io.Reader, warehouses []model.Warehouse) ([]model.Item, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows, validate per row
	cr.TrimLeadingSpace = true

	var drafts []model.Item
	var errs []RowError

	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("reading import data: %w", err)
		}
		row++

		if row == 1 && looksLikeHeader(record) {
			continue
		}

		draft, rowErr := parseRow(record, warehouses)
		if rowErr != "" {
			errs = append(errs, RowError{Row: row, Reason: rowErr})
			continue
		}
		drafts = append(drafts, draft)
	}

	return drafts, errs, nil
}

func parseRow(record []string, warehouses []model.Warehouse) (model.Item, string) {
	get := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	serial := get(0)
	if serial == "" {
		return model.Item{}, "missing serial number"
	}

	category := get(3)
	if category == "" {
		category = "Uncategorized"
	}

	return model.Item{
		SerialNumber: serial,
		PartNumber:   get(1),
		BoardName:    get(2),
		Category:     category,
		Status:       model.StatusFree,
		WarehouseID:  matchWarehouse(get(4), warehouses),
	}, ""
}

// matchWarehouse resolves a warehouse name to its id, falling back to the
// central warehouse. Returns "" only when there are no warehouses at all, in
// which case engine.BulkImport rejects the batch.
func matchWarehouse(name string, warehouses []model.Warehouse) string {
	if name != "" {
		for _, wh := range warehouses {
			if strings.EqualFold(wh.Name, name) {
				return wh.ID
			}
		}
	}
	for _, wh := range warehouses {
		if bool(wh.IsCentral) {
			return wh.ID
		}
	}
	if len(warehouses) > 0 {
		return warehouses[0].ID
	}
	return ""
}

// looksLikeHeader reports whether the first row carries column labels
// instead of data.
func looksLikeHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return strings.Contains(first, "serial")
}
