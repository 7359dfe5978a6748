package importer

import (
	"strings"
	"testing"

	"github.com/erazemk/boardtrack/internal/model"
)

var testWarehouses = []model.Warehouse{
	{ID: "wh-001", Name: "Main Store", IsCentral: true},
	{ID: "wh-002", Name: "R&D Lab North"},
}

func TestParseWithHeader(t *testing.T) {
	data := `Serial Number,Part Number,Board Name,Category,Warehouse
SN-1,PN-1,Controller,Logic,R&D Lab North
SN-2,PN-2,Power Shield,Power,
`
	drafts, rowErrs, err := Parse(strings.NewReader(data), testWarehouses)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Errorf("expected no row errors, got %v", rowErrs)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}

	if drafts[0].WarehouseID != "wh-002" {
		t.Errorf("expected name match to wh-002, got %q", drafts[0].WarehouseID)
	}
	if drafts[1].WarehouseID != "wh-001" {
		t.Errorf("expected central fallback to wh-001, got %q", drafts[1].WarehouseID)
	}
	for _, d := range drafts {
		if d.Status != model.StatusFree {
			t.Errorf("imported stock must default to Free, got %q", d.Status)
		}
	}
}

func TestParseExcludesInvalidRowsWithoutAborting(t *testing.T) {
	data := `SN-1,PN-1,Controller,Logic,Main Store
,PN-2,No Serial,Power,Main Store
SN-3,PN-3,Short Row
`
	drafts, rowErrs, err := Parse(strings.NewReader(data), testWarehouses)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(drafts) != 2 {
		t.Errorf("expected 2 drafts, got %d", len(drafts))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected 1 row error, got %v", rowErrs)
	}
	if rowErrs[0].Row != 2 {
		t.Errorf("expected error on row 2, got row %d", rowErrs[0].Row)
	}

	// A short row still imports with defaults.
	if drafts[1].SerialNumber != "SN-3" || drafts[1].Category != "Uncategorized" {
		t.Errorf("unexpected short-row draft: %+v", drafts[1])
	}
}

func TestParseWarehouseMatchIsCaseInsensitive(t *testing.T) {
	drafts, _, err := Parse(strings.NewReader("SN-1,PN-1,Board,Logic,r&d lab north\n"), testWarehouses)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if drafts[0].WarehouseID != "wh-002" {
		t.Errorf("expected case-insensitive match, got %q", drafts[0].WarehouseID)
	}
}

func TestParseEmptyInput(t *testing.T) {
	drafts, rowErrs, err := Parse(strings.NewReader(""), testWarehouses)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(drafts) != 0 || len(rowErrs) != 0 {
		t.Errorf("expected nothing from empty input, got %d drafts, %d errors", len(drafts), len(rowErrs))
	}
}
