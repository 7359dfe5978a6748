package model

import (
	"encoding/json"
	"testing"
)

func TestCellInt64Decoding(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{`1718000000000`, 1718000000000},
		{`"1718000000000"`, 1718000000000},
		{`"1718000000000.0"`, 1718000000000},
		{`""`, 0},
		{`null`, 0},
		{`"not a number"`, 0},
	}
	for _, c := range cases {
		var n CellInt64
		if err := json.Unmarshal([]byte(c.in), &n); err != nil {
			t.Fatalf("unmarshal %s: %v", c.in, err)
		}
		if int64(n) != c.want {
			t.Errorf("decoding %s: expected %d, got %d", c.in, c.want, int64(n))
		}
	}
}

func TestCellBoolDecoding(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`"TRUE"`, true},
		{`"false"`, false},
		{`"1"`, true},
		{`""`, false},
		{`null`, false},
	}
	for _, c := range cases {
		var b CellBool
		if err := json.Unmarshal([]byte(c.in), &b); err != nil {
			t.Fatalf("unmarshal %s: %v", c.in, err)
		}
		if bool(b) != c.want {
			t.Errorf("decoding %s: expected %v, got %v", c.in, c.want, bool(b))
		}
	}
}

func TestSnapshotFieldNamesSurviveRoundTrip(t *testing.T) {
	snap := Snapshot{
		Warehouses: []Warehouse{{ID: "wh-001", Name: "Main Store", IsCentral: true, Location: "Building A"}},
		Items: []Item{{
			SerialNumber: "SN-1", PartNumber: "PN-1", BoardName: "Controller",
			Category: "Logic", Status: StatusFree, WarehouseID: "wh-001", LastModified: 42,
		}},
		Logs: []TransferLog{{ID: "tr-1", Timestamp: 42, SerialNumber: "SN-1", Quantity: 1}},
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0] != snap.Items[0] {
		t.Errorf("items did not round-trip: %+v", got.Items)
	}
	if !bool(got.Warehouses[0].IsCentral) {
		t.Error("expected isCentral to survive the round trip")
	}
}
