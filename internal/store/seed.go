package store

import (
	"time"

	"github.com/erazemk/boardtrack/internal/model"
)

// Seed returns the demo dataset used on first run, before any pull from the
// mirror has happened.
func Seed(now time.Time) model.Snapshot {
	ms := model.CellInt64(now.UnixMilli())
	return model.Snapshot{
		Warehouses: []model.Warehouse{
			{ID: "wh-001", Name: "Main Store (Central)", IsCentral: true, Location: "Building A, Floor 1"},
			{ID: "wh-002", Name: "R&D Lab North", Location: "Building B, Floor 2"},
			{ID: "wh-003", Name: "Assembly Line 4", Location: "Building C, Floor 1"},
			{ID: "wh-004", Name: "Quality Assurance", Location: "Building B, Floor 3"},
		},
		Items: []model.Item{
			{SerialNumber: "SN-X1001", PartNumber: "PN-782", BoardName: "Main Controller V2", Category: "Logic", Status: model.StatusFree, WarehouseID: "wh-001", LastModified: ms},
			{SerialNumber: "SN-X1002", PartNumber: "PN-782", BoardName: "Main Controller V2", Category: "Logic", Status: model.StatusFree, WarehouseID: "wh-001", LastModified: ms},
			{SerialNumber: "SN-P2001", PartNumber: "PN-412", BoardName: "Power Shield 30A", Category: "Power", Status: model.StatusUsed, WarehouseID: "wh-002", LastModified: ms},
			{SerialNumber: "SN-C3001", PartNumber: "PN-991", BoardName: "Comms Bridge WiFi", Category: "Wireless", Status: model.StatusReserved, WarehouseID: "wh-001", LastModified: ms},
			{SerialNumber: "SN-D4001", PartNumber: "PN-223", BoardName: "Display Module 7\"", Category: "UI", Status: model.StatusFaulty, WarehouseID: "wh-004", LastModified: ms},
			{SerialNumber: "SN-X1003", PartNumber: "PN-782", BoardName: "Main Controller V2", Category: "Logic", Status: model.StatusFree, WarehouseID: "wh-003", LastModified: ms},
		},
		Logs: []model.TransferLog{
			{
				ID:              "tr-001",
				Timestamp:       model.CellInt64(now.Add(-48 * time.Hour).UnixMilli()),
				ItemID:          "SN-P2001",
				SerialNumber:    "SN-P2001",
				BoardName:       "Power Shield 30A",
				PartNumber:      "PN-412",
				FromWarehouseID: "wh-001",
				ToWarehouseID:   "wh-002",
				Reason:          "Initial allocation for R&D Project Alpha",
				User:            "John Doe",
				Quantity:        1,
			},
		},
	}
}
