package model

// Sentinel warehouse ids used in transfer logs for non-physical origins and
// destinations: new receipts come from EXTERNAL, removed items go to DELETED,
// and bookkeeping events (serial renames) originate from SYSTEM.
const (
	WarehouseExternal = "EXTERNAL"
	WarehouseDeleted  = "DELETED"
	WarehouseSystem   = "SYSTEM"
)

// TransferLog is one audit entry. The log collection is append-only: entries
// are never mutated or deleted once created, and are kept newest-first.
// BoardName and PartNumber are denormalized copies of the item's descriptive
// fields at the time of the event, so history survives item edits and
// deletion.
type TransferLog struct {
	ID              string    `json:"id"`
	Timestamp       CellInt64 `json:"timestamp"` // unix milliseconds
	ItemID          string    `json:"itemId"`
	SerialNumber    string    `json:"serialNumber"`
	BoardName       string    `json:"boardName"`
	PartNumber      string    `json:"partNumber"`
	FromWarehouseID string    `json:"fromWarehouseId"`
	ToWarehouseID   string    `json:"toWarehouseId"`
	Reason          string    `json:"reason"`
	User            string    `json:"user"`
	Quantity        CellInt64 `json:"quantity"`
}
