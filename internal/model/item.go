package model

// ItemStatus is the lifecycle state of a board.
type ItemStatus string

// Item statuses. The string forms double as the spreadsheet cell values.
const (
	StatusFree     ItemStatus = "Free"
	StatusUsed     ItemStatus = "Used"
	StatusReserved ItemStatus = "Reserved"
	StatusFaulty   ItemStatus = "Faulty"
)

// Valid reports whether s is one of the known statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusFree, StatusUsed, StatusReserved, StatusFaulty:
		return true
	}
	return false
}

// Item is a single serial-tracked board. SerialNumber is the primary key;
// no two items may share one. JSON field names match the mirror's column
// headers, so snapshots round-trip through the spreadsheet unchanged.
type Item struct {
	SerialNumber string     `json:"serialNumber"`
	PartNumber   string     `json:"partNumber"`
	BoardName    string     `json:"boardName"`
	Category     string     `json:"category"`
	Status       ItemStatus `json:"status"`
	WarehouseID  string     `json:"warehouseId"`
	LastModified CellInt64  `json:"lastModified"` // unix milliseconds
}
