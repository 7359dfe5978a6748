package model

// Snapshot is the full contents of all three collections at one instant, as
// exchanged with the remote mirror and held by the entity store.
type Snapshot struct {
	Warehouses []Warehouse   `json:"warehouses"`
	Items      []Item        `json:"items"`
	Logs       []TransferLog `json:"logs"`
}

// Clone returns a deep copy. Collections are slices of value types, so
// copying the slices is sufficient.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Warehouses: make([]Warehouse, len(s.Warehouses)),
		Items:      make([]Item, len(s.Items)),
		Logs:       make([]TransferLog, len(s.Logs)),
	}
	copy(c.Warehouses, s.Warehouses)
	copy(c.Items, s.Items)
	copy(c.Logs, s.Logs)
	return c
}

// ItemIndex returns the index of the item with the given serial number,
// or -1 if absent.
func (s Snapshot) ItemIndex(serial string) int {
	for i, item := range s.Items {
		if item.SerialNumber == serial {
			return i
		}
	}
	return -1
}

// Warehouse returns the warehouse with the given id.
func (s Snapshot) Warehouse(id string) (Warehouse, bool) {
	for _, wh := range s.Warehouses {
		if wh.ID == id {
			return wh, true
		}
	}
	return Warehouse{}, false
}

// CentralWarehouse returns the central warehouse, falling back to the first
// warehouse if none is marked central.
func (s Snapshot) CentralWarehouse() (Warehouse, bool) {
	for _, wh := range s.Warehouses {
		if bool(wh.IsCentral) {
			return wh, true
		}
	}
	if len(s.Warehouses) > 0 {
		return s.Warehouses[0], true
	}
	return Warehouse{}, false
}
