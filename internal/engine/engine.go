// Package engine applies domain operations to a snapshot of the inventory
// and emits the matching audit log entries. Operations are pure functions
// over (snapshot, command): they perform no I/O, never touch their input,
// and return either the complete next snapshot or an error with no state
// change. Every state-changing operation produces exactly one log entry per
// affected item, prepended so the log stays newest-first.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/boardtrack/internal/model"
)

// Default audit reasons.
const (
	ReasonNewReceipt  = "New Purchase Receipt"
	ReasonBulkImport  = "Bulk Data Import"
	ReasonItemRemoved = "Item removed from system"
)

// Receive adds a newly purchased board to the inventory. Status defaults to
// Free and the warehouse to the central one when unset. The serial number
// must not already exist.
func Receive(s model.Snapshot, item model.Item, actor string, now time.Time) (model.Snapshot, error) {
	if item.SerialNumber == "" {
		return s, fmt.Errorf("%w: serial number is required", ErrValidation)
	}
	if s.ItemIndex(item.SerialNumber) >= 0 {
		return s, fmt.Errorf("%w: %s", ErrDuplicateSerial, item.SerialNumber)
	}
	if item.Status == "" {
		item.Status = model.StatusFree
	}
	if !item.Status.Valid() {
		return s, fmt.Errorf("%w: unknown status %q", ErrValidation, item.Status)
	}
	if item.WarehouseID == "" {
		central, ok := s.CentralWarehouse()
		if !ok {
			return s, fmt.Errorf("%w: no warehouse to receive into", ErrValidation)
		}
		item.WarehouseID = central.ID
	} else if _, ok := s.Warehouse(item.WarehouseID); !ok {
		return s, fmt.Errorf("%w: warehouse %s", ErrNotFound, item.WarehouseID)
	}
	item.LastModified = model.CellInt64(now.UnixMilli())

	next := s.Clone()
	next.Items = append(next.Items, item)
	next.Logs = prependLog(next.Logs, model.TransferLog{
		ID:              logID("in", item.SerialNumber, now),
		Timestamp:       model.CellInt64(now.UnixMilli()),
		ItemID:          item.SerialNumber,
		SerialNumber:    item.SerialNumber,
		BoardName:       item.BoardName,
		PartNumber:      item.PartNumber,
		FromWarehouseID: model.WarehouseExternal,
		ToWarehouseID:   item.WarehouseID,
		Reason:          ReasonNewReceipt,
		User:            actor,
		Quantity:        1,
	})
	return next, nil
}

// Update replaces the item identified by oldSerial with the given record and
// refreshes its modification time. Renaming the serial number to one held by
// a different item is rejected; an accepted rename emits a SYSTEM audit
// entry so historical log entries stay traceable to the live item.
func Update(s model.Snapshot, oldSerial string, item model.Item, actor string, now time.Time) (model.Snapshot, error) {
	idx := s.ItemIndex(oldSerial)
	if idx < 0 {
		return s, fmt.Errorf("%w: item %s", ErrNotFound, oldSerial)
	}
	if item.SerialNumber == "" {
		return s, fmt.Errorf("%w: serial number is required", ErrValidation)
	}
	if item.SerialNumber != oldSerial && s.ItemIndex(item.SerialNumber) >= 0 {
		return s, fmt.Errorf("%w: %s", ErrDuplicateSerial, item.SerialNumber)
	}
	if !item.Status.Valid() {
		return s, fmt.Errorf("%w: unknown status %q", ErrValidation, item.Status)
	}
	if _, ok := s.Warehouse(item.WarehouseID); !ok {
		return s, fmt.Errorf("%w: warehouse %s", ErrNotFound, item.WarehouseID)
	}
	item.LastModified = model.CellInt64(now.UnixMilli())

	next := s.Clone()
	next.Items[idx] = item
	if item.SerialNumber != oldSerial {
		next.Logs = prependLog(next.Logs, model.TransferLog{
			ID:              logID("ren", item.SerialNumber, now),
			Timestamp:       model.CellInt64(now.UnixMilli()),
			ItemID:          item.SerialNumber,
			SerialNumber:    item.SerialNumber,
			BoardName:       item.BoardName,
			PartNumber:      item.PartNumber,
			FromWarehouseID: model.WarehouseSystem,
			ToWarehouseID:   item.WarehouseID,
			Reason:          fmt.Sprintf("Serial number changed from %s to %s", oldSerial, item.SerialNumber),
			User:            actor,
			Quantity:        0,
		})
	}
	return next, nil
}

// Delete removes an item from the inventory. The emitted log entry keeps the
// item's descriptive fields and originating warehouse, so history remains
// queryable after the removal. Deletion is irreversible; any confirmation
// prompt is the caller's concern.
func Delete(s model.Snapshot, serial, actor string, now time.Time) (model.Snapshot, error) {
	idx := s.ItemIndex(serial)
	if idx < 0 {
		return s, fmt.Errorf("%w: item %s", ErrNotFound, serial)
	}
	item := s.Items[idx]

	next := s.Clone()
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	next.Logs = prependLog(next.Logs, model.TransferLog{
		ID:              logID("del", serial, now),
		Timestamp:       model.CellInt64(now.UnixMilli()),
		ItemID:          serial,
		SerialNumber:    serial,
		BoardName:       item.BoardName,
		PartNumber:      item.PartNumber,
		FromWarehouseID: item.WarehouseID,
		ToWarehouseID:   model.WarehouseDeleted,
		Reason:          ReasonItemRemoved,
		User:            actor,
		Quantity:        0,
	})
	return next, nil
}

// Transfer relocates a batch of boards to another warehouse with one log
// entry per board; no single entry ever represents a multi-item batch. The
// caller's fromID is advisory: if an item has moved since the caller last
// looked, the transfer still proceeds and the log records the item's actual
// origin. Either every serial transfers or none do.
func Transfer(s model.Snapshot, serials []string, fromID, toID, reason, actor string, now time.Time) (model.Snapshot, error) {
	if len(serials) == 0 {
		return s, fmt.Errorf("%w: no items selected", ErrValidation)
	}
	if reason == "" {
		return s, fmt.Errorf("%w: a transfer reason is required", ErrValidation)
	}
	if toID == fromID {
		return s, fmt.Errorf("%w: source and destination warehouse are the same", ErrValidation)
	}
	if _, ok := s.Warehouse(toID); !ok {
		return s, fmt.Errorf("%w: warehouse %s", ErrNotFound, toID)
	}
	for _, serial := range serials {
		if s.ItemIndex(serial) < 0 {
			return s, fmt.Errorf("%w: item %s", ErrNotFound, serial)
		}
	}

	next := s.Clone()
	for _, serial := range serials {
		idx := next.ItemIndex(serial)
		item := next.Items[idx]
		origin := item.WarehouseID

		item.WarehouseID = toID
		item.LastModified = model.CellInt64(now.UnixMilli())
		next.Items[idx] = item

		next.Logs = prependLog(next.Logs, model.TransferLog{
			ID:              logID("tr", serial, now),
			Timestamp:       model.CellInt64(now.UnixMilli()),
			ItemID:          serial,
			SerialNumber:    serial,
			BoardName:       item.BoardName,
			PartNumber:      item.PartNumber,
			FromWarehouseID: origin,
			ToWarehouseID:   toID,
			Reason:          reason,
			User:            actor,
			Quantity:        1,
		})
	}
	return next, nil
}

// BulkImport appends pre-parsed item drafts to the inventory. Serial numbers
// already present at commit time are silently skipped, since imports are
// expected to overlap with existing stock. Accepted drafts get the same
// defaults as Receive and one log entry each. Returns the number of items
// actually added.
func BulkImport(s model.Snapshot, drafts []model.Item, actor string, now time.Time) (model.Snapshot, int, error) {
	next := s.Clone()
	added := 0
	for _, draft := range drafts {
		if draft.SerialNumber == "" || next.ItemIndex(draft.SerialNumber) >= 0 {
			continue
		}
		if !draft.Status.Valid() {
			draft.Status = model.StatusFree
		}
		if _, ok := next.Warehouse(draft.WarehouseID); !ok {
			central, ok := next.CentralWarehouse()
			if !ok {
				return s, 0, fmt.Errorf("%w: no warehouse to import into", ErrValidation)
			}
			draft.WarehouseID = central.ID
		}
		draft.LastModified = model.CellInt64(now.UnixMilli())

		next.Items = append(next.Items, draft)
		next.Logs = prependLog(next.Logs, model.TransferLog{
			ID:              logID("imp", draft.SerialNumber, now),
			Timestamp:       model.CellInt64(now.UnixMilli()),
			ItemID:          draft.SerialNumber,
			SerialNumber:    draft.SerialNumber,
			BoardName:       draft.BoardName,
			PartNumber:      draft.PartNumber,
			FromWarehouseID: model.WarehouseExternal,
			ToWarehouseID:   draft.WarehouseID,
			Reason:          ReasonBulkImport,
			User:            actor,
			Quantity:        1,
		})
		added++
	}
	return next, added, nil
}

// AddWarehouse creates a warehouse with a generated id. Marking the new
// warehouse central demotes the previous central one, keeping at most one.
func AddWarehouse(s model.Snapshot, name, location string, central bool) (model.Snapshot, model.Warehouse, error) {
	if name == "" {
		return s, model.Warehouse{}, fmt.Errorf("%w: warehouse name is required", ErrValidation)
	}
	wh := model.Warehouse{
		ID:        "wh-" + uuid.New().String(),
		Name:      name,
		Location:  location,
		IsCentral: model.CellBool(central),
	}

	next := s.Clone()
	if central {
		demoteCentral(next.Warehouses)
	}
	next.Warehouses = append(next.Warehouses, wh)
	return next, wh, nil
}

// UpdateWarehouse renames or relocates a warehouse, and re-points the
// central flag if set.
func UpdateWarehouse(s model.Snapshot, wh model.Warehouse) (model.Snapshot, error) {
	if wh.Name == "" {
		return s, fmt.Errorf("%w: warehouse name is required", ErrValidation)
	}
	idx := -1
	for i, existing := range s.Warehouses {
		if existing.ID == wh.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, fmt.Errorf("%w: warehouse %s", ErrNotFound, wh.ID)
	}

	next := s.Clone()
	if bool(wh.IsCentral) {
		demoteCentral(next.Warehouses)
	}
	next.Warehouses[idx] = wh
	return next, nil
}

// TransferableItems returns the items held at the given warehouse that may
// be offered for transfer. Faulty boards are excluded here, at the selection
// boundary, rather than rejected inside Transfer.
func TransferableItems(s model.Snapshot, warehouseID string) []model.Item {
	var items []model.Item
	for _, item := range s.Items {
		if item.WarehouseID == warehouseID && item.Status != model.StatusFaulty {
			items = append(items, item)
		}
	}
	return items
}

func demoteCentral(warehouses []model.Warehouse) {
	for i := range warehouses {
		warehouses[i].IsCentral = false
	}
}

func prependLog(logs []model.TransferLog, entry model.TransferLog) []model.TransferLog {
	return append([]model.TransferLog{entry}, logs...)
}

// logID builds a time-based id. The serial suffix keeps ids distinct across
// the entries of a single batch, which share a timestamp.
func logID(prefix, serial string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", prefix, now.UnixMilli(), serial)
}
