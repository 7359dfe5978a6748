package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. The cache table holds the three
// serialized collections (warehouses, items, logs) plus the last-sync
// timestamp, each under its own key; photos are local-only board pictures
// keyed by serial number and are never part of mirror snapshots.
const schema = `
CREATE TABLE IF NOT EXISTS cache (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS photos (
    serial_number TEXT PRIMARY KEY,
    data          BLOB NOT NULL,
    mime          TEXT NOT NULL,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
