package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Board photos live only in the local cache database, keyed by serial
// number. They are never part of mirror snapshots.

// SetPhoto stores a board's photo, replacing any existing one.
func (s *Store) SetPhoto(ctx context.Context, serial string, data []byte, mime string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO photos (serial_number, data, mime, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (serial_number) DO UPDATE SET data = excluded.data, mime = excluded.mime, updated_at = CURRENT_TIMESTAMP`,
		serial, data, mime,
	)
	if err != nil {
		return fmt.Errorf("storing photo for %s: %w", serial, err)
	}
	return nil
}

// Photo returns a board's photo data and MIME type, or (nil, "", nil) if the
// board has no photo.
func (s *Store) Photo(ctx context.Context, serial string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := s.db.QueryRowContext(ctx,
		`SELECT data, mime FROM photos WHERE serial_number = ?`, serial,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("reading photo for %s: %w", serial, err)
	}
	return data, mime, nil
}

// DeletePhoto removes a board's photo, if any. Called when the board itself
// is deleted; the audit log keeps the descriptive fields, but photos go with
// the item.
func (s *Store) DeletePhoto(ctx context.Context, serial string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM photos WHERE serial_number = ?`, serial,
	)
	if err != nil {
		return fmt.Errorf("deleting photo for %s: %w", serial, err)
	}
	return nil
}
