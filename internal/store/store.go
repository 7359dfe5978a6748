// Package store owns the three inventory collections. The live snapshot is
// held in memory behind a mutex and written through to a local SQLite cache
// as three independently-keyed JSON blobs plus the last-sync timestamp, so a
// restart resumes from the last local state. Mutations go through Apply; the
// synchronization layer only reads whole snapshots or replaces whole
// collections, never partial field merges.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/erazemk/boardtrack/internal/auth"
	"github.com/erazemk/boardtrack/internal/model"
)

// Cache keys, one per collection.
const (
	keyWarehouses  = "warehouses"
	keyItems       = "items"
	keyLogs        = "logs"
	keyLastSync    = "last_sync"
	keyTokenSecret = "token_secret"
)

// Store is the entity store.
type Store struct {
	db *sql.DB

	mu       sync.Mutex
	snap     model.Snapshot
	lastSync string
	onChange func()
}

// Open loads the cached collections from the database, seeding the demo
// dataset when the cache is empty (first run).
func Open(ctx context.Context, database *sql.DB) (*Store, error) {
	s := &Store{db: database}

	found := 0
	for _, c := range []struct {
		key  string
		dest any
	}{
		{keyWarehouses, &s.snap.Warehouses},
		{keyItems, &s.snap.Items},
		{keyLogs, &s.snap.Logs},
	} {
		blob, ok, err := s.readBlob(ctx, c.key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(blob), c.dest); err != nil {
			return nil, fmt.Errorf("decoding cached %s: %w", c.key, err)
		}
		found++
	}

	if found == 0 {
		s.snap = Seed(time.Now())
		if err := s.persist(ctx, s.snap); err != nil {
			return nil, err
		}
	}

	if blob, ok, err := s.readBlob(ctx, keyLastSync); err != nil {
		return nil, err
	} else if ok {
		s.lastSync = blob
	}

	return s, nil
}

// SetOnChange registers a hook invoked after every successful mutation,
// outside the store lock. Used for continuous mirroring.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Apply runs a mutation against the current snapshot and commits the result.
// The mutation must be pure (engine operations are); if it returns an error
// nothing changes. The committed snapshot is persisted to the cache before
// the store moves on.
func (s *Store) Apply(ctx context.Context, mutate func(model.Snapshot) (model.Snapshot, error)) error {
	s.mu.Lock()
	next, err := mutate(s.snap)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.snap = next
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

// ReplaceCollections applies a pulled remote snapshot. Each non-empty remote
// collection replaces the local one wholesale; an empty remote collection
// means "no data yet" and leaves the local collection untouched, so a
// partially-initialized mirror cannot wipe local state. Does not fire the
// mutation hook: a pull must not trigger a push.
func (s *Store) ReplaceCollections(ctx context.Context, remote model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	if len(remote.Warehouses) > 0 {
		next.Warehouses = remote.Warehouses
	}
	if len(remote.Items) > 0 {
		next.Items = remote.Items
	}
	if len(remote.Logs) > 0 {
		next.Logs = remote.Logs
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

// LastSync returns the recorded last successful sync time, or "" if never.
func (s *Store) LastSync() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSync
}

// SetLastSync records the last successful sync time.
func (s *Store) SetLastSync(ctx context.Context, when string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeBlob(ctx, keyLastSync, when); err != nil {
		return err
	}
	s.lastSync = when
	return nil
}

// TokenSecret returns the persisted token signing secret, generating and
// storing one on first use so tokens survive restarts.
func (s *Store) TokenSecret(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret, ok, err := s.readBlob(ctx, keyTokenSecret)
	if err != nil {
		return "", err
	}
	if ok {
		return secret, nil
	}

	secret, err = auth.NewSecret()
	if err != nil {
		return "", fmt.Errorf("generating token secret: %w", err)
	}
	if err := s.writeBlob(ctx, keyTokenSecret, secret); err != nil {
		return "", err
	}
	return secret, nil
}

// persist writes all three collections to the cache in one transaction.
// Caller holds the lock.
func (s *Store) persist(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning cache transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range []struct {
		key  string
		data any
	}{
		{keyWarehouses, snap.Warehouses},
		{keyItems, snap.Items},
		{keyLogs, snap.Logs},
	} {
		blob, err := json.Marshal(c.data)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", c.key, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cache (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			c.key, string(blob),
		); err != nil {
			return fmt.Errorf("caching %s: %w", c.key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing cache write: %w", err)
	}
	return nil
}

func (s *Store) readBlob(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM cache WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading cached %s: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) writeBlob(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("caching %s: %w", key, err)
	}
	return nil
}
