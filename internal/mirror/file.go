package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erazemk/boardtrack/internal/model"
)

// File is a gateway backed by a single JSON file on disk, for local
// backup/restore without any network. Writes are atomic (temp file +
// rename), so a crash mid-push never leaves a truncated snapshot behind.
type File struct {
	path string
}

// NewFile returns a file gateway writing to the given path. The parent
// directory is created if needed.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("mirror file path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating mirror directory: %w", err)
		}
	}
	return &File{path: path}, nil
}

// FetchSnapshot reads the snapshot file. A missing file is "no data yet" and
// returns an empty snapshot, not an error.
func (f *File) FetchSnapshot(ctx context.Context) (model.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return model.Snapshot{}, nil
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: reading %s: %v", ErrTransport, f.path, err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: decoding %s: %v", ErrTransport, f.path, err)
	}
	return snap, nil
}

// PushSnapshot overwrites the snapshot file.
func (f *File) PushSnapshot(ctx context.Context, snap model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrTransport, tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: replacing %s: %v", ErrTransport, f.path, err)
	}
	return nil
}
