// Package mirror provides the remote mirror gateway: a durable, shared
// backup/restore target for full inventory snapshots. All implementations
// expose the same two operations and are selected by configuration at
// startup: an in-process holder for demo/testing, a JSON file, a Google
// Apps Script spreadsheet endpoint, and an S3 object.
//
// The mirror is a black box with no conditional-write semantics: pushes are
// whole-snapshot, last-writer-wins overwrites.
package mirror

import (
	"context"
	"errors"

	"github.com/erazemk/boardtrack/internal/model"
)

// ErrTransport marks gateway failures: network errors, malformed remote
// responses, unreadable backing files. Wrapped by all implementations so
// callers can classify with errors.Is.
var ErrTransport = errors.New("mirror transport failure")

// Gateway is the remote mirror capability.
type Gateway interface {
	// FetchSnapshot retrieves the full remote snapshot. Collections with
	// no remote data come back as empty slices.
	FetchSnapshot(ctx context.Context) (model.Snapshot, error)

	// PushSnapshot overwrites the remote state with the given snapshot.
	PushSnapshot(ctx context.Context, snap model.Snapshot) error
}
