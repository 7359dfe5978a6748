// Package syncer keeps the entity store consistent with the remote mirror
// under a pull-then-push, full-snapshot protocol. Conflict policy is
// last-writer-wins at whole-snapshot granularity: the mirror offers no
// versioning or compare-and-swap, so the later of two pushes silently
// overwrites the earlier one. The status machine exists for display only
// and is not a correctness mechanism.
package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/erazemk/boardtrack/internal/mirror"
	"github.com/erazemk/boardtrack/internal/store"
)

// Status is the observable sync state: idle -> syncing -> success or error,
// with success/error reverting to idle after a short display interval.
type Status string

// Statuses.
const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Defaults.
const (
	DefaultTimeout     = 15 * time.Second
	DefaultRevertAfter = 3 * time.Second
)

// Config configures a Controller.
type Config struct {
	// AutoPush mirrors every mutation to the remote in the background
	// (continuous mirroring). When false, pushes happen only on explicit
	// request (manual backup).
	AutoPush bool

	// Timeout bounds each pull/push network operation. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// RevertAfter is how long success/error stay visible before the status
	// reverts to idle. Zero means DefaultRevertAfter.
	RevertAfter time.Duration
}

// Info is the observable sync state for display.
type Info struct {
	Status    Status `json:"status"`
	LastSync  string `json:"lastSync,omitempty"`
	LastError string `json:"lastError,omitempty"`
}

// Controller orchestrates pulls and pushes between the entity store and the
// mirror gateway.
type Controller struct {
	store       *store.Store
	gw          mirror.Gateway
	autoPush    bool
	timeout     time.Duration
	revertAfter time.Duration

	mu        sync.Mutex
	status    Status
	lastError string
	gen       uint64 // status generation; guards stale auto-reverts

	inflight sync.WaitGroup
}

// New creates a controller. With cfg.AutoPush set it registers itself as the
// store's mutation hook, so every applied mutation schedules a background
// push of the then-current snapshot.
func New(st *store.Store, gw mirror.Gateway, cfg Config) *Controller {
	c := &Controller{
		store:       st,
		gw:          gw,
		autoPush:    cfg.AutoPush,
		timeout:     cfg.Timeout,
		revertAfter: cfg.RevertAfter,
		status:      StatusIdle,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.revertAfter <= 0 {
		c.revertAfter = DefaultRevertAfter
	}
	if c.autoPush {
		st.SetOnChange(c.pushAsync)
	}
	return c
}

// PullAll fetches the remote snapshot and applies it to the store. On any
// transport or parse failure local state is left untouched and the status
// goes to error. On success the last-sync timestamp is recorded.
func (c *Controller) PullAll(ctx context.Context) error {
	c.setStatus(StatusSyncing, "")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	snap, err := c.gw.FetchSnapshot(ctx)
	if err != nil {
		pullsTotal.WithLabelValues("error").Inc()
		c.setStatus(StatusError, err.Error())
		return err
	}
	if err := c.store.ReplaceCollections(ctx, snap); err != nil {
		pullsTotal.WithLabelValues("error").Inc()
		c.setStatus(StatusError, err.Error())
		return err
	}
	c.recordSync(ctx)
	pullsTotal.WithLabelValues("success").Inc()
	c.setStatus(StatusSuccess, "")
	return nil
}

// PushAll sends the full current local snapshot to the mirror. A completed
// request counts as success even when the mirror cannot confirm the
// application-level outcome (degraded fire-and-forget transports). Sync
// failures never roll back local mutations: local state is the truth, the
// mirror is a copy.
func (c *Controller) PushAll(ctx context.Context) error {
	c.setStatus(StatusSyncing, "")

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.gw.PushSnapshot(ctx, c.store.Snapshot()); err != nil {
		pushesTotal.WithLabelValues("error").Inc()
		c.setStatus(StatusError, err.Error())
		return err
	}
	c.recordSync(ctx)
	pushesTotal.WithLabelValues("success").Inc()
	c.setStatus(StatusSuccess, "")
	return nil
}

// Info returns the current observable state.
func (c *Controller) Info() Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Info{
		Status:    c.status,
		LastSync:  c.store.LastSync(),
		LastError: c.lastError,
	}
}

// Wait blocks until all in-flight background pushes complete. Called on
// shutdown so a final mutation is not lost mid-flight.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// pushAsync runs a push in the background. The caller (a mutating request)
// does not wait for it; a later mutation may schedule another push while
// this one is still in flight. Each push sends the full snapshot current at
// send time, so arrival order decides the mirrored view.
func (c *Controller) pushAsync() {
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		if err := c.PushAll(context.Background()); err != nil {
			slog.Error("background push failed", "error", err)
		}
	}()
}

func (c *Controller) recordSync(ctx context.Context) {
	when := time.Now().Format("2006-01-02 15:04:05")
	if err := c.store.SetLastSync(ctx, when); err != nil {
		slog.Warn("failed to record sync time", "error", err)
	}
}

// setStatus transitions the status machine. Terminal states schedule an
// auto-revert to idle; the generation counter keeps a stale timer from
// clobbering a newer transition.
func (c *Controller) setStatus(status Status, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
	c.lastError = errMsg
	c.gen++

	if status == StatusSuccess || status == StatusError {
		gen := c.gen
		time.AfterFunc(c.revertAfter, func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.gen == gen {
				c.status = StatusIdle
			}
		})
	}
}
