package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/erazemk/boardtrack/internal/model"
)

// DefaultScriptTimeout bounds every request to the script endpoint. The
// endpoint routinely takes hundreds of milliseconds to seconds.
const DefaultScriptTimeout = 15 * time.Second

// Script is a gateway backed by a Google Apps Script web endpoint in front
// of a spreadsheet. GET returns the snapshot as JSON; POST replaces it.
//
// The endpoint is fire-and-forget on writes: it acknowledges the request but
// reports no per-row outcome, so a push counts as successful once the
// request completes without a transport error. That trust boundary is
// inherent to the transport, not something this client can tighten.
type Script struct {
	client *resty.Client
	url    string
}

// NewScript returns a script gateway for the given endpoint URL. A zero
// timeout uses DefaultScriptTimeout.
func NewScript(url string, timeout time.Duration) (*Script, error) {
	if url == "" {
		return nil, fmt.Errorf("script endpoint URL required")
	}
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Script{client: client, url: url}, nil
}

// FetchSnapshot GETs and decodes the remote snapshot. Numeric and boolean
// cells that arrive as quoted text are handled by the model's cell types;
// anything else malformed fails the whole fetch, leaving local state to the
// caller untouched.
func (s *Script) FetchSnapshot(ctx context.Context) (model.Snapshot, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: fetching snapshot: %v", ErrTransport, err)
	}
	if !resp.IsSuccess() {
		return model.Snapshot{}, fmt.Errorf("%w: fetching snapshot: status %s", ErrTransport, resp.Status())
	}

	var snap model.Snapshot
	if err := json.Unmarshal(resp.Body(), &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: decoding snapshot: %v", ErrTransport, err)
	}
	return snap, nil
}

// PushSnapshot POSTs the full snapshot. Only transport-level failures are
// reported; the response body is not inspected (see the type comment).
func (s *Script) PushSnapshot(ctx context.Context, snap model.Snapshot) error {
	_, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(snap).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("%w: pushing snapshot: %v", ErrTransport, err)
	}
	return nil
}
