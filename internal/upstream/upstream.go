// Package upstream holds the HTTP plumbing shared by the provider clients:
// a JSON GET helper, the error types surfaced at the provider boundary and
// the tri-state lookup status.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ryanm101/gamecompare/internal/logging"
	"github.com/ryanm101/gamecompare/internal/metrics"
	"github.com/ryanm101/gamecompare/internal/tracing"
)

// Sentinel errors for common conditions.
var (
	ErrNotFound        = errors.New("no results found")
	ErrMissingArgument = errors.New("missing argument")
	ErrUnavailable     = errors.New("upstream unavailable")
)

// Status is the outcome of a lookup against a provider.
type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Error provides context for a failed provider call.
type Error struct {
	Provider   string // Provider name (e.g. "steamspy")
	Op         string // Operation that failed (e.g. "app details")
	StatusCode int    // HTTP status if a response was received
	Err        error  // Underlying error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewHTTPClient returns an instrumented HTTP client with the given timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// GetJSON performs a GET request against rawURL and decodes the JSON body
// into out. Non-200 responses are returned as *Error carrying the status
// code and a snippet of the body.
func GetJSON(ctx context.Context, client *http.Client, provider, op, rawURL string, out any) (err error) {
	ctx, span := tracing.StartSpan(ctx, provider+"."+op)
	start := time.Now()
	defer func() {
		metrics.RecordUpstream(provider, start, err)
		tracing.RecordError(span, err)
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &Error{Provider: provider, Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		// url.Error carries the request URL, credentials included.
		return &Error{Provider: provider, Op: op, Err: fmt.Errorf("%w: %s", ErrUnavailable, logging.Scrub(err.Error()))}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &Error{Provider: provider, Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected response: %s", body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Provider: provider, Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// StatusOf reports the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.StatusCode
	}
	return 0
}
