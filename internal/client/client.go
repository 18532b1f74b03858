// Package client talks to the gamecompare proxy and converts every response,
// including failures, into typed outcomes.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/logging"
	"github.com/ryanm101/gamecompare/internal/metrics"
	"github.com/ryanm101/gamecompare/internal/stats"
	"github.com/ryanm101/gamecompare/internal/tracing"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

const (
	providerName = "proxy"
	maxBodyBytes = 4 << 20
)

// Client is a proxy API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a client for the proxy at baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        logging.For("client"),
	}
}

// sentinel is the body shape of proxy errors and empty results.
type sentinel struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SearchGames queries the catalog through the proxy.
func (c *Client) SearchGames(ctx context.Context, title string) catalog.SearchResult {
	status, body, err := c.get(ctx, "igdb", "/api/igdb?title="+url.QueryEscape(title))
	if err != nil {
		c.log.Warn("catalog search failed", "title", title, "error", err)
		return catalog.SearchResult{Status: upstream.StatusError, Message: err.Error()}
	}

	switch status {
	case http.StatusOK:
		var games []catalog.GameSummary
		if err := json.Unmarshal(body, &games); err != nil {
			return catalog.SearchResult{Status: upstream.StatusError, Message: fmt.Sprintf("invalid catalog response: %v", err)}
		}
		if len(games) == 0 {
			return catalog.SearchResult{Status: upstream.StatusNotFound, Message: stats.MsgNoResults}
		}
		return catalog.SearchResult{Status: upstream.StatusFound, Games: games}
	case http.StatusBadRequest, http.StatusNotFound:
		return catalog.SearchResult{Status: upstream.StatusNotFound, Message: messageOf(body, stats.MsgNoResults)}
	default:
		return catalog.SearchResult{Status: upstream.StatusError, Message: messageOf(body, http.StatusText(status))}
	}
}

// SteamStats fetches the SteamSpy record for appID through the proxy.
func (c *Client) SteamStats(ctx context.Context, appID int) stats.Lookup {
	status, body, err := c.get(ctx, "steamspy", "/api/steamspy/"+strconv.Itoa(appID))
	if err != nil {
		c.log.Warn("steam stats fetch failed", "appid", appID, "error", err)
		return stats.Failed(stats.MsgFetchFailed)
	}

	switch status {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusNotFound:
		return stats.NotFound(messageOf(body, stats.MsgNoResults))
	default:
		c.log.Warn("steam stats fetch failed", "appid", appID, "status", status, "error", messageOf(body, ""))
		return stats.Failed(stats.MsgFetchFailed)
	}

	var s sentinel
	if err := json.Unmarshal(body, &s); err == nil && s.Message != "" {
		return stats.NotFound(s.Message)
	}

	var rec stats.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		c.log.Warn("invalid steam stats response", "appid", appID, "error", err)
		return stats.Failed(stats.MsgFetchFailed)
	}
	if rec.Name == "" {
		return stats.NotFound(stats.MsgNoResults)
	}
	return stats.Found(rec)
}

// RAWGResult is the outcome of a RAWG lookup through the proxy.
type RAWGResult struct {
	Status  upstream.Status
	Game    *catalog.RAWGGame
	Message string
}

// RAWG fetches the first RAWG match for title through the proxy.
func (c *Client) RAWG(ctx context.Context, title string) RAWGResult {
	status, body, err := c.get(ctx, "rawg", "/api/rawg?title="+url.QueryEscape(title))
	if err != nil {
		return RAWGResult{Status: upstream.StatusError, Message: err.Error()}
	}

	switch status {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusNotFound:
		return RAWGResult{Status: upstream.StatusNotFound, Message: messageOf(body, stats.MsgNoResults)}
	default:
		return RAWGResult{Status: upstream.StatusError, Message: messageOf(body, http.StatusText(status))}
	}

	var s sentinel
	if err := json.Unmarshal(body, &s); err == nil && s.Message != "" {
		return RAWGResult{Status: upstream.StatusNotFound, Message: s.Message}
	}

	var game catalog.RAWGGame
	if err := json.Unmarshal(body, &game); err != nil {
		return RAWGResult{Status: upstream.StatusError, Message: fmt.Sprintf("invalid rawg response: %v", err)}
	}
	return RAWGResult{Status: upstream.StatusFound, Game: &game}
}

// get performs a GET against the proxy and returns the status and body.
// Only transport failures are returned as errors.
func (c *Client) get(ctx context.Context, endpoint, path string) (status int, body []byte, err error) {
	ctx, span := tracing.StartSpan(ctx, "proxy."+endpoint,
		tracing.WithAttributes(attribute.String("http.path", path)))
	start := time.Now()
	defer func() {
		metrics.RecordUpstream(providerName, start, err)
		tracing.RecordError(span, err)
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &upstream.Error{Provider: providerName, Op: endpoint, Err: fmt.Errorf("%w: %v", upstream.ErrUnavailable, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, &upstream.Error{Provider: providerName, Op: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	return resp.StatusCode, body, nil
}

func messageOf(body []byte, fallback string) string {
	var s sentinel
	if err := json.Unmarshal(body, &s); err == nil {
		if s.Error != "" {
			return s.Error
		}
		if s.Message != "" {
			return s.Message
		}
	}
	return fallback
}
