package stats

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ryanm101/gamecompare/internal/config"
	"github.com/ryanm101/gamecompare/internal/logging"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

const steamSpyProvider = "steamspy"

// SteamSpyProvider fetches app details from the SteamSpy API.
type SteamSpyProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewSteamSpyProvider creates a SteamSpy provider. An empty baseURL uses the
// public API.
func NewSteamSpyProvider(baseURL string, httpClient *http.Client) *SteamSpyProvider {
	if baseURL == "" {
		baseURL = config.DefaultSteamSpyURL
	}
	return &SteamSpyProvider{baseURL: baseURL, httpClient: httpClient}
}

func (p *SteamSpyProvider) Name() string {
	return steamSpyProvider
}

// AppDetails fetches the record for appID. SteamSpy answers unknown ids with
// an empty record, which is reported as upstream.ErrNotFound.
func (p *SteamSpyProvider) AppDetails(ctx context.Context, appID int) (*Record, error) {
	if appID <= 0 {
		return nil, upstream.ErrMissingArgument
	}

	q := url.Values{}
	q.Set("request", "appdetails")
	q.Set("appid", strconv.Itoa(appID))

	var rec Record
	if err := upstream.GetJSON(ctx, p.httpClient, steamSpyProvider, "appdetails", p.baseURL+"?"+q.Encode(), &rec); err != nil {
		return nil, err
	}
	if rec.Name == "" {
		return nil, &upstream.Error{Provider: steamSpyProvider, Op: "appdetails", Err: upstream.ErrNotFound}
	}
	if rec.AppID == 0 {
		rec.AppID = appID
	}
	return &rec, nil
}

// SteamStats fetches appID and folds the outcome into a Lookup.
func (p *SteamSpyProvider) SteamStats(ctx context.Context, appID int) Lookup {
	rec, err := p.AppDetails(ctx, appID)
	switch {
	case err == nil:
		return Found(*rec)
	case errors.Is(err, upstream.ErrNotFound):
		return NotFound(MsgNoResults)
	default:
		logging.Warn("steamspy lookup failed", "appid", appID, "error", err)
		return Failed(MsgFetchFailed)
	}
}
