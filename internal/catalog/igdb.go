package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Henry-Sarabia/igdb/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ryanm101/gamecompare/internal/config"
	"github.com/ryanm101/gamecompare/internal/logging"
	"github.com/ryanm101/gamecompare/internal/metrics"
	"github.com/ryanm101/gamecompare/internal/tracing"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

const (
	igdbProvider    = "igdb"
	igdbSearchLimit = 50
)

// IGDBProvider implements the Provider interface for IGDB.
// A fresh Twitch app token is fetched for every search.
type IGDBProvider struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	log          *slog.Logger

	// TokenURL is the Twitch OAuth endpoint used for the client-credentials grant.
	TokenURL string
}

// NewIGDBProvider creates a new IGDB provider.
func NewIGDBProvider(clientID, clientSecret string, httpClient *http.Client) (*IGDBProvider, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("IGDB client ID and secret are required: %w", upstream.ErrMissingArgument)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &IGDBProvider{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		log:          logging.For(igdbProvider),
		TokenURL:     config.DefaultTwitchTokenURL,
	}, nil
}

func (p *IGDBProvider) Name() string {
	return igdbProvider
}

// Search finds up to 50 games matching title. A search with no hits returns
// upstream.ErrNotFound.
func (p *IGDBProvider) Search(ctx context.Context, title string) (games []GameSummary, err error) {
	if strings.TrimSpace(title) == "" {
		return nil, upstream.ErrMissingArgument
	}

	ctx, span := tracing.StartSpan(ctx, "igdb.search",
		tracing.WithAttributes(attribute.String("game.title", title)))
	start := time.Now()
	defer func() {
		metrics.RecordUpstream(igdbProvider, start, err)
		tracing.RecordError(span, err)
		span.End()
	}()

	token, err := getTwitchToken(ctx, p.httpClient, p.TokenURL, p.clientID, p.clientSecret)
	if err != nil {
		return nil, &upstream.Error{Provider: igdbProvider, Op: "authenticate", Err: err}
	}

	client := igdb.NewClient(p.clientID, token, p.httpClient)
	found, err := client.Games.Search(
		title,
		igdb.SetFields("id", "name", "first_release_date", "aggregated_rating", "age_ratings", "cover"),
		igdb.SetLimit(igdbSearchLimit),
	)
	if errors.Is(err, igdb.ErrNoResults) || (err == nil && len(found) == 0) {
		return nil, &upstream.Error{Provider: igdbProvider, Op: "search", Err: upstream.ErrNotFound}
	}
	if err != nil {
		return nil, &upstream.Error{Provider: igdbProvider, Op: "search", Err: err}
	}

	covers := p.coverURLs(client, found)
	ratings := p.ageRatings(client, found)

	games = make([]GameSummary, 0, len(found))
	for _, g := range found {
		games = append(games, toSummary(g, covers, ratings))
	}
	span.SetAttributes(attribute.Int("igdb.results", len(games)))
	return games, nil
}

// coverURLs expands cover ids into image URLs. Failures only cost the covers.
func (p *IGDBProvider) coverURLs(client *igdb.Client, games []*igdb.Game) map[int]string {
	var ids []int
	for _, g := range games {
		if g.Cover != 0 {
			ids = append(ids, g.Cover)
		}
	}
	out := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return out
	}

	covers, err := client.Covers.List(ids, igdb.SetFields("url"), igdb.SetLimit(len(ids)))
	if err != nil {
		p.log.Warn("cover lookup failed", "count", len(ids), "error", err)
		return out
	}
	for _, c := range covers {
		out[c.ID] = c.URL
	}
	return out
}

// ageRatings expands the first age rating id of each game into its code.
func (p *IGDBProvider) ageRatings(client *igdb.Client, games []*igdb.Game) map[int]int {
	var ids []int
	for _, g := range games {
		if len(g.AgeRatings) > 0 {
			ids = append(ids, g.AgeRatings[0])
		}
	}
	out := make(map[int]int, len(ids))
	if len(ids) == 0 {
		return out
	}

	ratings, err := client.AgeRatings.List(ids, igdb.SetFields("rating"), igdb.SetLimit(len(ids)))
	if err != nil {
		p.log.Warn("age rating lookup failed", "count", len(ids), "error", err)
		return out
	}
	for _, r := range ratings {
		out[r.ID] = int(r.Rating)
	}
	return out
}

func toSummary(g *igdb.Game, covers map[int]string, ratings map[int]int) GameSummary {
	gs := GameSummary{
		ID:               g.ID,
		Name:             g.Name,
		FirstReleaseDate: int64(g.FirstReleaseDate),
		AggregatedRating: g.AggregatedRating,
		CoverURL:         covers[g.Cover],
	}
	if len(g.AgeRatings) > 0 {
		gs.AgeRating = ratings[g.AgeRatings[0]]
	}
	return gs
}

// getTwitchToken fetches an App Access Token from Twitch.
func getTwitchToken(ctx context.Context, client *http.Client, tokenURL, clientID, clientSecret string) (string, error) {
	vals := url.Values{}
	vals.Set("client_id", clientID)
	vals.Set("client_secret", clientSecret)
	vals.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(vals.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.AccessToken == "" {
		return "", errors.New("empty access token")
	}

	return result.AccessToken, nil
}
