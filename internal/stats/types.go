// Package stats fetches Steam statistics: SteamSpy detail records and
// storefront search candidates used to resolve Steam app ids.
package stats

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ryanm101/gamecompare/internal/upstream"
)

// Display messages attached to unsuccessful lookups.
const (
	MsgNoResults   = "No results found"
	MsgNoAppID     = "No Steam App ID found"
	MsgFetchFailed = "Failed to fetch Steam data"
)

// Record is a SteamSpy app detail record.
type Record struct {
	AppID             int    `json:"appid"`
	Name              string `json:"name"`
	Developer         string `json:"developer"`
	Publisher         string `json:"publisher"`
	Positive          int    `json:"positive"`
	Negative          int    `json:"negative"`
	Owners            string `json:"owners"` // range, e.g. "1,000,000 .. 2,000,000"
	AverageForever    int    `json:"average_forever"` // minutes
	Average2Weeks     int    `json:"average_2weeks"`
	MedianForever     int    `json:"median_forever"`
	PriceCents        int    `json:"price"`
	InitialPriceCents int    `json:"initialprice"`
	Discount          int    `json:"discount"`
	CCU               int    `json:"ccu"`
	Genre             string `json:"genre,omitempty"`
}

// wireRecord mirrors Record with lenient numeric fields. SteamSpy sends
// prices as strings and nulls for unknown apps.
type wireRecord struct {
	AppID             flexInt `json:"appid"`
	Name              string  `json:"name"`
	Developer         string  `json:"developer"`
	Publisher         string  `json:"publisher"`
	Positive          flexInt `json:"positive"`
	Negative          flexInt `json:"negative"`
	Owners            string  `json:"owners"`
	AverageForever    flexInt `json:"average_forever"`
	Average2Weeks     flexInt `json:"average_2weeks"`
	MedianForever     flexInt `json:"median_forever"`
	PriceCents        flexInt `json:"price"`
	InitialPriceCents flexInt `json:"initialprice"`
	Discount          flexInt `json:"discount"`
	CCU               flexInt `json:"ccu"`
	Genre             string  `json:"genre"`
}

// UnmarshalJSON accepts numbers, numeric strings and nulls for the numeric
// fields. Anything non-numeric decodes as 0.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Record{
		AppID:             int(w.AppID),
		Name:              w.Name,
		Developer:         w.Developer,
		Publisher:         w.Publisher,
		Positive:          int(w.Positive),
		Negative:          int(w.Negative),
		Owners:            w.Owners,
		AverageForever:    int(w.AverageForever),
		Average2Weeks:     int(w.Average2Weeks),
		MedianForever:     int(w.MedianForever),
		PriceCents:        int(w.PriceCents),
		InitialPriceCents: int(w.InitialPriceCents),
		Discount:          int(w.Discount),
		CCU:               int(w.CCU),
		Genre:             w.Genre,
	}
	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		*f = flexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && inIntRange(v) {
		*f = flexInt(int(v))
		return nil
	}
	*f = 0
	return nil
}

// inIntRange reports whether v is finite and converts to int without
// overflow.
func inIntRange(v float64) bool {
	return !math.IsNaN(v) && v >= math.MinInt && v < -float64(math.MinInt)
}

// Lookup is the outcome of fetching statistics for one game. Failures are
// carried as values with a display message, never as errors.
type Lookup struct {
	Status  upstream.Status
	Record  *Record
	Message string
}

// Found wraps a successfully fetched record.
func Found(r Record) Lookup {
	return Lookup{Status: upstream.StatusFound, Record: &r}
}

// NotFound reports that the provider had nothing for the game.
func NotFound(msg string) Lookup {
	return Lookup{Status: upstream.StatusNotFound, Message: msg}
}

// Failed reports that the provider could not be reached or answered badly.
func Failed(msg string) Lookup {
	return Lookup{Status: upstream.StatusError, Message: msg}
}

// OK reports whether the lookup carries a record.
func (l Lookup) OK() bool {
	return l.Status == upstream.StatusFound && l.Record != nil
}

// Candidate is a storefront search hit.
type Candidate struct {
	ID        int
	Name      string
	Metascore int // 0 when the storefront has none
}
