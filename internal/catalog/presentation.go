package catalog

import (
	"strings"
	"time"
)

// NotAvailable is shown in place of missing values.
const NotAvailable = "N/A"

var ageRatingLabels = map[int]string{
	1: "RP",
	2: "EC",
	3: "E",
	4: "E10+",
	5: "T",
	6: "M",
	7: "AO",
}

// CoverImageURL turns an IGDB thumbnail URL into an https big-cover URL.
// Protocol-relative URLs ("//images.igdb.com/...") get an https: scheme.
func CoverImageURL(url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	return strings.Replace(url, "t_thumb", "t_cover_big", 1)
}

// AgeRatingLabel maps an age rating code to its ESRB label.
func AgeRatingLabel(code int) string {
	if label, ok := ageRatingLabels[code]; ok {
		return label
	}
	return NotAvailable
}

// ReleaseDate formats a Unix timestamp as YYYY-MM-DD.
func ReleaseDate(ts int64) string {
	if ts <= 0 {
		return NotAvailable
	}
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}
