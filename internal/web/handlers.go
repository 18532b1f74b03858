package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ryanm101/gamecompare/internal/stats"
	"github.com/ryanm101/gamecompare/internal/upstream"
)

// param returns the named path variable, falling back to the query string.
func param(r *http.Request, name string) string {
	if v, ok := mux.Vars(r)[name]; ok && v != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(r.URL.Query().Get(name))
}

func (s *Server) handleIGDB(w http.ResponseWriter, r *http.Request) {
	const endpoint = "igdb"

	title := param(r, "title")
	if title == "" {
		writeError(w, endpoint, http.StatusBadRequest, "Title parameter is required")
		return
	}
	if s.igdb == nil {
		writeError(w, endpoint, http.StatusInternalServerError, "IGDB credentials are not configured")
		return
	}

	games, err := s.igdb.Search(r.Context(), title)
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		writeError(w, endpoint, http.StatusNotFound, fmt.Sprintf("No game found for %q", title))
	case err != nil:
		s.log.Error("IGDB API error", "title", title, "error", err, "upstream_status", upstream.StatusOf(err))
		writeError(w, endpoint, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, endpoint, http.StatusOK, games)
	}
}

func (s *Server) handleRAWG(w http.ResponseWriter, r *http.Request) {
	const endpoint = "rawg"

	title := param(r, "title")
	if title == "" {
		writeError(w, endpoint, http.StatusBadRequest, "Title parameter is required")
		return
	}

	game, err := s.rawg.FirstMatch(r.Context(), title)
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		writeJSON(w, endpoint, http.StatusOK, map[string]string{"message": stats.MsgNoResults})
	case err != nil:
		s.log.Error("RAWG API error", "title", title, "error", err, "upstream_status", upstream.StatusOf(err))
		writeError(w, endpoint, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, endpoint, http.StatusOK, game)
	}
}

func (s *Server) handleSteamSpy(w http.ResponseWriter, r *http.Request) {
	const endpoint = "steamspy"

	raw := param(r, "appid")
	if raw == "" {
		writeError(w, endpoint, http.StatusBadRequest, "AppID parameter is required")
		return
	}
	appID, err := strconv.Atoi(raw)
	if err != nil || appID <= 0 {
		writeError(w, endpoint, http.StatusBadRequest, "AppID parameter must be numeric")
		return
	}

	rec, err := s.steamspy.AppDetails(r.Context(), appID)
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		writeJSON(w, endpoint, http.StatusOK, map[string]string{"message": stats.MsgNoResults})
	case err != nil:
		s.log.Error("SteamSpy API error", "appid", appID, "error", err, "upstream_status", upstream.StatusOf(err))
		writeError(w, endpoint, http.StatusInternalServerError, err.Error())
	default:
		writeJSON(w, endpoint, http.StatusOK, rec)
	}
}
