// Package web serves the proxy API that fronts the catalog and statistics
// providers so browser clients never see provider credentials.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ryanm101/gamecompare/internal/catalog"
	"github.com/ryanm101/gamecompare/internal/logging"
	"github.com/ryanm101/gamecompare/internal/metrics"
	"github.com/ryanm101/gamecompare/internal/stats"
)

// GameSearcher searches the game catalog.
type GameSearcher interface {
	Search(ctx context.Context, title string) ([]catalog.GameSummary, error)
}

// RAWGSearcher finds the first RAWG record for a title.
type RAWGSearcher interface {
	FirstMatch(ctx context.Context, title string) (*catalog.RAWGGame, error)
}

// AppDetailer fetches SteamSpy app details.
type AppDetailer interface {
	AppDetails(ctx context.Context, appID int) (*stats.Record, error)
}

// Server handles proxy HTTP requests.
type Server struct {
	router   *mux.Router
	handler  http.Handler
	igdb     GameSearcher
	rawg     RAWGSearcher
	steamspy AppDetailer
	log      *slog.Logger
}

// NewServer creates a proxy server. A nil igdb searcher makes the catalog
// endpoint answer 500, for deployments without Twitch credentials.
func NewServer(igdb GameSearcher, rawg RAWGSearcher, steamspy AppDetailer) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		igdb:     igdb,
		rawg:     rawg,
		steamspy: steamspy,
		log:      logging.For("web"),
	}
	s.setupRoutes()

	logged := handlers.CustomLoggingHandler(io.Discard, s.router, s.logAccess)
	recovered := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.log}),
		handlers.PrintRecoveryStack(false),
	)(logged)
	s.handler = otelhttp.NewHandler(recovered, "gamecompare")
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	api.HandleFunc("/igdb", s.handleIGDB)
	api.HandleFunc("/igdb/{title}", s.handleIGDB)
	api.HandleFunc("/rawg", s.handleRAWG)
	api.HandleFunc("/rawg/{title}", s.handleRAWG)
	api.HandleFunc("/steamspy", s.handleSteamSpy)
	api.HandleFunc("/steamspy/{appid}", s.handleSteamSpy)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, "health", http.StatusOK, map[string]string{"status": "healthy"})
}

// logAccess sends access log lines to slog instead of the writer.
func (s *Server) logAccess(_ io.Writer, p handlers.LogFormatterParams) {
	level := slog.LevelInfo
	if p.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	s.log.Log(p.Request.Context(), level, "request",
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"size", p.Size,
		"duration", time.Since(p.TimeStamp),
	)
}

type recoveryLogger struct {
	log *slog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("panic serving request", "error", fmt.Sprint(v...))
}

func writeJSON(w http.ResponseWriter, endpoint string, status int, v any) {
	metrics.RecordProxyRequest(endpoint, status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, endpoint string, status int, msg string) {
	writeJSON(w, endpoint, status, map[string]string{"error": msg})
}
