// Package logging configures the process-wide slog logger.
//
// Provider credentials travel in query strings (RAWG's key) and form bodies
// (Twitch's client secret), so every record passes through a redacting
// ReplaceAttr before it is written.
package logging

import (
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// Config holds logging configuration.
type Config struct {
	Format string // "json" or "text"
	Level  string // "debug", "info", "warn", "error"
}

// DefaultConfig returns the text/info configuration.
func DefaultConfig() Config {
	return Config{Format: "text", Level: "info"}
}

const redacted = "********"

// sensitiveKeys are attribute keys whose values are never logged.
var sensitiveKeys = map[string]bool{
	"api_key":       true,
	"client_secret": true,
	"access_token":  true,
	"token":         true,
}

// secretParam matches credential query parameters inside URLs and messages.
var secretParam = regexp.MustCompile(`((?:^|[?&\s])(?:key|client_secret|access_token)=)[^&\s"]+`)

var logger *slog.Logger

// Setup installs the global logger on stderr.
func Setup(cfg Config) {
	SetupWriter(cfg, os.Stderr)
}

// SetupWriter installs the global logger on w and makes it the slog default.
func SetupWriter(cfg Config, w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: redactAttr,
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, opts)
	}

	logger = slog.New(h)
	slog.SetDefault(logger)
}

// parseLevel accepts slog level names in any case, plus "warning".
// Anything unrecognised logs at info.
func parseLevel(level string) slog.Level {
	if strings.EqualFold(level, "warning") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redacted)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if s := a.Value.String(); secretParam.MatchString(s) {
			return slog.String(a.Key, Scrub(s))
		}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			if s := err.Error(); secretParam.MatchString(s) {
				return slog.String(a.Key, Scrub(s))
			}
		}
	}
	return a
}

// Scrub masks credential query parameters in s.
func Scrub(s string) string {
	return secretParam.ReplaceAllString(s, "${1}"+redacted)
}

// Get returns the configured logger, or slog's default before Setup.
func Get() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// For returns a logger tagged with the given component name.
func For(component string) *slog.Logger {
	return Get().With("component", component)
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }
