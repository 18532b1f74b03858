package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Upstream endpoints used when the config leaves them empty.
const (
	DefaultTwitchTokenURL = "https://id.twitch.tv/oauth2/token"
	DefaultRAWGURL        = "https://api.rawg.io/api/games"
	DefaultSteamSpyURL    = "https://steamspy.com/api.php"
	DefaultStoreSearchURL = "https://store.steampowered.com/api/storesearch/"

	defaultPort        = "5000"
	defaultProxyURL    = "http://localhost:5000"
	defaultHTTPTimeout = 10 * time.Second
	defaultPageSize    = 5
)

// Config holds application configuration.
type Config struct {
	Port        string        `yaml:"port"`
	ProxyURL    string        `yaml:"proxy_url"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
	PageSize    int           `yaml:"page_size"`

	Twitch   TwitchConfig   `yaml:"twitch"`
	RAWG     RAWGConfig     `yaml:"rawg"`
	SteamSpy SteamSpyConfig `yaml:"steamspy"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// TwitchConfig holds the IGDB client credentials.
type TwitchConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	TokenURL     string `yaml:"token_url"`
}

// RAWGConfig holds RAWG API settings.
type RAWGConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// SteamSpyConfig holds SteamSpy API settings.
type SteamSpyConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StoreConfig holds Steam storefront search settings.
type StoreConfig struct {
	SearchURL string `yaml:"search_url"`
	// RelayURL routes storefront searches through an allorigins-style relay
	// when set.
	RelayURL string `yaml:"relay_url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Format string `yaml:"format"`
	Level  string `yaml:"level"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Port:        defaultPort,
		ProxyURL:    defaultProxyURL,
		HTTPTimeout: defaultHTTPTimeout,
		PageSize:    defaultPageSize,
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// configPaths returns the list of paths to search for config file.
func configPaths() []string {
	paths := []string{
		".gamecompare.yaml",
		".gamecompare.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gamecompare", "config.yaml"),
			filepath.Join(home, ".config", "gamecompare", "config.yml"),
			filepath.Join(home, ".gamecompare.yaml"),
		)
	}

	return paths
}

// Load loads configuration from file or returns defaults.
// A .env file in the working directory is read first so its values take
// part in the env overrides.
// Priority: env > GAMECOMPARE_CONFIG > search paths > defaults
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if envPath := os.Getenv("GAMECOMPARE_CONFIG"); envPath != "" {
		if err := cfg.loadFromFile(envPath); err != nil {
			return nil, err
		}
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFromFile(path); err != nil {
				return nil, err
			}
			break
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path supplied by the operator
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvOverrides() {
	overrides := map[string]*string{
		"PORT":                        &c.Port,
		"GAMECOMPARE_PROXY_URL":       &c.ProxyURL,
		"TWITCH_CLIENT_ID":            &c.Twitch.ClientID,
		"TWITCH_CLIENT_SECRET":        &c.Twitch.ClientSecret,
		"RAWG_API_KEY":                &c.RAWG.APIKey,
		"GAMECOMPARE_STORE_RELAY":     &c.Store.RelayURL,
		"GAMECOMPARE_LOG_LEVEL":       &c.Logging.Level,
		"GAMECOMPARE_LOG_FORMAT":      &c.Logging.Format,
		"OTEL_EXPORTER_OTLP_ENDPOINT": &c.Tracing.Endpoint,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("GAMECOMPARE_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageSize = n
		}
	}
}

// GetPort returns the listen port for the proxy server.
func (c *Config) GetPort() string {
	if c.Port != "" {
		return c.Port
	}
	return defaultPort
}

// GetProxyURL returns the base URL the CLI uses to reach the proxy.
func (c *Config) GetProxyURL() string {
	if c.ProxyURL != "" {
		return c.ProxyURL
	}
	return defaultProxyURL
}

// GetHTTPTimeout returns the timeout for outbound HTTP calls.
func (c *Config) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout > 0 {
		return c.HTTPTimeout
	}
	return defaultHTTPTimeout
}

// GetPageSize returns the number of search results per page.
func (c *Config) GetPageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return defaultPageSize
}

// GetTwitchTokenURL returns the OAuth token endpoint.
func (c *Config) GetTwitchTokenURL() string {
	return orDefault(c.Twitch.TokenURL, DefaultTwitchTokenURL)
}

// GetRAWGURL returns the RAWG games endpoint.
func (c *Config) GetRAWGURL() string {
	return orDefault(c.RAWG.BaseURL, DefaultRAWGURL)
}

// GetSteamSpyURL returns the SteamSpy API endpoint.
func (c *Config) GetSteamSpyURL() string {
	return orDefault(c.SteamSpy.BaseURL, DefaultSteamSpyURL)
}

// GetStoreSearchURL returns the Steam storefront search endpoint.
func (c *Config) GetStoreSearchURL() string {
	return orDefault(c.Store.SearchURL, DefaultStoreSearchURL)
}

// Redacted returns a copy with credentials masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	out.Twitch.ClientSecret = mask(out.Twitch.ClientSecret)
	out.RAWG.APIKey = mask(out.RAWG.APIKey)
	return &out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
