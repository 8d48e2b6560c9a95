package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/cinebook/internal/client/credstore"
	"github.com/dmitrijs2005/cinebook/internal/logging"
)

// Config holds runtime settings for the CineBook CLI.
//
// Fields:
//   - APIBaseURL: root of the REST API; request paths are relative to it.
//   - RequestTimeout: per HTTP attempt.
//   - OnlineCheckInterval: how often the client probes API reachability.
//   - StoreBackend, StorePath, RedisAddr, RedisKey: where session credentials live.
//   - RefreshSingleFlight: share one token refresh between concurrent requests.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	APIBaseURL          string        `env:"CINEBOOK_API_BASE_URL"`
	RequestTimeout      time.Duration `env:"CINEBOOK_REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"CINEBOOK_ONLINE_CHECK_INTERVAL"`
	StoreBackend        string        `env:"CINEBOOK_STORE_BACKEND"`
	StorePath           string        `env:"CINEBOOK_STORE_PATH"`
	RedisAddr           string        `env:"CINEBOOK_REDIS_ADDR"`
	RedisKey            string        `env:"CINEBOOK_REDIS_KEY"`
	RefreshSingleFlight bool          `env:"CINEBOOK_REFRESH_SINGLE_FLIGHT"`
	LogLevel            string        `env:"CINEBOOK_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api/"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.StoreBackend = credstore.BackendSQLite
	c.StorePath = "cinebook/session.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisKey = credstore.DefaultRedisKey
	c.RefreshSingleFlight = true
	c.LogLevel = "info"
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("api base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base url %q: must be an absolute http(s) URL", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.OnlineCheckInterval <= 0 {
		return errors.New("online check interval must be positive")
	}

	switch c.StoreBackend {
	case credstore.BackendMemory:
	case credstore.BackendSQLite:
		if c.StorePath == "" {
			return errors.New("store path is required for the sqlite backend")
		}
	case credstore.BackendRedis:
		if c.RedisAddr == "" {
			return errors.New("redis address is required for the redis backend")
		}
	default:
		return fmt.Errorf("%w: %q", credstore.ErrUnknownBackend, c.StoreBackend)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// StoreOptions maps the store settings onto credstore.Options.
func (c *Config) StoreOptions() credstore.Options {
	return credstore.Options{
		Backend:    c.StoreBackend,
		SQLitePath: c.StorePath,
		RedisAddr:  c.RedisAddr,
		RedisKey:   c.RedisKey,
	}
}

// Load builds a Config from defaults, then the JSON file named by -c/-config,
// then CINEBOOK_* environment variables, then flags. Later sources take
// precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// LoadConfig loads the configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
