package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/cinebook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     API base URL
//	-t duration   request timeout, e.g. 5s
//	-i int        online check interval in seconds
//	-s string     credential store backend: memory, sqlite or redis
//	-p string     SQLite store path
//	-l string     log level
//
// Args are filtered with flagx.FilterArgs first, so flags owned by other
// stages (such as -c) are ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-i", "-s", "-p", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "credential store backend")
	fs.StringVar(&cfg.StorePath, "p", cfg.StorePath, "SQLite credential store path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
