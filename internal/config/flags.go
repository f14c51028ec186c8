package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/valutatrade/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-data string      data directory
//	-storage string   storage backend: json or sqlite
//	-base string      default base currency
//	-ttl int          rates TTL, seconds
//	-log-level string debug, info, warn or error
//	-refresh int      background rate refresh interval, seconds (0 disables)
//
// args is filtered with flagx.FilterArgs first, so flags owned by other
// components do not break parsing.
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-data", "-storage", "-base", "-ttl", "-log-level", "-refresh"})

	fs := flag.NewFlagSet("valutatrade", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend (json|sqlite)")
	fs.StringVar(&cfg.DefaultBaseCurrency, "base", cfg.DefaultBaseCurrency, "default base currency")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	ttl := fs.Int("ttl", int(cfg.RatesTTL.Seconds()), "rates TTL (in seconds)")
	refresh := fs.Int("refresh", int(cfg.RefreshInterval.Seconds()), "rates refresh interval (in seconds)")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	cfg.RatesTTL = time.Duration(*ttl) * time.Second
	cfg.RefreshInterval = time.Duration(*refresh) * time.Second
	return nil
}
