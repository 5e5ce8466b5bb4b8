package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophaccount/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the account backend
//	-t duration   per-request timeout
//	-r uint       retries for idempotent reads
//	-s string     session database path
//	-l string     log level
//
// os.Args is filtered with flagx.FilterArgs first so flags owned by other
// loaders (-c, -e) do not trip the parser.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-r", "-s", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the account backend")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.Uint64Var(&cfg.MaxRetries, "r", cfg.MaxRetries, "retries for idempotent requests")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "session database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
