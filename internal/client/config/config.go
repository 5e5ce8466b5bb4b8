package config

import "time"

// Config holds runtime settings for the account CLI.
//
// Fields:
//   - BaseURL: root of the account backend, e.g. http://127.0.0.1:8000.
//   - RequestTimeout: upper bound for a single HTTP attempt.
//   - MaxRetries, RetryBaseDelay: backoff for idempotent reads only.
//   - StorePath: SQLite file that keeps the remembered session token.
//   - StoreSecret: passphrase the stored token is sealed with. When empty the
//     session is kept in memory only and StorePath is not opened.
//   - PasswordMinClasses: how many character classes a new password needs.
//   - CodeTTL, ResendCooldown: local timers shown for verification codes.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	BaseURL            string
	RequestTimeout     time.Duration
	MaxRetries         uint64
	RetryBaseDelay     time.Duration
	StorePath          string
	StoreSecret        string
	PasswordMinClasses int
	CodeTTL            time.Duration
	ResendCooldown     time.Duration
	LogLevel           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 15 * time.Second
	c.MaxRetries = 3
	c.RetryBaseDelay = 200 * time.Millisecond
	c.StorePath = "session.db"
	c.StoreSecret = ""
	c.PasswordMinClasses = 3
	c.CodeTTL = 10 * time.Minute
	c.ResendCooldown = 60 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
