package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every variable the loader reads.
const EnvPrefix = "GOPHACCOUNT_"

// parseEnv overlays Config with GOPHACCOUNT_* environment variables.
//
// A dotenv file named with -e/-env is loaded first and must exist; without
// the flag an optional ./.env is loaded when present. Variables already set in
// the process environment win over the file, as godotenv does not override.
// Malformed values panic, like the other loaders.
func parseEnv(cfg *Config) {
	if file := flagx.ConfigFileFlags().Env; file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := lookup("BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		cfg.RequestTimeout = mustDuration("REQUEST_TIMEOUT", v)
	}
	if v, ok := lookup("MAX_RETRIES"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			panic(envError("MAX_RETRIES", err))
		}
		cfg.MaxRetries = n
	}
	if v, ok := lookup("RETRY_BASE_DELAY"); ok {
		cfg.RetryBaseDelay = mustDuration("RETRY_BASE_DELAY", v)
	}
	if v, ok := lookup("STORE_PATH"); ok {
		cfg.StorePath = v
	}
	if v, ok := lookup("STORE_SECRET"); ok {
		cfg.StoreSecret = v
	}
	if v, ok := lookup("PASSWORD_MIN_CLASSES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(envError("PASSWORD_MIN_CLASSES", err))
		}
		cfg.PasswordMinClasses = n
	}
	if v, ok := lookup("CODE_TTL"); ok {
		cfg.CodeTTL = mustDuration("CODE_TTL", v)
	}
	if v, ok := lookup("RESEND_COOLDOWN"); ok {
		cfg.ResendCooldown = mustDuration("RESEND_COOLDOWN", v)
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

// lookup reports a non-empty variable.
func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func mustDuration(name, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(envError(name, err))
	}
	return d
}

func envError(name string, err error) error {
	return errors.New(EnvPrefix + name + ": " + err.Error())
}
