package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophaccount/internal/flagx"
	"github.com/dmitrijs2005/gophaccount/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Durations use timex.Duration so JSON can carry "15s" or integer
// nanoseconds. Pointer and zero-value fields that are absent from the file
// leave the current Config value untouched.
type JsonConfig struct {
	BaseURL            string          `json:"base_url"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	MaxRetries         *uint64         `json:"max_retries"`
	RetryBaseDelay     *timex.Duration `json:"retry_base_delay"`
	StorePath          string          `json:"store_path"`
	StoreSecret        string          `json:"store_secret"`
	PasswordMinClasses *int            `json:"password_min_classes"`
	CodeTTL            *timex.Duration `json:"code_ttl"`
	ResendCooldown     *timex.Duration `json:"resend_cooldown"`
	LogLevel           string          `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c or -config; without it nothing is loaded.
// Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlags().JSON
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.MaxRetries != nil {
		cfg.MaxRetries = *jc.MaxRetries
	}
	if jc.RetryBaseDelay != nil {
		cfg.RetryBaseDelay = jc.RetryBaseDelay.Duration
	}
	if jc.StorePath != "" {
		cfg.StorePath = jc.StorePath
	}
	if jc.StoreSecret != "" {
		cfg.StoreSecret = jc.StoreSecret
	}
	if jc.PasswordMinClasses != nil {
		cfg.PasswordMinClasses = *jc.PasswordMinClasses
	}
	if jc.CodeTTL != nil {
		cfg.CodeTTL = jc.CodeTTL.Duration
	}
	if jc.ResendCooldown != nil {
		cfg.ResendCooldown = jc.ResendCooldown.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
