// Package config loads runtime configuration for the account CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed GOPHACCOUNT_, optionally read from a
//     dotenv file given with -e/-env or from ./.env.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the account backend
//	-t duration   per-request timeout
//	-r uint       retries for idempotent reads
//	-s string     session database path
//	-l string     log level
//
// # JSON schema
//
//	{
//	  "base_url": "http://127.0.0.1:8000",
//	  "request_timeout": "15s",
//	  "max_retries": 3,
//	  "retry_base_delay": "200ms",
//	  "store_path": "session.db",
//	  "store_secret": "",
//	  "password_min_classes": 3,
//	  "code_ttl": "10m",
//	  "resend_cooldown": "60s",
//	  "log_level": "info"
//	}
package config
