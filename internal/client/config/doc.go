// Package config loads runtime configuration for the CineBook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. CINEBOOK_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     API base URL
//	-t duration   request timeout
//	-i int        online status check interval (seconds)
//	-s string     credential store backend (memory, sqlite, redis)
//	-p string     SQLite credential store path
//	-l string     log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000/api/",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "store_backend": "sqlite",
//	  "store_path": "cinebook/session.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_key": "cinebook:session",
//	  "refresh_single_flight": true,
//	  "log_level": "info"
//	}
package config
