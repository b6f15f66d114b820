// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string

	// Retention settings for the background reaper
	RetentionWindow time.Duration
	CleanupInterval time.Duration
}

const (
	defaultPort            = 3319
	defaultRetentionHours  = 24
	defaultCleanupInterval = time.Hour
)

// ParseFlags validates flags, falling back to environment variables. A
// .env file in the working directory is loaded first if present.
func ParseFlags(args []string) (Config, error) {
	// Missing .env is the normal production case
	_ = godotenv.Load()

	var cfg Config
	var retentionHours, cleanupMinutes int

	fs := flag.NewFlagSet("ballotbox", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Retention (env fallback below)
	fs.IntVar(&retentionHours, "retention-hours", 0, "Hours before purging closed ballots")
	fs.IntVar(&cleanupMinutes, "cleanup-minutes", 0, "Minutes between reaper scans")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}
	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		// Embedded default: a local file next to the binary
		cfg.DatabaseURL = "file:ballotbox.db"
	}

	if retentionHours == 0 {
		if s := os.Getenv("RETENTION_HOURS"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return Config{}, errors.New("invalid RETENTION_HOURS env variable")
			}
			retentionHours = n
		} else {
			retentionHours = defaultRetentionHours
		}
	}
	cfg.RetentionWindow = time.Duration(retentionHours) * time.Hour

	if cleanupMinutes == 0 {
		if s := os.Getenv("CLEANUP_MINUTES"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return Config{}, errors.New("invalid CLEANUP_MINUTES env variable")
			}
			cfg.CleanupInterval = time.Duration(n) * time.Minute
		} else {
			cfg.CleanupInterval = defaultCleanupInterval
		}
	} else {
		cfg.CleanupInterval = time.Duration(cleanupMinutes) * time.Minute
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	return cfg, nil
}
