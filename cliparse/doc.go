// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first (godotenv); a missing
file is not an error.

# Config Fields

  - Port: Server listen port (default: 3319)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - AdminKeySalt: Secret for admin key HMAC (required)
  - RetentionWindow: time closed/evaluated ballots are kept (default: 24h)
  - CleanupInterval: time between reaper scans (default: 1h)

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	-retention-hours  Retention window in hours
	-cleanup-minutes  Reaper scan interval in minutes
	-admin-salt       Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	RETENTION_HOURS → -retention-hours
	CLEANUP_MINUTES → -cleanup-minutes
	ADMIN_KEY_SALT  → -admin-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - retention and cleanup intervals must be positive integers
*/
package cliparse
