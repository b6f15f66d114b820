// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Ballot Box API server.

Ballot Box is an anonymous voting service for association meetings:
organizers create ballots with questions, hand out printed one-time
codes, and collect votes that are stored without any link back to the
code that cast them.

# Starting the Server

The server runs on embedded SQLite by default:

	go run .

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..."

# Configuration

Settings are read from CLI flags, then environment variables (a .env
file is loaded if present):

  - PORT (-p): Server port (default: 3319)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - DATABASE_URL (-d): Connection string or SQLite path
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - RETENTION_HOURS (--retention-hours): Purge window after close (default: 24)
  - CLEANUP_MINUTES (--cleanup-minutes): Reaper scan interval (default: 60)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (ballots, questions, codes, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, error mapping
  - models: Request/response types, status machine, error taxonomy
  - lifecycle: Status transitions with compare-and-set writes
  - codes: One-time voter code issuance
  - redeem: Exactly-once anonymous vote redemption
  - tally: Result computation
  - reaper: Retention-based purge of closed ballots
  - timeguard: Client clock deviation audit
  - auth: ID and admin key generation
  - db: Schema creation and the vote write path
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
