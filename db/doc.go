// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and the anonymous vote write
path.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - ballot: voting event metadata and lifecycle state
  - question: voting items, each with its own lifecycle state
  - option: choices per question
  - voter_code: one-time credentials (code string globally unique)
  - code_redemption: insert-only set of (code, question) redemptions
  - vote: anonymous cast choices

# Relationships

	ballot 1──* question
	question 1──* option
	ballot 1──* voter_code
	voter_code 1──* code_redemption
	ballot 1──* vote (by id value only, no FK)

vote intentionally has no foreign key into voter_code and no column that
could hold one. InsertVote is the single write path for votes; it rejects
malformed rows with models.ErrPrivacyViolation.

# Portability

The same schema runs on SQLite (modernc.org/sqlite) and PostgreSQL
(lib/pq). All timestamps are bound from Go, never from database-clock
defaults, so retention math always uses the server process clock.
*/
package db
