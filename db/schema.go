// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// Timestamps are always written by the server process; no column has a
// database-clock default, so SQLite and PostgreSQL behave identically.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Ballots
CREATE TABLE IF NOT EXISTS ballot (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    invitation_text TEXT NOT NULL DEFAULT '',
    max_voters INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'active', 'closed', 'evaluated')),
    status_changed_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ballot_owner ON ballot(owner_id);
CREATE INDEX IF NOT EXISTS idx_ballot_status ON ballot(status);

-- Questions
CREATE TABLE IF NOT EXISTS question (
    id TEXT PRIMARY KEY,
    ballot_id TEXT NOT NULL REFERENCES ballot(id) ON DELETE CASCADE,
    question TEXT NOT NULL,
    allow_invalid_votes BOOLEAN NOT NULL DEFAULT FALSE,
    ord INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'active', 'closed', 'evaluated')),
    status_changed_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_question_ballot_id ON question(ballot_id);
CREATE INDEX IF NOT EXISTS idx_question_status ON question(status);

-- Options
CREATE TABLE IF NOT EXISTS option (
    id TEXT PRIMARY KEY,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    text TEXT NOT NULL,
    ord INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_option_question_id ON option(question_id);

-- One-time voter codes. The code string is unique across the whole table,
-- not per ballot, because redemption looks up by code alone.
CREATE TABLE IF NOT EXISTS voter_code (
    id TEXT PRIMARY KEY,
    ballot_id TEXT NOT NULL REFERENCES ballot(id) ON DELETE CASCADE,
    code TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voter_code_ballot_id ON voter_code(ballot_id);

-- Redemption set: which questions a code has already voted on. Insert-only;
-- the composite primary key is what makes redemption exactly-once.
CREATE TABLE IF NOT EXISTS code_redemption (
    code_id TEXT NOT NULL REFERENCES voter_code(id) ON DELETE CASCADE,
    question_id TEXT NOT NULL REFERENCES question(id) ON DELETE CASCADE,
    redeemed_at TIMESTAMP NOT NULL,
    PRIMARY KEY (code_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_code_redemption_question ON code_redemption(question_id);

-- Anonymous votes. There is deliberately no code column and no foreign key
-- into voter_code; see db.InsertVote.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    ballot_id TEXT NOT NULL,
    question_id TEXT NOT NULL,
    option_id TEXT,
    cast_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_ballot_id ON vote(ballot_id);
CREATE INDEX IF NOT EXISTS idx_vote_question_id ON vote(question_id);
`
