// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"github.com/danielhkuo/ballotbox/models"
)

// Execer is satisfied by both *sql.DB and *sql.Tx. Vote inserts run inside
// the redemption transaction, so the tx form is the one that matters.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertVote is the only write path for the vote table. Its column list is
// fixed and carries no voter-code reference; any caller trying to smuggle
// one in has no parameter to put it in. A vote missing its required
// anonymous fields aborts with ErrPrivacyViolation rather than persisting
// a malformed row.
func InsertVote(e Execer, v models.Vote) error {
	if v.ID == "" || v.BallotID == "" || v.QuestionID == "" {
		return fmt.Errorf("%w: vote is missing required fields", models.ErrPrivacyViolation)
	}

	_, err := e.Exec(`
		INSERT INTO vote (id, ballot_id, question_id, option_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.BallotID, v.QuestionID, v.OptionID, v.CastAt)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	return nil
}
