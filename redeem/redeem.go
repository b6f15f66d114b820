// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package redeem

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
)

// Redeem consumes a voter code against a question and records an anonymous
// vote. optionID nil means a deliberately blank vote, allowed only when
// the question permits invalid votes.
//
// The whole of Redeem runs in one transaction. Ballot and question status
// are re-read inside it rather than trusted from any earlier read, so a
// ballot closing mid-flight freezes the question even if its own status
// record still says active. "Mark code as voted" and "record the vote" are
// the same transaction: a crash or race cannot double-count or drop a
// vote. Concurrent redemptions of the same (code, question) collide on the
// code_redemption primary key and the loser observes ErrAlreadyVoted.
//
// Preconditions are checked in a fixed order, each with its own error:
// ErrCodeNotFound, ErrBallotNotActive, ErrQuestionNotActive,
// ErrAlreadyVoted, ErrInvalidOption, ErrBlankNotAllowed.
func Redeem(conn *sql.DB, code, questionID string, optionID *string) (models.Vote, error) {
	if code == "" || questionID == "" {
		return models.Vote{}, fmt.Errorf("%w: code and question_id are required", models.ErrValidation)
	}

	tx, err := conn.Begin()
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Code exists
	var codeID, ballotID string
	var ballotStatus models.Status
	err = tx.QueryRow(`
		SELECT vc.id, vc.ballot_id, b.status
		FROM voter_code vc
		JOIN ballot b ON b.id = vc.ballot_id
		WHERE vc.code = $1
	`, code).Scan(&codeID, &ballotID, &ballotStatus)
	if err == sql.ErrNoRows {
		return models.Vote{}, models.ErrCodeNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to look up code: %w", err)
	}

	// 2. Ballot active
	if ballotStatus != models.StatusActive {
		return models.Vote{}, models.ErrBallotNotActive
	}

	// 3. Question belongs to this ballot and is active
	var questionStatus models.Status
	var allowInvalid bool
	err = tx.QueryRow(`
		SELECT status, allow_invalid_votes
		FROM question
		WHERE id = $1 AND ballot_id = $2
	`, questionID, ballotID).Scan(&questionStatus, &allowInvalid)
	if err == sql.ErrNoRows {
		return models.Vote{}, models.ErrQuestionNotActive
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to look up question: %w", err)
	}
	if questionStatus != models.StatusActive {
		return models.Vote{}, models.ErrQuestionNotActive
	}

	// 4. Code has not voted on this question yet
	var already bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM code_redemption
			WHERE code_id = $1 AND question_id = $2
		)
	`, codeID, questionID).Scan(&already)
	if err != nil {
		return models.Vote{}, fmt.Errorf("failed to check redemption: %w", err)
	}
	if already {
		return models.Vote{}, models.ErrAlreadyVoted
	}

	// 5. Option belongs to the question; 6. blank requires permission
	if optionID != nil {
		var valid bool
		err = tx.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM option
				WHERE id = $1 AND question_id = $2
			)
		`, *optionID, questionID).Scan(&valid)
		if err != nil {
			return models.Vote{}, fmt.Errorf("failed to check option: %w", err)
		}
		if !valid {
			return models.Vote{}, models.ErrInvalidOption
		}
	} else if !allowInvalid {
		return models.Vote{}, models.ErrBlankNotAllowed
	}

	now := time.Now()

	// Mark the code as having voted. Under a race the primary key turns
	// the second insert into a conflict, which aborts the transaction
	// before any vote is written.
	_, err = tx.Exec(`
		INSERT INTO code_redemption (code_id, question_id, redeemed_at)
		VALUES ($1, $2, $3)
	`, codeID, questionID, now)
	if err != nil {
		if isDuplicateKey(err) {
			return models.Vote{}, models.ErrAlreadyVoted
		}
		return models.Vote{}, fmt.Errorf("failed to mark code as voted: %w", err)
	}

	// Record the anonymous vote through the single vote write path; the
	// row has nowhere to carry codeID.
	vote := models.Vote{
		ID:         uuid.NewString(),
		BallotID:   ballotID,
		QuestionID: questionID,
		OptionID:   optionID,
		CastAt:     now,
	}
	if err := db.InsertVote(tx, vote); err != nil {
		return models.Vote{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Vote{}, fmt.Errorf("failed to commit redemption: %w", err)
	}

	return vote, nil
}

func isDuplicateKey(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
