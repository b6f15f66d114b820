// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/ballotbox/models"
)

// TransitionBallot advances a ballot one step along
// draft -> active -> closed -> evaluated. The write is a compare-and-set on
// the status column, so of two concurrent admin calls only one can succeed.
// Returns the server time recorded as status_changed_at.
func TransitionBallot(db *sql.DB, ballotID string, target models.Status) (time.Time, error) {
	if !target.Valid() {
		return time.Time{}, fmt.Errorf("%w: unknown status %q", models.ErrValidation, target)
	}

	var current models.Status
	err := db.QueryRow(`SELECT status FROM ballot WHERE id = $1`, ballotID).Scan(&current)
	if err == sql.ErrNoRows {
		return time.Time{}, models.ErrBallotNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query ballot status: %w", err)
	}

	if !current.CanTransitionTo(target) {
		return time.Time{}, fmt.Errorf("%w (%s -> %s)", models.ErrIllegalTransition, current, target)
	}

	if target == models.StatusActive {
		var codeCount int
		err := db.QueryRow(`SELECT COUNT(*) FROM voter_code WHERE ballot_id = $1`, ballotID).Scan(&codeCount)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to count voter codes: %w", err)
		}
		if codeCount == 0 {
			return time.Time{}, models.ErrNoCodesIssued
		}
	}

	// Server time only; client clocks never feed this column
	now := time.Now()

	res, err := db.Exec(`
		UPDATE ballot
		SET status = $1, status_changed_at = $2
		WHERE id = $3 AND status = $4
	`, target, now, ballotID, current)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to transition ballot: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// A concurrent transition won the compare-and-set
		return time.Time{}, fmt.Errorf("%w: ballot status changed concurrently", models.ErrIllegalTransition)
	}

	return now, nil
}

// TransitionQuestion advances a question one step through the same state
// machine, with the added gate that a question can only become active while
// its parent ballot is active. If the parent closes while the question
// still reads active, redemption re-validates both statuses, so the
// question is frozen regardless of its own record.
func TransitionQuestion(db *sql.DB, questionID string, target models.Status) (time.Time, error) {
	if !target.Valid() {
		return time.Time{}, fmt.Errorf("%w: unknown status %q", models.ErrValidation, target)
	}

	var current, parentStatus models.Status
	err := db.QueryRow(`
		SELECT q.status, b.status
		FROM question q
		JOIN ballot b ON b.id = q.ballot_id
		WHERE q.id = $1
	`, questionID).Scan(&current, &parentStatus)
	if err == sql.ErrNoRows {
		return time.Time{}, models.ErrQuestionNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query question status: %w", err)
	}

	if !current.CanTransitionTo(target) {
		return time.Time{}, fmt.Errorf("%w (%s -> %s)", models.ErrIllegalTransition, current, target)
	}

	if target == models.StatusActive && parentStatus != models.StatusActive {
		return time.Time{}, models.ErrParentNotActive
	}

	now := time.Now()

	res, err := db.Exec(`
		UPDATE question
		SET status = $1, status_changed_at = $2
		WHERE id = $3 AND status = $4
	`, target, now, questionID, current)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to transition question: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return time.Time{}, fmt.Errorf("%w: question status changed concurrently", models.ErrIllegalTransition)
	}

	return now, nil
}

// UpdateBallotMetadata replaces a ballot's mutable fields. Only draft
// ballots may change; everything except status is frozen once the ballot
// leaves draft. The draft check is part of the conditional write, not a
// separate read.
func UpdateBallotMetadata(db *sql.DB, ballotID, title, invitationText string, maxVoters int) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if maxVoters < 1 {
		return fmt.Errorf("%w: max_voters must be positive", models.ErrValidation)
	}

	res, err := db.Exec(`
		UPDATE ballot
		SET title = $1, invitation_text = $2, max_voters = $3
		WHERE id = $4 AND status = $5
	`, title, invitationText, maxVoters, ballotID, models.StatusDraft)
	if err != nil {
		return fmt.Errorf("failed to update ballot: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		var exists bool
		if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM ballot WHERE id = $1)`, ballotID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to query ballot: %w", err)
		}
		if !exists {
			return models.ErrBallotNotFound
		}
		return models.ErrImmutableAfterDraft
	}

	return nil
}
