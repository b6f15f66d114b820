// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package codes

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/models"
)

// Alphabet excludes 0/O and 1/I so printed codes survive bad photocopies.
// 32 characters divides 256 evenly, so byte-modulo sampling is unbiased.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	// CodeLength is the fixed length of a voter code, e.g. "AB3X".
	CodeLength = 4

	// maxAttempts bounds the collision-regeneration loop per code. At 4
	// chars the space is 32^4; hitting this limit means the live-code
	// population is saturated, which maxVoters should prevent long before.
	maxAttempts = 100
)

// GenerateCode returns a random fixed-length voter code.
func GenerateCode() (string, error) {
	b := make([]byte, CodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	var sb strings.Builder
	for _, c := range b {
		sb.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return sb.String(), nil
}

// Issue mints up to count new one-time voter codes for a ballot. The
// ballot must be in draft. Repeated calls top the pool up; the total of
// live codes never exceeds the ballot's maxVoters, so a call asking for
// more than the remaining capacity is clamped. Existing codes are never
// regenerated or invalidated.
//
// Uniqueness is global across all live codes, not per ballot, because
// redemption looks up by the code string alone. Collisions regenerate and
// retry; the UNIQUE constraint on voter_code.code backstops concurrent
// issuers.
func Issue(db *sql.DB, ballotID string, count int) ([]models.VoterCode, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be positive", models.ErrValidation)
	}

	var status models.Status
	var maxVoters int
	err := db.QueryRow(`SELECT status, max_voters FROM ballot WHERE id = $1`, ballotID).Scan(&status, &maxVoters)
	if err == sql.ErrNoRows {
		return nil, models.ErrBallotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ballot: %w", err)
	}

	if status != models.StatusDraft {
		return nil, fmt.Errorf("%w: codes can only be issued in draft", models.ErrNotDraft)
	}

	var live int
	if err := db.QueryRow(`SELECT COUNT(*) FROM voter_code WHERE ballot_id = $1`, ballotID).Scan(&live); err != nil {
		return nil, fmt.Errorf("failed to count live codes: %w", err)
	}

	remaining := maxVoters - live
	if remaining <= 0 {
		return nil, models.ErrCapacityExhausted
	}
	if count > remaining {
		count = remaining
	}

	issued := make([]models.VoterCode, 0, count)
	for i := 0; i < count; i++ {
		vc, err := insertUnique(db, ballotID)
		if err != nil {
			return issued, err
		}
		issued = append(issued, vc)
	}

	return issued, nil
}

func insertUnique(db *sql.DB, ballotID string) (models.VoterCode, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code, err := GenerateCode()
		if err != nil {
			return models.VoterCode{}, err
		}

		id, err := auth.GenerateID(12)
		if err != nil {
			return models.VoterCode{}, err
		}

		vc := models.VoterCode{
			ID:        id,
			BallotID:  ballotID,
			Code:      code,
			CreatedAt: time.Now(),
		}

		_, err = db.Exec(`
			INSERT INTO voter_code (id, ballot_id, code, created_at)
			VALUES ($1, $2, $3, $4)
		`, vc.ID, vc.BallotID, vc.Code, vc.CreatedAt)
		if err == nil {
			return vc, nil
		}
		if !isUniqueViolation(err) {
			return models.VoterCode{}, fmt.Errorf("failed to insert voter code: %w", err)
		}
		// Collision with a live code; regenerate
	}

	return models.VoterCode{}, fmt.Errorf("%w: could not find a free code after %d attempts", models.ErrConflict, maxAttempts)
}

// isUniqueViolation matches both drivers' unique-constraint errors.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// List returns a ballot's live codes in issuance order, for re-printing
// credential sheets.
func List(db *sql.DB, ballotID string) ([]models.VoterCode, error) {
	rows, err := db.Query(`
		SELECT id, ballot_id, code, created_at
		FROM voter_code
		WHERE ballot_id = $1
		ORDER BY created_at, id
	`, ballotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voter codes: %w", err)
	}
	defer rows.Close()

	var out []models.VoterCode
	for rows.Next() {
		var vc models.VoterCode
		if err := rows.Scan(&vc.ID, &vc.BallotID, &vc.Code, &vc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan voter code: %w", err)
		}
		out = append(out, vc)
	}
	return out, rows.Err()
}
