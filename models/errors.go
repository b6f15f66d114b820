// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

// Taxonomy sentinels. Every engine error wraps exactly one of these so
// callers can classify with errors.Is without matching strings.
var (
	// ErrValidation covers malformed input, e.g. an unknown option id.
	ErrValidation = errors.New("validation error")

	// ErrNotFound covers unknown codes, ballots, and questions.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers illegal or duplicate state transitions and
	// already-redeemed codes.
	ErrConflict = errors.New("conflict")

	// ErrPrecondition covers operations not allowed in the entity's
	// current status, e.g. issuing codes outside draft.
	ErrPrecondition = errors.New("precondition failed")

	// ErrPrivacyViolation is fatal and non-recoverable: any attempt to
	// persist a vote carrying a voter-code reference must abort the write
	// rather than silently proceed.
	ErrPrivacyViolation = errors.New("privacy invariant violation")
)

// Redemption errors, in the order redemption checks them.
var (
	ErrCodeNotFound      = fmt.Errorf("%w: unknown voter code", ErrNotFound)
	ErrBallotNotActive   = fmt.Errorf("%w: ballot is not active", ErrPrecondition)
	ErrQuestionNotActive = fmt.Errorf("%w: question is not active", ErrPrecondition)
	ErrAlreadyVoted      = fmt.Errorf("%w: code already voted on this question", ErrConflict)
	ErrInvalidOption     = fmt.Errorf("%w: option does not belong to question", ErrValidation)
	ErrBlankNotAllowed   = fmt.Errorf("%w: question does not allow blank votes", ErrValidation)
)

// Lifecycle and issuance errors.
var (
	ErrBallotNotFound      = fmt.Errorf("%w: ballot", ErrNotFound)
	ErrQuestionNotFound    = fmt.Errorf("%w: question", ErrNotFound)
	ErrIllegalTransition   = fmt.Errorf("%w: status may only advance one step forward", ErrConflict)
	ErrNoCodesIssued       = fmt.Errorf("%w: cannot activate a ballot with no voter codes", ErrPrecondition)
	ErrParentNotActive     = fmt.Errorf("%w: parent ballot is not active", ErrPrecondition)
	ErrNotDraft            = fmt.Errorf("%w: only allowed while in draft", ErrPrecondition)
	ErrCapacityExhausted   = fmt.Errorf("%w: ballot is at max voter capacity", ErrPrecondition)
	ErrImmutableAfterDraft = fmt.Errorf("%w: fields are immutable once the ballot leaves draft", ErrConflict)
)
