// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

Internal data structures:

  - Ballot: tenant-owned voting event with a forward-only lifecycle
  - Question: single-choice voting item with its own lifecycle
  - Option: immutable choice within a question
  - VoterCode: one-time credential, globally unique code string
  - Vote: anonymous cast choice, never linkable to a VoterCode

# Lifecycle

Both ballots and questions share the Status machine:

	draft -> active -> closed -> evaluated

Status.CanTransitionTo enforces single-step forward movement; Terminal
marks the states eligible for retention purging.

# Result Types

Read-only types consumed by the export collaborator:

  - OptionResult: per-option votes and percentage
  - QuestionResult: totals, invalid count, sorted options
  - BallotSummary: voters issued, votes cast, invalid votes

# Errors

Taxonomy sentinels (ErrValidation, ErrNotFound, ErrConflict,
ErrPrecondition, ErrPrivacyViolation) with specific wrapped errors such as
ErrAlreadyVoted and ErrBallotNotActive. Classify with errors.Is:

	if errors.Is(err, models.ErrConflict) { ... }

# Anonymity Contract

Vote deliberately has no field for the redeeming code. The redemption set
is tracked on the VoterCode side only, so no stored vote, individually or
in combination, identifies the code that produced it.
*/
package models
