// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lifecycle owns the status state machine for ballots and questions.

# State Machine

	draft -> active -> closed -> evaluated

Transitions move exactly one step forward. Backward moves and skips fail
with models.ErrIllegalTransition (a conflict).

# Gates

  - A ballot cannot activate with zero voter codes (ErrNoCodesIssued).
  - A question can only activate while its parent ballot is active
    (ErrParentNotActive).
  - Ballot metadata is immutable outside draft (ErrImmutableAfterDraft).

# Concurrency

Every transition is a compare-and-set:

	UPDATE ... SET status = new WHERE id = ? AND status = expected

Two concurrent admin calls cannot both succeed; the loser observes zero
affected rows and fails with ErrIllegalTransition. status_changed_at is
always server time. The retention reaper trusts that column, so no client
input may ever be written to it.
*/
package lifecycle
