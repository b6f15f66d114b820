// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package redeem consumes one-time voter codes and records anonymous votes.

A code may vote exactly once per question. The redemption set lives on the
code side (code_redemption table); the vote row carries no reference back
to the code. Both writes happen in a single transaction with status
re-validation inside it, which is the property everything else in the
system leans on:

  - no crash window where a code is marked voted but no vote exists
  - no crash window where a vote exists but the code could vote again
  - concurrent redemptions of the same code and question: exactly one wins,
    the other gets models.ErrAlreadyVoted
  - a ballot closed mid-request freezes its questions even when the
    question's own status record still says active
*/
package redeem
