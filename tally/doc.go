// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally aggregates anonymous votes into results.

All functions are read-only and idempotent; they may run any number of
times until the retention reaper purges the votes they read. The result
types (models.OptionResult, QuestionResult, BallotSummary) are exactly
what the export collaborator consumes.

Blank votes count toward invalidVotes and the total, but are excluded from
the percentage base. Equal vote counts tie-break by option display order.
*/
package tally
