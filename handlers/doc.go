// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Ballot Box API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - BallotHandler: Ballot lifecycle (create, update, transition, retention)
  - QuestionHandler: Question and option management, question transitions
  - CodeHandler: One-time voter code issuance and credential sheets
  - VotingHandler: Anonymous code redemption and vote casting
  - ResultsHandler: Per-question tallies and ballot summaries

Handlers are created via constructor functions that accept *sql.DB and Config:

	ballotHandler := handlers.NewBallotHandler(db, cfg)

# Ballot Lifecycle

Ballots and questions progress through four states:

	draft → active → closed → evaluated

	POST /ballots                 → CreateBallot (returns admin_key)
	POST /ballots/{id}/questions  → CreateQuestion (ballot draft or active)
	POST /questions/{id}/options  → AddOption (question draft only)
	POST /ballots/{id}/status     → TransitionBallot (single step forward)
	POST /questions/{id}/status   → TransitionQuestion (requires active ballot)

Admin operations require the X-Admin-Key header, validated against the
ballot's HMAC-derived key.

# Voting Flow

Voters authenticate with a one-time code, nothing else:

	POST /votes → CastVote (code + question + optional choice)

Each code redeems exactly once per question. The vote row is recorded
without any reference to the code that produced it, so the stored data
cannot link a voter to their choice. An X-Client-Time header, when
present, is audited against the server clock and logged if it deviates
beyond tolerance; it never gates the vote.

# Results

Results are withheld until the question (or ballot, for summaries) has
left the active state:

	GET /questions/{id}/result → per-option counts and percentages
	GET /ballots/{id}/summary  → turnout and invalid-vote counts
*/
package handlers
