// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Ballot Box API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Ballot management (admin, requires X-Admin-Key):

	POST /ballots                - Create ballot
	GET  /ballots/{id}           - Ballot details with questions
	PUT  /ballots/{id}           - Update metadata (draft only)
	POST /ballots/{id}/status    - Advance ballot status
	GET  /ballots/{id}/retention - Purge deadline info

Question management (admin, requires X-Admin-Key):

	POST /ballots/{id}/questions - Add question
	POST /questions/{id}/options - Add option (draft only)
	POST /questions/{id}/status  - Advance question status

Voter codes (admin, requires X-Admin-Key):

	POST /ballots/{id}/codes - Issue one-time codes
	GET  /ballots/{id}/codes - Credential sheet for printing

Anonymous voting (public, code is the only credential):

	POST /votes - Redeem a code against a question

Results (admin, closed or evaluated only):

	GET /questions/{id}/result - Per-question tally
	GET /ballots/{id}/summary  - Turnout summary

# Handler Initialization

The router creates handler instances with dependency injection:

	ballotHandler := handlers.NewBallotHandler(db, cfg)
	questionHandler := handlers.NewQuestionHandler(db, cfg)
	codeHandler := handlers.NewCodeHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
