// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/handlers"
	"github.com/danielhkuo/ballotbox/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	ballotHandler := handlers.NewBallotHandler(db, cfg)
	questionHandler := handlers.NewQuestionHandler(db, cfg)
	codeHandler := handlers.NewCodeHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Ballot management (admin operations)
	mux.HandleFunc("POST /ballots", middleware.WithLogging(ballotHandler.CreateBallot))
	mux.HandleFunc("GET /ballots/{id}", middleware.WithLogging(ballotHandler.GetBallot))
	mux.HandleFunc("PUT /ballots/{id}", middleware.WithLogging(ballotHandler.UpdateBallot))
	mux.HandleFunc("POST /ballots/{id}/status", middleware.WithLogging(ballotHandler.TransitionBallot))
	mux.HandleFunc("GET /ballots/{id}/retention", middleware.WithLogging(ballotHandler.GetRetention))

	// Question and option management (admin operations)
	mux.HandleFunc("POST /ballots/{id}/questions", middleware.WithLogging(questionHandler.CreateQuestion))
	mux.HandleFunc("POST /questions/{id}/options", middleware.WithLogging(questionHandler.AddOption))
	mux.HandleFunc("POST /questions/{id}/status", middleware.WithLogging(questionHandler.TransitionQuestion))

	// Voter code issuance (admin operations)
	mux.HandleFunc("POST /ballots/{id}/codes", middleware.WithLogging(codeHandler.IssueCodes))
	mux.HandleFunc("GET /ballots/{id}/codes", middleware.WithLogging(codeHandler.ListCodes))

	// Anonymous voting (public)
	mux.HandleFunc("POST /votes", middleware.WithLogging(votingHandler.CastVote))

	// Results (admin operations, sealed until closed)
	mux.HandleFunc("GET /questions/{id}/result", middleware.WithLogging(resultsHandler.GetQuestionResult))
	mux.HandleFunc("GET /ballots/{id}/summary", middleware.WithLogging(resultsHandler.GetBallotSummary))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ballotbox API v1"))
	})

	return mux
}
