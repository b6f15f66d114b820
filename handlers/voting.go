// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/redeem"
	"github.com/danielhkuo/ballotbox/timeguard"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// CastVote handles POST /votes
// The voter authenticates with a one-time code only; no admin key, no
// account. The response never distinguishes "unknown code" from "code
// for some other ballot".
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}
	if req.QuestionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_id is required")
		return
	}

	// Audit only. A skewed client clock is logged for operators but
	// never blocks the vote; the server clock is authoritative.
	if clientTime, ok := timeguard.ParseClientTime(r.Header.Get("X-Client-Time")); ok {
		if timeguard.Suspicious(clientTime, time.Now()) {
			slog.Warn("client clock deviates beyond tolerance",
				"question_id", req.QuestionID,
				"deviation", timeguard.Deviation(clientTime, time.Now()).String())
		}
	}

	vote, err := redeem.Redeem(h.db, req.Code, req.QuestionID, req.OptionID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("vote cast", "ballot_id", vote.BallotID, "question_id", vote.QuestionID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID:  vote.ID,
		Message: "Vote recorded",
	})
}
