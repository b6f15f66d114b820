// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/tally"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// GetQuestionResult handles GET /questions/{id}/result
// Results are withheld until the question has left active, so partial
// tallies can never influence voters still holding codes.
func (h *ResultsHandler) GetQuestionResult(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_id is required")
		return
	}

	var ballotID string
	var status models.Status
	err := h.db.QueryRow(`
		SELECT ballot_id, status FROM question WHERE id = $1
	`, questionID).Scan(&ballotID, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Question not found")
		return
	}
	if err != nil {
		slog.Error("failed to query question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(ballotID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	if !status.Terminal() {
		middleware.ErrorResponse(w, http.StatusConflict, "Results are only available after the question is closed")
		return
	}

	result, err := tally.QuestionResult(h.db, questionID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}

// GetBallotSummary handles GET /ballots/{id}/summary
func (h *ResultsHandler) GetBallotSummary(w http.ResponseWriter, r *http.Request) {
	ballotID := r.PathValue("id")
	if ballotID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ballot_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(ballotID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var status models.Status
	err := h.db.QueryRow(`SELECT status FROM ballot WHERE id = $1`, ballotID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !status.Terminal() {
		middleware.ErrorResponse(w, http.StatusConflict, "Summary is only available after the ballot is closed")
		return
	}

	summary, err := tally.BallotSummary(h.db, ballotID)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, summary)
}
