// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/lifecycle"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/reaper"
)

type BallotHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config) *BallotHandler {
	return &BallotHandler{db: db, cfg: cfg}
}

// CreateBallot handles POST /ballots
func (h *BallotHandler) CreateBallot(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.OwnerID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	if req.MaxVoters < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "max_voters must be positive")
		return
	}

	ballotID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate ballot ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create ballot")
		return
	}

	adminKey := auth.GenerateAdminKey(ballotID, h.cfg.AdminKeySalt)

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO ballot (id, owner_id, title, invitation_text, max_voters, status, status_changed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, ballotID, req.OwnerID, req.Title, req.InvitationText, req.MaxVoters, models.StatusDraft, now, now)

	if err != nil {
		slog.Error("failed to insert ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create ballot")
		return
	}

	slog.Info("ballot created", "ballot_id", ballotID, "owner_id", req.OwnerID, "max_voters", req.MaxVoters)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateBallotResponse{
		BallotID: ballotID,
		AdminKey: adminKey,
	})
}

// GetBallot handles GET /ballots/{id}
// Returns ballot details plus its questions for admin access
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
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

	var ballot models.Ballot
	err := h.db.QueryRow(`
		SELECT id, owner_id, title, invitation_text, max_voters, status, status_changed_at, created_at
		FROM ballot
		WHERE id = $1
	`, ballotID).Scan(
		&ballot.ID, &ballot.OwnerID, &ballot.Title, &ballot.InvitationText,
		&ballot.MaxVoters, &ballot.Status, &ballot.StatusChangedAt, &ballot.CreatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, ballot_id, question, allow_invalid_votes, ord, status, status_changed_at, created_at
		FROM question
		WHERE ballot_id = $1
		ORDER BY ord, id
	`, ballotID)
	if err != nil {
		slog.Error("failed to query questions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.BallotID, &q.Question, &q.AllowInvalidVotes,
			&q.Order, &q.Status, &q.StatusChangedAt, &q.CreatedAt); err != nil {
			slog.Error("failed to scan question", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		questions = append(questions, q)
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotWithQuestions{
		Ballot:    ballot,
		Questions: questions,
	})
}

// UpdateBallot handles PUT /ballots/{id}
// Metadata is only mutable while the ballot is in draft.
func (h *BallotHandler) UpdateBallot(w http.ResponseWriter, r *http.Request) {
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

	var req models.UpdateBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := lifecycle.UpdateBallotMetadata(h.db, ballotID, req.Title, req.InvitationText, req.MaxVoters); err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("ballot updated", "ballot_id", ballotID)
	w.WriteHeader(http.StatusNoContent)
}

// TransitionBallot handles POST /ballots/{id}/status
func (h *BallotHandler) TransitionBallot(w http.ResponseWriter, r *http.Request) {
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

	var req models.TransitionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	target, err := models.ParseStatus(req.Status)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown status: "+req.Status)
		return
	}

	changedAt, err := lifecycle.TransitionBallot(h.db, ballotID, target)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("ballot transitioned", "ballot_id", ballotID, "status", target)

	middleware.JSONResponse(w, http.StatusOK, models.TransitionResponse{
		Status:          string(target),
		StatusChangedAt: changedAt,
	})
}

// GetRetention handles GET /ballots/{id}/retention
// Reports when the ballot becomes eligible for the retention purge.
func (h *BallotHandler) GetRetention(w http.ResponseWriter, r *http.Request) {
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
	var statusChangedAt time.Time
	err := h.db.QueryRow(`
		SELECT status, status_changed_at FROM ballot WHERE id = $1
	`, ballotID).Scan(&status, &statusChangedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.RetentionResponse{Status: string(status)}
	if due, ok := reaper.PurgeDueAt(status, statusChangedAt, h.cfg.RetentionWindow); ok {
		resp.PurgeDueAt = &due
		resp.PurgeDueIn = reaper.DescribeDeadline(due)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
