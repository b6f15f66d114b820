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
)

type QuestionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewQuestionHandler(db *sql.DB, cfg cliparse.Config) *QuestionHandler {
	return &QuestionHandler{db: db, cfg: cfg}
}

// ballotFor resolves the owning ballot of a question so the admin key
// can be checked at the ballot level.
func (h *QuestionHandler) ballotFor(questionID string) (string, error) {
	var ballotID string
	err := h.db.QueryRow(`SELECT ballot_id FROM question WHERE id = $1`, questionID).Scan(&ballotID)
	return ballotID, err
}

// CreateQuestion handles POST /ballots/{id}/questions
// Questions may be added while the ballot is draft or active; a new
// question always starts in draft.
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
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

	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}

	var ballotStatus models.Status
	err := h.db.QueryRow(`SELECT status FROM ballot WHERE id = $1`, ballotID).Scan(&ballotStatus)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if ballotStatus.Terminal() {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot add questions to a "+string(ballotStatus)+" ballot")
		return
	}

	questionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate question ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	var maxOrd sql.NullInt64
	if err := h.db.QueryRow(`SELECT MAX(ord) FROM question WHERE ballot_id = $1`, ballotID).Scan(&maxOrd); err != nil {
		slog.Error("failed to query question order", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	ord := int(maxOrd.Int64) + 1

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO question (id, ballot_id, question, allow_invalid_votes, ord, status, status_changed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, questionID, ballotID, req.Question, req.AllowInvalidVotes, ord, models.StatusDraft, now, now)

	if err != nil {
		slog.Error("failed to insert question", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create question")
		return
	}

	slog.Info("question created", "question_id", questionID, "ballot_id", ballotID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateQuestionResponse{
		QuestionID: questionID,
	})
}

// AddOption handles POST /questions/{id}/options
// Options are only mutable while the question is in draft.
func (h *QuestionHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_id is required")
		return
	}

	ballotID, err := h.ballotFor(questionID)
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

	var req models.AddOptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	var questionStatus models.Status
	if err := h.db.QueryRow(`SELECT status FROM question WHERE id = $1`, questionID).Scan(&questionStatus); err != nil {
		slog.Error("failed to query question status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if questionStatus != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Options can only be added while the question is in draft")
		return
	}

	optionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate option ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add option")
		return
	}

	var maxOrd sql.NullInt64
	if err := h.db.QueryRow(`SELECT MAX(ord) FROM option WHERE question_id = $1`, questionID).Scan(&maxOrd); err != nil {
		slog.Error("failed to query option order", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	ord := int(maxOrd.Int64) + 1

	_, err = h.db.Exec(`
		INSERT INTO option (id, question_id, text, ord)
		VALUES ($1, $2, $3, $4)
	`, optionID, questionID, req.Text, ord)

	if err != nil {
		slog.Error("failed to insert option", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add option")
		return
	}

	slog.Info("option added", "option_id", optionID, "question_id", questionID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddOptionResponse{
		OptionID: optionID,
	})
}

// TransitionQuestion handles POST /questions/{id}/status
func (h *QuestionHandler) TransitionQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := r.PathValue("id")
	if questionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_id is required")
		return
	}

	ballotID, err := h.ballotFor(questionID)
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

	changedAt, err := lifecycle.TransitionQuestion(h.db, questionID, target)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	slog.Info("question transitioned", "question_id", questionID, "status", target)

	middleware.JSONResponse(w, http.StatusOK, models.TransitionResponse{
		Status:          string(target),
		StatusChangedAt: changedAt,
	})
}
