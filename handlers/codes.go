// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/codes"
	"github.com/danielhkuo/ballotbox/middleware"
	"github.com/danielhkuo/ballotbox/models"
)

type CodeHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCodeHandler(db *sql.DB, cfg cliparse.Config) *CodeHandler {
	return &CodeHandler{db: db, cfg: cfg}
}

// IssueCodes handles POST /ballots/{id}/codes
// Issues up to the requested number of one-time voter codes, clamped to
// the ballot's remaining capacity.
func (h *CodeHandler) IssueCodes(w http.ResponseWriter, r *http.Request) {
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

	var req models.IssueCodesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	issued, err := codes.Issue(h.db, ballotID, req.Count)
	if err != nil {
		middleware.EngineError(w, err)
		return
	}

	var maxVoters, live int
	err = h.db.QueryRow(`
		SELECT b.max_voters, COUNT(c.id)
		FROM ballot b
		LEFT JOIN voter_code c ON c.ballot_id = b.id
		WHERE b.id = $1
		GROUP BY b.max_voters
	`, ballotID).Scan(&maxVoters, &live)
	if err != nil {
		slog.Error("failed to query code capacity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	out := make([]string, len(issued))
	for i, c := range issued {
		out[i] = c.Code
	}

	slog.Info("voter codes issued", "ballot_id", ballotID, "requested", req.Count, "issued", len(issued))

	middleware.JSONResponse(w, http.StatusCreated, models.IssueCodesResponse{
		Codes:     out,
		Remaining: maxVoters - live,
	})
}

// ListCodes handles GET /ballots/{id}/codes
// Returns a credential sheet for printing and distribution. The sheet
// never includes redemption state, so reprints cannot expose who voted.
func (h *CodeHandler) ListCodes(w http.ResponseWriter, r *http.Request) {
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

	var title, invitationText string
	err := h.db.QueryRow(`
		SELECT title, invitation_text FROM ballot WHERE id = $1
	`, ballotID).Scan(&title, &invitationText)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Ballot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	issued, err := codes.List(h.db, ballotID)
	if err != nil {
		slog.Error("failed to list codes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	out := make([]string, len(issued))
	for i, c := range issued {
		out[i] = c.Code
	}

	middleware.JSONResponse(w, http.StatusOK, models.CredentialSheet{
		BallotID:       ballotID,
		Title:          title,
		InvitationText: invitationText,
		Codes:          out,
	})
}
