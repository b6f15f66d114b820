// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type CreateBallotRequest struct {
	OwnerID        string `json:"owner_id"`
	Title          string `json:"title"`
	InvitationText string `json:"invitation_text"`
	MaxVoters      int    `json:"max_voters"`
}

type UpdateBallotRequest struct {
	Title          string `json:"title"`
	InvitationText string `json:"invitation_text"`
	MaxVoters      int    `json:"max_voters"`
}

type CreateQuestionRequest struct {
	Question          string `json:"question"`
	AllowInvalidVotes bool   `json:"allow_invalid_votes"`
}

type AddOptionRequest struct {
	Text string `json:"text"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

type IssueCodesRequest struct {
	Count int `json:"count"`
}

// option_id is null for a deliberately blank (invalid) vote
type CastVoteRequest struct {
	Code       string  `json:"code"`
	QuestionID string  `json:"question_id"`
	OptionID   *string `json:"option_id"`
}

// Response types

type CreateBallotResponse struct {
	BallotID string `json:"ballot_id"`
	AdminKey string `json:"admin_key"`
}

type CreateQuestionResponse struct {
	QuestionID string `json:"question_id"`
}

type AddOptionResponse struct {
	OptionID string `json:"option_id"`
}

type TransitionResponse struct {
	Status          string    `json:"status"`
	StatusChangedAt time.Time `json:"status_changed_at"`
}

type IssueCodesResponse struct {
	Codes     []string `json:"codes"`
	Remaining int      `json:"remaining_capacity"`
}

type CastVoteResponse struct {
	VoteID  string `json:"vote_id"`
	Message string `json:"message"`
}

// CredentialSheet is the payload the printable-credential collaborator
// consumes. It carries no vote or status state.
type CredentialSheet struct {
	BallotID       string   `json:"ballot_id"`
	Title          string   `json:"title"`
	InvitationText string   `json:"invitation_text"`
	Codes          []string `json:"codes"`
}

type RetentionResponse struct {
	Status     string     `json:"status"`
	PurgeDueAt *time.Time `json:"purge_due_at,omitempty"`
	PurgeDueIn string     `json:"purge_due_in,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Ballot struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Title           string    `json:"title"`
	InvitationText  string    `json:"invitation_text"`
	MaxVoters       int       `json:"max_voters"`
	Status          Status    `json:"status"`
	StatusChangedAt time.Time `json:"status_changed_at"`
	CreatedAt       time.Time `json:"created_at"`
}

type Question struct {
	ID                string    `json:"id"`
	BallotID          string    `json:"ballot_id"`
	Question          string    `json:"question"`
	AllowInvalidVotes bool      `json:"allow_invalid_votes"`
	Order             int       `json:"order"`
	Status            Status    `json:"status"`
	StatusChangedAt   time.Time `json:"status_changed_at"`
	CreatedAt         time.Time `json:"created_at"`
}

type Option struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
	Order      int    `json:"order"`
}

type BallotWithQuestions struct {
	Ballot    Ballot     `json:"ballot"`
	Questions []Question `json:"questions"`
}

type QuestionWithOptions struct {
	Question Question `json:"question"`
	Options  []Option `json:"options"`
}

// VoterCode is a one-time credential. The code string is unique among all
// live codes, not just this ballot's, because redemption looks codes up by
// the string alone.
type VoterCode struct {
	ID        string    `json:"id"`
	BallotID  string    `json:"ballot_id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// Vote is an anonymous cast choice. It must never carry a field that
// references, or is derivable to, the VoterCode that produced it.
// OptionID is nil for a deliberately blank (invalid) vote.
type Vote struct {
	ID         string    `json:"id"`
	BallotID   string    `json:"ballot_id"`
	QuestionID string    `json:"question_id"`
	OptionID   *string   `json:"option_id"`
	CastAt     time.Time `json:"cast_at"`
}

// Result types consumed by the export/report collaborator

type OptionResult struct {
	OptionID   string  `json:"option_id"`
	Text       string  `json:"text"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type QuestionResult struct {
	QuestionID   string         `json:"question_id"`
	Question     string         `json:"question"`
	TotalVotes   int            `json:"total_votes"`
	InvalidVotes int            `json:"invalid_votes"`
	Options      []OptionResult `json:"options"`
}

type BallotSummary struct {
	BallotID     string `json:"ballot_id"`
	TotalVoters  int    `json:"total_voters"`
	TotalVotes   int    `json:"total_votes"`
	InvalidVotes int    `json:"invalid_votes"`
}
