// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/ballotbox/lifecycle"
	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestTransitionBallotForwardPath(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()

	ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, models.StatusDraft, 10)
	testutil.AddTestCode(t, conn, ballotID, "AAAA")

	steps := []models.Status{models.StatusActive, models.StatusClosed, models.StatusEvaluated}
	for _, target := range steps {
		changedAt, err := lifecycle.TransitionBallot(conn, ballotID, target)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
		if time.Since(changedAt) > time.Minute {
			t.Errorf("status_changed_at not set to server time: %v", changedAt)
		}

		var got models.Status
		if err := conn.QueryRow(`SELECT status FROM ballot WHERE id = $1`, ballotID).Scan(&got); err != nil {
			t.Fatalf("failed to read status: %v", err)
		}
		if got != target {
			t.Errorf("expected status %s, got %s", target, got)
		}
	}
}

func TestTransitionBallotRejectsIllegalMoves(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()

	testCases := []struct {
		name    string
		code    string
		from    models.Status
		to      models.Status
		wantErr error
	}{
		{"skip draft to closed", "CD2A", models.StatusDraft, models.StatusClosed, models.ErrIllegalTransition},
		{"skip draft to evaluated", "CD2B", models.StatusDraft, models.StatusEvaluated, models.ErrIllegalTransition},
		{"skip active to evaluated", "CD2C", models.StatusActive, models.StatusEvaluated, models.ErrIllegalTransition},
		{"backward active to draft", "CD2D", models.StatusActive, models.StatusDraft, models.ErrIllegalTransition},
		{"backward closed to active", "CD2E", models.StatusClosed, models.StatusActive, models.ErrIllegalTransition},
		{"self transition", "CD2F", models.StatusActive, models.StatusActive, models.ErrIllegalTransition},
		{"out of evaluated", "CD2G", models.StatusEvaluated, models.StatusClosed, models.ErrIllegalTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, tc.from, 10)
			testutil.AddTestCode(t, conn, ballotID, tc.code)

			_, err := lifecycle.TransitionBallot(conn, ballotID, tc.to)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestTransitionBallotUnknownStatus(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()

	ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, models.StatusDraft, 10)

	_, err := lifecycle.TransitionBallot(conn, ballotID, models.Status("archived"))
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestTransitionBallotNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	_, err := lifecycle.TransitionBallot(conn, "missing", models.StatusActive)
	if !errors.Is(err, models.ErrBallotNotFound) {
		t.Errorf("expected ErrBallotNotFound, got %v", err)
	}
}

func TestActivationRequiresIssuedCodes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()

	ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, models.StatusDraft, 10)

	_, err := lifecycle.TransitionBallot(conn, ballotID, models.StatusActive)
	if !errors.Is(err, models.ErrNoCodesIssued) {
		t.Errorf("expected ErrNoCodesIssued, got %v", err)
	}

	// With a code issued, activation succeeds
	testutil.AddTestCode(t, conn, ballotID, "BBBB")
	if _, err := lifecycle.TransitionBallot(conn, ballotID, models.StatusActive); err != nil {
		t.Errorf("expected activation to succeed, got %v", err)
	}
}

func TestTransitionQuestionRequiresActiveBallot(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()

	testCases := []struct {
		name         string
		ballotStatus models.Status
		wantErr      error
	}{
		{"draft ballot", models.StatusDraft, models.ErrParentNotActive},
		{"closed ballot", models.StatusClosed, models.ErrParentNotActive},
		{"evaluated ballot", models.StatusEvaluated, models.ErrParentNotActive},
		{"active ballot", models.StatusActive, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, tc.ballotStatus, 10)
			questionID := testutil.AddTestQuestion(t, conn, ballotID, models.StatusDraft, false)

			_, err := lifecycle.TransitionQuestion(conn, questionID, models.StatusActive)
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("expected success, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestQuestionCanCloseUnderClosedBallot(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()

	// The parent-active gate only guards activation. Closing a question
	// whose ballot already closed must still work so records settle.
	ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, models.StatusClosed, 10)
	questionID := testutil.AddTestQuestion(t, conn, ballotID, models.StatusActive, false)

	if _, err := lifecycle.TransitionQuestion(conn, questionID, models.StatusClosed); err != nil {
		t.Errorf("expected close to succeed, got %v", err)
	}
}

func TestTransitionQuestionNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	_, err := lifecycle.TransitionQuestion(conn, "missing", models.StatusActive)
	if !errors.Is(err, models.ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestUpdateBallotMetadata(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()

	t.Run("draft ballot updates", func(t *testing.T) {
		ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, models.StatusDraft, 10)

		err := lifecycle.UpdateBallotMetadata(conn, ballotID, "Annual Meeting", "Please vote", 25)
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}

		var title string
		var maxVoters int
		if err := conn.QueryRow(`SELECT title, max_voters FROM ballot WHERE id = $1`, ballotID).Scan(&title, &maxVoters); err != nil {
			t.Fatalf("failed to read ballot: %v", err)
		}
		if title != "Annual Meeting" || maxVoters != 25 {
			t.Errorf("update not applied: title=%q max_voters=%d", title, maxVoters)
		}
	})

	t.Run("frozen after draft", func(t *testing.T) {
		ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, models.StatusActive, 10)

		err := lifecycle.UpdateBallotMetadata(conn, ballotID, "New Title", "", 25)
		if !errors.Is(err, models.ErrImmutableAfterDraft) {
			t.Errorf("expected ErrImmutableAfterDraft, got %v", err)
		}
	})

	t.Run("missing ballot", func(t *testing.T) {
		err := lifecycle.UpdateBallotMetadata(conn, "missing", "Title", "", 10)
		if !errors.Is(err, models.ErrBallotNotFound) {
			t.Errorf("expected ErrBallotNotFound, got %v", err)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, models.StatusDraft, 10)

		if err := lifecycle.UpdateBallotMetadata(conn, ballotID, "", "", 10); !errors.Is(err, models.ErrValidation) {
			t.Errorf("expected validation error for empty title, got %v", err)
		}
		if err := lifecycle.UpdateBallotMetadata(conn, ballotID, "Title", "", 0); !errors.Is(err, models.ErrValidation) {
			t.Errorf("expected validation error for zero max_voters, got %v", err)
		}
	})
}
