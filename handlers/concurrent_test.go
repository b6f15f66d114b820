// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/testutil"
)

// TestConcurrentVoteCasting verifies that simultaneous votes from distinct
// codes all land without corruption.
func TestConcurrentVoteCasting(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(conn, cfg)

	ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, models.StatusActive, 20)
	questionID := testutil.AddTestQuestion(t, conn, ballotID, models.StatusActive, false)
	optionA := testutil.AddTestOption(t, conn, questionID, "Yes", 1)
	optionB := testutil.AddTestOption(t, conn, questionID, "No", 2)

	numVoters := 10
	voterCodes := make([]string, numVoters)
	for i := 0; i < numVoters; i++ {
		code := "CC" + string(rune('A'+i)) + "2"
		testutil.AddTestCode(t, conn, ballotID, code)
		voterCodes[i] = code
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			choice := optionA
			if idx%2 == 1 {
				choice = optionB
			}

			body, _ := json.Marshal(models.CastVoteRequest{
				Code:       voterCodes[idx],
				QuestionID: questionID,
				OptionID:   &choice,
			})
			req := httptest.NewRequest("POST", "/votes", bytes.NewReader(body))
			w := httptest.NewRecorder()
			votingHandler.CastVote(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			} else {
				t.Errorf("vote with code %s failed: %d %s", voterCodes[idx], w.Code, w.Body.String())
			}
		}(i)
	}
	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	var votes int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE question_id = $1`, questionID).Scan(&votes); err != nil {
		t.Fatalf("failed to count votes: %v", err)
	}
	if votes != numVoters {
		t.Errorf("expected %d vote rows, got %d", numVoters, votes)
	}
}

// TestConcurrentDoubleSpend verifies that one code hammered from many
// goroutines yields exactly one vote.
func TestConcurrentDoubleSpend(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(conn, cfg)

	ballotID, _ := testutil.CreateTestBallot(t, conn, cfg, models.StatusActive, 10)
	questionID := testutil.AddTestQuestion(t, conn, ballotID, models.StatusActive, false)
	optionA := testutil.AddTestOption(t, conn, questionID, "Yes", 1)
	testutil.AddTestCode(t, conn, ballotID, "DBLS")

	const attempts = 10
	var created, conflicted atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			body, _ := json.Marshal(models.CastVoteRequest{
				Code:       "DBLS",
				QuestionID: questionID,
				OptionID:   &optionA,
			})
			req := httptest.NewRequest("POST", "/votes", bytes.NewReader(body))
			w := httptest.NewRecorder()
			votingHandler.CastVote(w, req)

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicted.Add(1)
			default:
				t.Errorf("unexpected status under race: %d %s", w.Code, w.Body.String())
			}
		}()
	}
	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("expected exactly 1 created, got %d", created.Load())
	}
	if conflicted.Load() != attempts-1 {
		t.Errorf("expected %d conflicts, got %d", attempts-1, conflicted.Load())
	}

	var votes int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE question_id = $1`, questionID).Scan(&votes); err != nil {
		t.Fatalf("failed to count votes: %v", err)
	}
	if votes != 1 {
		t.Errorf("double spend produced %d votes", votes)
	}
}

// TestConcurrentTransitions verifies the compare-and-set on status: of
// many simultaneous close requests only one succeeds.
func TestConcurrentTransitions(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	ballotHandler := NewBallotHandler(conn, cfg)

	ballotID, adminKey := testutil.CreateTestBallot(t, conn, cfg, models.StatusActive, 10)

	const racers = 8
	var succeeded atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			body, _ := json.Marshal(models.TransitionRequest{Status: "closed"})
			req := httptest.NewRequest("POST", "/ballots/"+ballotID+"/status", bytes.NewReader(body))
			req.SetPathValue("id", ballotID)
			req.Header.Set("X-Admin-Key", adminKey)
			w := httptest.NewRecorder()
			ballotHandler.TransitionBallot(w, req)

			if w.Code == http.StatusOK {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	if succeeded.Load() != 1 {
		t.Errorf("expected exactly 1 winning transition, got %d", succeeded.Load())
	}

	var status models.Status
	if err := conn.QueryRow(`SELECT status FROM ballot WHERE id = $1`, ballotID).Scan(&status); err != nil {
		t.Fatalf("failed to read status: %v", err)
	}
	if status != models.StatusClosed {
		t.Errorf("expected closed, got %s", status)
	}
}
