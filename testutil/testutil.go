// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/ballotbox/auth"
	"github.com/danielhkuo/ballotbox/cliparse"
	"github.com/danielhkuo/ballotbox/db"
	"github.com/danielhkuo/ballotbox/models"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each test gets its own named memory database so tests can run
// in parallel without seeing each other's data.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// A single connection keeps the shared in-memory database alive for
	// the test's lifetime and serializes writes the way production
	// SQLite does.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3319,
		DatabaseURL:     "file:test?mode=memory",
		DatabaseType:    "sqlite",
		AdminKeySalt:    "test-admin-salt",
		RetentionWindow: 24 * time.Hour,
		CleanupInterval: time.Hour,
	}
}

// CreateTestBallot creates a ballot in the database and returns its ID and
// admin key. status should be one of draft, active, closed, evaluated.
func CreateTestBallot(t *testing.T, conn *sql.DB, cfg cliparse.Config, status models.Status, maxVoters int) (ballotID, adminKey string) {
	t.Helper()

	ballotID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(ballotID, cfg.AdminKeySalt)

	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO ballot (id, owner_id, title, invitation_text, max_voters, status, status_changed_at, created_at)
		VALUES ($1, 'test-owner', 'Test Ballot', 'You are invited to vote.', $2, $3, $4, $5)
	`, ballotID, maxVoters, status, now, now)
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	return ballotID, adminKey
}

// AddTestQuestion adds a question to a ballot and returns the question ID
func AddTestQuestion(t *testing.T, conn *sql.DB, ballotID string, status models.Status, allowInvalid bool) string {
	t.Helper()

	questionID, _ := auth.GenerateID(12)
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO question (id, ballot_id, question, allow_invalid_votes, ord, status, status_changed_at, created_at)
		VALUES ($1, $2, 'Test Question?', $3, 0, $4, $5, $6)
	`, questionID, ballotID, allowInvalid, status, now, now)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	return questionID
}

// AddTestOption adds an option to a question and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, questionID, text string, ord int) string {
	t.Helper()

	optionID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO option (id, question_id, text, ord)
		VALUES ($1, $2, $3, $4)
	`, optionID, questionID, text, ord)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// AddTestCode inserts a voter code with a chosen code string
func AddTestCode(t *testing.T, conn *sql.DB, ballotID, code string) string {
	t.Helper()

	codeID, _ := auth.GenerateID(12)
	_, err := conn.Exec(`
		INSERT INTO voter_code (id, ballot_id, code, created_at)
		VALUES ($1, $2, $3, $4)
	`, codeID, ballotID, code, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test code: %v", err)
	}

	return codeID
}

// AddTestVote inserts an anonymous vote row directly, bypassing redemption
func AddTestVote(t *testing.T, conn *sql.DB, ballotID, questionID string, optionID *string) string {
	t.Helper()

	voteID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO vote (id, ballot_id, question_id, option_id, cast_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, ballotID, questionID, optionID, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}

	return voteID
}

// BackdateStatus rewrites status_changed_at, simulating an entity that
// reached its current status long ago. table is "ballot" or "question".
func BackdateStatus(t *testing.T, conn *sql.DB, table, id string, to time.Time) {
	t.Helper()

	var query string
	switch table {
	case "ballot":
		query = `UPDATE ballot SET status_changed_at = $1 WHERE id = $2`
	case "question":
		query = `UPDATE question SET status_changed_at = $1 WHERE id = $2`
	default:
		t.Fatalf("Unknown table %q", table)
	}

	if _, err := conn.Exec(query, to, id); err != nil {
		t.Fatalf("Failed to backdate %s: %v", table, err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
