// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/danielhkuo/ballotbox/models"
)

// QuestionResult aggregates a question's votes into per-option counts and
// percentages. Read-only; safe to call any number of times before the
// retention purge removes the underlying votes.
//
// Blank votes (option_id NULL) count as invalidVotes and are excluded from
// the percentage base: percentage = optionVotes / validVotes * 100, or 0
// when there are no valid votes. Options sort by descending vote count;
// equal counts fall back to ascending option order, matching the printed
// ballot.
func QuestionResult(db *sql.DB, questionID string) (models.QuestionResult, error) {
	var result models.QuestionResult
	err := db.QueryRow(`
		SELECT id, question FROM question WHERE id = $1
	`, questionID).Scan(&result.QuestionID, &result.Question)
	if err == sql.ErrNoRows {
		return models.QuestionResult{}, models.ErrQuestionNotFound
	}
	if err != nil {
		return models.QuestionResult{}, fmt.Errorf("failed to query question: %w", err)
	}

	// Per-option counts, including options nobody voted for
	rows, err := db.Query(`
		SELECT o.id, o.text, o.ord, COUNT(v.id)
		FROM option o
		LEFT JOIN vote v ON v.option_id = o.id AND v.question_id = o.question_id
		WHERE o.question_id = $1
		GROUP BY o.id, o.text, o.ord
	`, questionID)
	if err != nil {
		return models.QuestionResult{}, fmt.Errorf("failed to query option counts: %w", err)
	}
	defer rows.Close()

	type optionCount struct {
		models.OptionResult
		ord int
	}

	var counts []optionCount
	validVotes := 0
	for rows.Next() {
		var oc optionCount
		if err := rows.Scan(&oc.OptionID, &oc.Text, &oc.ord, &oc.Votes); err != nil {
			return models.QuestionResult{}, fmt.Errorf("failed to scan option count: %w", err)
		}
		validVotes += oc.Votes
		counts = append(counts, oc)
	}
	if err := rows.Err(); err != nil {
		return models.QuestionResult{}, fmt.Errorf("failed to read option counts: %w", err)
	}

	err = db.QueryRow(`
		SELECT COUNT(*) FROM vote
		WHERE question_id = $1 AND option_id IS NULL
	`, questionID).Scan(&result.InvalidVotes)
	if err != nil {
		return models.QuestionResult{}, fmt.Errorf("failed to count invalid votes: %w", err)
	}

	for i := range counts {
		if validVotes > 0 {
			counts[i].Percentage = float64(counts[i].Votes) / float64(validVotes) * 100
		}
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Votes != counts[j].Votes {
			return counts[i].Votes > counts[j].Votes
		}
		return counts[i].ord < counts[j].ord
	})

	result.TotalVotes = validVotes + result.InvalidVotes
	result.Options = make([]models.OptionResult, len(counts))
	for i, oc := range counts {
		result.Options[i] = oc.OptionResult
	}

	return result, nil
}

// BallotSummary aggregates across all of a ballot's questions:
// totalVoters is the number of codes issued, totalVotes and invalidVotes
// are summed over every question.
func BallotSummary(db *sql.DB, ballotID string) (models.BallotSummary, error) {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM ballot WHERE id = $1)`, ballotID).Scan(&exists); err != nil {
		return models.BallotSummary{}, fmt.Errorf("failed to query ballot: %w", err)
	}
	if !exists {
		return models.BallotSummary{}, models.ErrBallotNotFound
	}

	summary := models.BallotSummary{BallotID: ballotID}

	if err := db.QueryRow(`SELECT COUNT(*) FROM voter_code WHERE ballot_id = $1`, ballotID).Scan(&summary.TotalVoters); err != nil {
		return models.BallotSummary{}, fmt.Errorf("failed to count voters: %w", err)
	}

	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE ballot_id = $1`, ballotID).Scan(&summary.TotalVotes); err != nil {
		return models.BallotSummary{}, fmt.Errorf("failed to count votes: %w", err)
	}

	if err := db.QueryRow(`
		SELECT COUNT(*) FROM vote
		WHERE ballot_id = $1 AND option_id IS NULL
	`, ballotID).Scan(&summary.InvalidVotes); err != nil {
		return models.BallotSummary{}, fmt.Errorf("failed to count invalid votes: %w", err)
	}

	return summary, nil
}
