// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reaper

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/ballotbox/models"
)

// Reaper purges voter-identifying data once a ballot or question has sat
// in a terminal status past the retention window. It is the only
// background actor in the system and tolerates running concurrently with
// live redemption: redemption re-validates status inside its own
// transaction, and purges are per-entity transactions.
type Reaper struct {
	db        *sql.DB
	interval  time.Duration
	retention time.Duration

	// Now is the clock used for every retention comparison. Override it
	// in tests to simulate time passage; it must always represent server
	// time, never a client-supplied timestamp.
	Now func() time.Time

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// ScanStats summarizes one reaper cycle for logging.
type ScanStats struct {
	BallotsPurged   int
	QuestionsPurged int
	VotesDeleted    int64
	CodesDeleted    int64
	OrphanVotes     int64
	OrphanCodes     int64
	Errors          []error
}

// New returns an unstarted Reaper scanning every interval and purging
// entities terminal for at least retention.
func New(db *sql.DB, interval, retention time.Duration) *Reaper {
	return &Reaper{
		db:        db,
		interval:  interval,
		retention: retention,
		Now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the background loop: one immediate scan, then one per
// interval until Stop is called.
func (r *Reaper) Start() {
	go func() {
		defer close(r.done)

		slog.Info("retention reaper started",
			"interval", r.interval.String(),
			"retention", r.retention.String(),
		)

		r.scanAndLog()

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.scanAndLog()
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the loop and waits for any in-flight scan to finish. Safe to
// call more than once.
func (r *Reaper) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
	slog.Info("retention reaper stopped")
}

func (r *Reaper) scanAndLog() {
	stats := r.RunScan()

	slog.Info("retention scan completed",
		"ballots_purged", stats.BallotsPurged,
		"questions_purged", stats.QuestionsPurged,
		"votes_deleted", stats.VotesDeleted,
		"codes_deleted", stats.CodesDeleted,
		"orphan_votes", stats.OrphanVotes,
		"orphan_codes", stats.OrphanCodes,
		"errors", len(stats.Errors),
	)
	for _, err := range stats.Errors {
		slog.Error("retention scan error", "error", err)
	}
}

// RunScan performs a single retention pass. A failure purging one entity
// never aborts the rest of the scan; it is collected, logged, and retried
// on the next cycle. Exported so tests can drive scans deterministically
// with an overridden clock.
func (r *Reaper) RunScan() ScanStats {
	var stats ScanStats
	cutoff := r.Now().Add(-r.retention)

	ballotIDs, err := r.expired(`
		SELECT id FROM ballot
		WHERE status IN ($1, $2) AND status_changed_at <= $3
	`, cutoff)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Errorf("scan ballots: %w", err))
	}
	for _, id := range ballotIDs {
		if err := r.purgeBallot(id, &stats); err != nil {
			stats.Errors = append(stats.Errors, fmt.Errorf("purge ballot %s: %w", id, err))
			continue
		}
		stats.BallotsPurged++
	}

	// Questions whose own lifecycle ended while the parent ballot lives on
	questionIDs, err := r.expired(`
		SELECT id FROM question
		WHERE status IN ($1, $2) AND status_changed_at <= $3
	`, cutoff)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Errorf("scan questions: %w", err))
	}
	for _, id := range questionIDs {
		if err := r.purgeQuestion(id, &stats); err != nil {
			stats.Errors = append(stats.Errors, fmt.Errorf("purge question %s: %w", id, err))
			continue
		}
		stats.QuestionsPurged++
	}

	r.sweepOrphans(&stats)

	return stats
}

func (r *Reaper) expired(query string, cutoff time.Time) ([]string, error) {
	rows, err := r.db.Query(query, models.StatusClosed, models.StatusEvaluated, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// purgeBallot removes everything voter-identifying about a ballot, and
// then the ballot record itself, in one transaction: votes first, then
// codes, then questions, then the ballot.
func (r *Reaper) purgeBallot(ballotID string, stats *ScanStats) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM vote WHERE ballot_id = $1`, ballotID)
	if err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		stats.VotesDeleted += n
	}

	if _, err := tx.Exec(`
		DELETE FROM code_redemption
		WHERE code_id IN (SELECT id FROM voter_code WHERE ballot_id = $1)
	`, ballotID); err != nil {
		return fmt.Errorf("delete redemptions: %w", err)
	}

	res, err = tx.Exec(`DELETE FROM voter_code WHERE ballot_id = $1`, ballotID)
	if err != nil {
		return fmt.Errorf("delete codes: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		stats.CodesDeleted += n
	}

	if _, err := tx.Exec(`
		DELETE FROM option
		WHERE question_id IN (SELECT id FROM question WHERE ballot_id = $1)
	`, ballotID); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM question WHERE ballot_id = $1`, ballotID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM ballot WHERE id = $1`, ballotID); err != nil {
		return fmt.Errorf("delete ballot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("ballot purged", "ballot_id", ballotID)
	return nil
}

// purgeQuestion removes a single terminal question and its votes while the
// parent ballot stays live. Its redemption rows go too; the codes remain
// usable for the ballot's other questions.
func (r *Reaper) purgeQuestion(questionID string, stats *ScanStats) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM vote WHERE question_id = $1`, questionID)
	if err != nil {
		return fmt.Errorf("delete votes: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		stats.VotesDeleted += n
	}

	if _, err := tx.Exec(`DELETE FROM code_redemption WHERE question_id = $1`, questionID); err != nil {
		return fmt.Errorf("delete redemptions: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM option WHERE question_id = $1`, questionID); err != nil {
		return fmt.Errorf("delete options: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM question WHERE id = $1`, questionID); err != nil {
		return fmt.Errorf("delete question: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("question purged", "question_id", questionID)
	return nil
}

// sweepOrphans deletes votes and codes whose ballot no longer exists, e.g.
// after a partially failed purge in an earlier cycle.
func (r *Reaper) sweepOrphans(stats *ScanStats) {
	res, err := r.db.Exec(`
		DELETE FROM vote
		WHERE ballot_id NOT IN (SELECT id FROM ballot)
	`)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Errorf("sweep orphan votes: %w", err))
	} else if n, err := res.RowsAffected(); err == nil {
		stats.OrphanVotes = n
	}

	res, err = r.db.Exec(`
		DELETE FROM voter_code
		WHERE ballot_id NOT IN (SELECT id FROM ballot)
	`)
	if err != nil {
		stats.Errors = append(stats.Errors, fmt.Errorf("sweep orphan codes: %w", err))
	} else if n, err := res.RowsAffected(); err == nil {
		stats.OrphanCodes = n
	}
}

// PurgeDueAt returns when an entity in the given status becomes eligible
// for purging, and false for non-terminal statuses that will never be
// purged as they stand.
func PurgeDueAt(status models.Status, statusChangedAt time.Time, retention time.Duration) (time.Time, bool) {
	if !status.Terminal() {
		return time.Time{}, false
	}
	return statusChangedAt.Add(retention), true
}

// DescribeDeadline renders a purge deadline for humans, e.g. "in 23 hours"
// or "7 minutes ago".
func DescribeDeadline(due time.Time) string {
	return humanize.Time(due)
}
