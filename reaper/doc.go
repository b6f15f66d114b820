// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reaper purges voter-identifying data after the retention window.

Once a ballot or question has been closed or evaluated for the retention
window (default 24h), everything that could identify a voter is deleted:
votes, code redemptions, voter codes, then the questions and the ballot
record itself. Only aggregated tallies already handed to the export
collaborator outlive the purge.

# Lifecycle

The reaper is an explicitly owned background task, not a process-global
timer:

	r := reaper.New(db, time.Hour, 24*time.Hour)
	r.Start()
	defer r.Stop()

Tests override the Now field and call RunScan directly instead of waiting
real hours.

# Guarantees

  - Retention comparisons use the server clock only. Client-supplied
    timestamps are audited by package timeguard but never authorize a
    purge.
  - Each entity purges in its own transaction; one ballot's failure is
    logged and retried next cycle without blocking the others.
  - A leftover from a partially failed cycle is caught by the orphan
    sweep (votes or codes whose ballot is gone).
*/
package reaper
