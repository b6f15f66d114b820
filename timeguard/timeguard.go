// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package timeguard

import (
	"time"
)

// MaxDeviation is how far a client-reported clock may drift from server
// time before the request is flagged as suspicious.
const MaxDeviation = 5 * time.Minute

// Deviation returns the absolute difference between a client-supplied
// timestamp and server time.
func Deviation(clientTime, serverTime time.Time) time.Duration {
	d := serverTime.Sub(clientTime)
	if d < 0 {
		d = -d
	}
	return d
}

// Suspicious reports whether a client clock deviates from server time by
// more than MaxDeviation. Suspicious timestamps may be logged for auditing
// but must never authorize an irreversible action; every decision that
// deletes data or freezes a status uses server time alone.
func Suspicious(clientTime, serverTime time.Time) bool {
	return Deviation(clientTime, serverTime) > MaxDeviation
}

// ParseClientTime parses the RFC 3339 value of an X-Client-Time header.
// An empty header is not an error; it simply means the client sent no
// timestamp to audit.
func ParseClientTime(header string) (time.Time, bool) {
	if header == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, header)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
