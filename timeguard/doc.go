// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package timeguard keeps server time authoritative.

Voter-facing clients may report their local clock (X-Client-Time header)
for auditing. A deviation beyond MaxDeviation is flagged as suspicious and
logged, but never changes behavior: status timestamps and retention math
come from the server process clock exclusively, so manipulating a client
clock cannot extend a ballot, dodge the purge window, or backdate a vote.
*/
package timeguard
