// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package codes mints one-time voter codes.

Codes are short (4 characters) so they can be typed from a printed sheet,
drawn from an alphabet without 0/O and 1/I. They are unique across every
live code in the system because redemption looks a code up by its string
alone.

Issue is an incremental top-up: call it repeatedly while the ballot is in
draft and it never exceeds the ballot's maxVoters in total live codes, and
never touches codes already issued. A request above the remaining capacity
is clamped to it.

Collisions are resolved by regenerate-and-retry against the UNIQUE
constraint rather than by locking, so concurrent issuers stay safe.
*/
package codes
