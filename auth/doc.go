// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key and ID generation utilities.

# Admin Keys

Admin keys are HMAC-SHA256 over the ballot ID with a server-side salt, so
they are verifiable without storage:

	key := auth.GenerateAdminKey(ballotID, cfg.AdminKeySalt)
	if err := auth.ValidateAdminKey(ballotID, key, cfg.AdminKeySalt); err != nil {
		// reject
	}

The admin key is the boundary to the identity/tenant collaborator: whoever
holds the key may transition a ballot and issue its codes. Authentication
mechanics beyond that are out of scope.

# IDs

GenerateID returns crypto/rand hex identifiers for ballots, questions, and
options. Voter codes use their own short-alphabet generator in the codes
package; vote rows use UUIDs.
*/
package auth
