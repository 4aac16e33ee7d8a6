// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides ID generation and hashing utilities.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving rate-limit keying of anonymous actors:

	key := auth.HashIP(ipAddress, salt)

Returns the first 8 bytes (16 hex chars) of HMAC-SHA256. The raw IP
never reaches the rate-limit store.
*/
package auth
