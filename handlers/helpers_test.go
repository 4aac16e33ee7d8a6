// Copyright (c) 2025 Tsukkomi Project.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"testing"

	"github.com/tsukkomi/tsukkomi/cliparse"
	"github.com/tsukkomi/tsukkomi/ratelimit"
	"github.com/tsukkomi/tsukkomi/testutil"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return testutil.SetupTestDB(t)
}

func getTestConfig() cliparse.Config {
	return testutil.GetTestConfig()
}

// newTestLimiter returns a limiter with the given burst capacity and
// effectively no refill, so tests control token consumption exactly.
func newTestLimiter(capacity float64) *ratelimit.Limiter {
	return ratelimit.New(capacity, 0.0001, ratelimit.NewMemoryStore())
}
