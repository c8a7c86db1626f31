//go:build integration

package testutil

import (
	"context"
	"time"
)

// CleanAll truncates all tables in reverse-dependency order.
func (env *TestEnv) CleanAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		"login_attempts",
		"event_outbox",
		"insurance_assignments",
		"commission_queue",
		"ledger_entries",
		"orders",
		"packages",
		"partners",
	}

	for _, table := range tables {
		_, _ = env.Pool.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
	}
}
