package usecases

import (
	"context"
	"time"

	"github.com/fibrelink-inc/fibrelink/internal/domain/billing"
)

// Transactor runs a function inside a storage transaction so that the
// subscription write and its ledger append commit or roll back together.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NowFunc supplies the current time. Injected so sweeps and expiry
// comparisons stay deterministic under test.
type NowFunc func() time.Time

// PlanReader is the read-only slice of the plan catalog the engine
// consumes. Satisfied by the repository directly or by the cached
// read-through layer in front of it.
type PlanReader interface {
	FindBySID(ctx context.Context, sid string) (*billing.Plan, error)
}
