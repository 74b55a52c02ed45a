// Package migrate serializes schema migrations for an engine that has no
// server-side advisory lock, and applies versioned migrations tracked
// through PRAGMA user_version.
//
// The generic lock-then-migrate protocol cannot be honored literally on
// SQLite. Instead, the guard inspects configured pool capacity once per
// run: a single-connection pool is rejected outright (it signals a caller
// expecting multi-connection locking with a misconfigured pool), and a
// larger pool runs migrations with the lock clause disabled, relying on
// an externally serialized single migrator. The guard provides no
// cross-process exclusion itself.
package migrate

import (
	"errors"
	"fmt"
)

// LockMode is the locking strategy for one migration run, fixed before
// the run starts and immutable for its duration.
type LockMode int

const (
	// LockModeMultiConn disables the generic lock clause and runs
	// migrations unlocked; chosen for pool capacity >= 2.
	LockModeMultiConn LockMode = iota
	// LockModeSingleConnFallback would funnel everything through one
	// connection. Never auto-selected: capacity 1 is rejected instead.
	LockModeSingleConnFallback
)

// State tracks a guard through one migration run.
type State int

const (
	StateNotStarted State = iota
	StateRejected
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRejected:
		return "rejected"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// LockError indicates the configured pool cannot support the migration
// locking protocol.
type LockError struct {
	PoolSize int
}

// Error implements the error interface.
func (e *LockError) Error() string {
	return fmt.Sprintf("migration locking needs pool capacity >= 2, got %d; raise pool_size", e.PoolSize)
}

// IsLockError reports whether err is a migration lock rejection.
// Uses errors.As to handle wrapped errors.
func IsLockError(err error) bool {
	var le *LockError
	return errors.As(err, &le)
}

// PoolConfig is the slice of pool configuration the guard inspects.
// Size 0 means the caller left capacity at the toolkit default, which is
// always greater than one.
type PoolConfig struct {
	Size int
}

// Guard wraps one migration run with the capacity-derived lock policy.
// A Guard is single-use; its state advances NotStarted through Rejected,
// or Running to Completed/Failed.
type Guard struct {
	pool  PoolConfig
	mode  LockMode
	state State
}

// NewGuard creates a guard for a run against the given pool.
func NewGuard(pool PoolConfig) *Guard {
	mode := LockModeMultiConn
	if pool.Size == 1 {
		mode = LockModeSingleConnFallback
	}
	return &Guard{pool: pool, mode: mode}
}

// Mode returns the lock mode chosen for this run.
func (g *Guard) Mode() LockMode { return g.mode }

// State returns the guard's current run state.
func (g *Guard) State() State { return g.state }

// Run evaluates the lock policy and, if admitted, invokes fn unlocked
// and forwards its result. A pool of capacity 1 is rejected before fn is
// ever invoked; the misconfiguration is never auto-corrected.
//
// A Guard covers exactly one run; calling Run again after it has left
// StateNotStarted is an error and does not invoke fn.
func (g *Guard) Run(fn func() error) error {
	if g.state != StateNotStarted {
		return fmt.Errorf("migration guard already %s; use a new guard per run", g.state)
	}
	if g.mode == LockModeSingleConnFallback {
		g.state = StateRejected
		return &LockError{PoolSize: g.pool.Size}
	}

	g.state = StateRunning
	if err := fn(); err != nil {
		g.state = StateFailed
		return err
	}
	g.state = StateCompleted
	return nil
}

// LockForMigrations wraps the toolkit's migration callback with the
// capacity-derived lock policy for a single run.
func LockForMigrations(pool PoolConfig, fn func() error) error {
	return NewGuard(pool).Run(fn)
}
