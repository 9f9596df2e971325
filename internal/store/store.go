// ABOUTME: Store interface and data types for the execution audit log
// ABOUTME: Defines ExecutionRecord and the Store interface for persistence

package store

import (
	"context"
	"time"
)

// ExecutionRecord represents one SafeExec call, blocked or not.
type ExecutionRecord struct {
	ID        string // UUID v4
	Command   string
	WorkDir   string
	ExitCode  int
	Blocked   bool // guard violation, nothing spawned
	DryRun    bool
	TimedOut  bool
	Truncated bool
	Duration  time.Duration
	Timestamp time.Time
}

// ExecutionFilter specifies filtering options for listing execution records.
type ExecutionFilter struct {
	Since   *time.Time // records after this time
	Until   *time.Time // records before this time
	Blocked *bool      // filter by blocked flag
	Limit   int        // max results (default 100, max 1000)
}

// Store is the persistence interface for the execution audit log.
type Store interface {
	AppendExecution(ctx context.Context, rec *ExecutionRecord) error
	ListExecutions(ctx context.Context, filter ExecutionFilter) ([]*ExecutionRecord, error)
	Close() error
}
