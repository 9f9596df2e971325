// ABOUTME: Adapter that records SafeExec results into the audit store
// ABOUTME: Advisory only; a failed insert is logged, never surfaced

package store

import (
	"context"
	"log/slog"

	"github.com/2389/coven-hostpack/internal/executor"
)

// ExecutionAuditor implements executor.Auditor on top of a Store.
type ExecutionAuditor struct {
	store  Store
	logger *slog.Logger
}

// NewExecutionAuditor wraps s as an executor.Auditor.
func NewExecutionAuditor(s Store, logger *slog.Logger) *ExecutionAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecutionAuditor{
		store:  s,
		logger: logger.With("component", "auditor"),
	}
}

// RecordExecution persists rec. Failures are logged and swallowed so
// auditing never blocks or fails an execution.
func (a *ExecutionAuditor) RecordExecution(ctx context.Context, rec executor.Record) {
	err := a.store.AppendExecution(ctx, &ExecutionRecord{
		Command:   rec.Command,
		WorkDir:   rec.WorkDir,
		ExitCode:  rec.ExitCode,
		Blocked:   rec.Blocked,
		DryRun:    rec.DryRun,
		TimedOut:  rec.TimedOut,
		Truncated: rec.Truncated,
		Duration:  rec.Duration,
	})
	if err != nil {
		a.logger.Error("recording execution failed", "error", err)
	}
}

var _ executor.Auditor = (*ExecutionAuditor)(nil)
