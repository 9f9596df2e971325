// ABOUTME: SafeExec facade composing the safety guard with the executor
// ABOUTME: The single entry point through which every tool runs a command

package executor

import (
	"context"
	"log/slog"
	"time"

	"github.com/2389/coven-hostpack/internal/safety"
)

// Record summarizes one Execute call for auditing.
type Record struct {
	Command   string
	WorkDir   string
	ExitCode  int
	Blocked   bool
	DryRun    bool
	TimedOut  bool
	Truncated bool
	Duration  time.Duration
}

// Auditor receives a Record after every Execute call. Implementations must
// not block the caller on failure; auditing is advisory.
type Auditor interface {
	RecordExecution(ctx context.Context, rec Record)
}

// SafeExec is the facade all tool handlers use to run commands. The guard
// is consulted before anything else, including the dry-run check, so a
// dangerous command cannot even be previewed.
type SafeExec struct {
	guard   *safety.Guard
	runner  *Executor
	auditor Auditor // optional
	logger  *slog.Logger
}

// NewSafeExec composes guard and runner into a SafeExec.
func NewSafeExec(guard *safety.Guard, runner *Executor, logger *slog.Logger) *SafeExec {
	if logger == nil {
		logger = slog.Default()
	}
	return &SafeExec{
		guard:  guard,
		runner: runner,
		logger: logger.With("component", "safeexec"),
	}
}

// WithAuditor attaches an execution auditor and returns the same SafeExec.
func (s *SafeExec) WithAuditor(a Auditor) *SafeExec {
	s.auditor = a
	return s
}

// Execute runs req through the guard and, when clean, the executor. A
// guard violation short-circuits into a Result with exit code -1, empty
// streams and the violation's description as the warning; no process is
// spawned in that case, dry-run or not.
func (s *SafeExec) Execute(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	if v := s.guard.Check(req.Command); v != nil {
		res := &Result{
			ExitCode: -1,
			WorkDir:  req.WorkDir,
			Warning:  "command blocked: " + v.Description,
		}
		s.audit(ctx, req, res, true, start)
		return res, nil
	}

	res, err := s.runner.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, req, res, false, start)
	return res, nil
}

func (s *SafeExec) audit(ctx context.Context, req Request, res *Result, blocked bool, start time.Time) {
	if s.auditor == nil {
		return
	}
	s.auditor.RecordExecution(ctx, Record{
		Command:   req.Command,
		WorkDir:   res.WorkDir,
		ExitCode:  res.ExitCode,
		Blocked:   blocked,
		DryRun:    req.DryRun && !blocked,
		TimedOut:  res.TimedOut,
		Truncated: res.Truncated,
		Duration:  time.Since(start),
	})
}
