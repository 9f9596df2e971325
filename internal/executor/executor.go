// ABOUTME: Bounded subprocess execution: shell spawn, timeout, output capture
// ABOUTME: Subprocess failure is a Result; only failure to spawn is an error

package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// Defaults applied when a Request leaves the corresponding field unset.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultMaxOutput = 10000
)

// waitDelay bounds how long Run waits for the output pipes to close after
// the process group has been signalled.
const waitDelay = time.Second

// Request describes a single command execution. The zero value of the
// optional fields selects the defaults.
type Request struct {
	Command   string        // shell command line, required
	WorkDir   string        // working directory, default: process cwd
	Timeout   time.Duration // wall-clock limit, default DefaultTimeout
	MaxOutput int           // per-stream character cap, default DefaultMaxOutput
	DryRun    bool          // report what would run without spawning
}

// Result is the outcome of one execution. It is returned for non-zero
// exits, signals and timeouts alike; see the package comment.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	TimedOut  bool
	WorkDir   string // working directory actually used
	Truncated bool   // true when either stream was cut
	Warning   string // set for dry runs and blocked commands
}

// Executor spawns shell commands with bounded output. Safe for concurrent
// use; each Run owns at most one child process.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an Executor.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{logger: logger.With("component", "executor")}
}

// Run executes req.Command via the shell and waits for completion or
// timeout. Dry runs return immediately without spawning. The returned error
// is non-nil only when the command could not be attempted.
func (e *Executor) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Command == "" {
		return nil, errors.New("command is required")
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxOutput := req.MaxOutput
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	workDir := req.WorkDir
	if workDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("determining working directory: %w", err)
		}
		workDir = cwd
	}

	if req.DryRun {
		return &Result{
			WorkDir: workDir,
			Warning: fmt.Sprintf("dry run: would execute %q in %s (timeout %s)", req.Command, workDir, timeout),
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", req.Command)
	cmd.Dir = workDir

	// The shell gets its own process group and the whole group is killed on
	// timeout. Signalling only the direct child would leave backgrounded
	// grandchildren holding the output pipes, and Run would block on them
	// until they exit on their own.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = waitDelay

	// Cap capture at roughly double the logical limit so a runaway command
	// bounds memory before truncation runs.
	stdout := newCappedBuffer(2 * maxOutput)
	stderr := newCappedBuffer(2 * maxOutput)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()

	res := &Result{WorkDir: workDir}
	switch {
	case err == nil:
		// exit 0
	case ctx.Err() == context.DeadlineExceeded:
		// The process group is already killed via Cancel; exit code stays
		// at its default rather than being fabricated.
		res.TimedOut = true
		e.logger.Warn("command timed out", "command", req.Command, "timeout", timeout)
	case errors.Is(err, exec.ErrWaitDelay):
		// The command itself exited but an orphaned descendant kept the
		// output pipes open past the grace period.
		res.ExitCode = cmd.ProcessState.ExitCode()
	default:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("spawning command: %w", err)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	var cut bool
	res.Stdout, cut = truncateMiddle(stdout.String(), maxOutput)
	res.Truncated = res.Truncated || cut
	res.Stderr, cut = truncateMiddle(stderr.String(), maxOutput)
	res.Truncated = res.Truncated || cut

	if res.TimedOut {
		note := fmt.Sprintf("command timed out after %s", timeout)
		if res.Stderr != "" {
			res.Stderr += "\n"
		}
		res.Stderr += note
	}

	e.logger.Debug("command finished",
		"command", req.Command,
		"exit_code", res.ExitCode,
		"timed_out", res.TimedOut,
		"duration", time.Since(start),
	)
	return res, nil
}
