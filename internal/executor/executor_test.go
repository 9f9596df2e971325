// ABOUTME: Tests for bounded subprocess execution
// ABOUTME: Covers exit codes, timeouts, dry runs, working directories, spawn failure

package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRun_Success(t *testing.T) {
	e := NewExecutor(nil)

	res, err := e.Run(context.Background(), Request{Command: "echo hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stdout != "hi\n" {
		t.Errorf("stdout = %q", res.Stdout)
	}
	if res.ExitCode != 0 || res.TimedOut || res.Truncated {
		t.Errorf("unexpected result flags: %+v", res)
	}
}

func TestRun_NonZeroExitIsAResult(t *testing.T) {
	e := NewExecutor(nil)

	res, err := e.Run(context.Background(), Request{Command: "exit 3"})
	if err != nil {
		t.Fatalf("non-zero exit should not be an error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("exit code = %d, want 3", res.ExitCode)
	}
}

func TestRun_StderrCaptured(t *testing.T) {
	e := NewExecutor(nil)

	res, err := e.Run(context.Background(), Request{Command: "echo oops >&2; exit 1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stderr != "oops\n" {
		t.Errorf("stderr = %q", res.Stderr)
	}
	if res.ExitCode != 1 {
		t.Errorf("exit code = %d", res.ExitCode)
	}
}

func TestRun_WorkingDirectory(t *testing.T) {
	e := NewExecutor(nil)
	dir := t.TempDir()

	res, err := e.Run(context.Background(), Request{Command: "pwd", WorkDir: dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Compare resolved forms; the temp dir may sit behind a symlink.
	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(res.Stdout))
	if got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
	if res.WorkDir != dir {
		t.Errorf("WorkDir = %q, want %q", res.WorkDir, dir)
	}
}

func TestRun_DefaultsToProcessCwd(t *testing.T) {
	e := NewExecutor(nil)

	res, err := e.Run(context.Background(), Request{Command: "true"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cwd, _ := os.Getwd()
	if res.WorkDir != cwd {
		t.Errorf("WorkDir = %q, want process cwd %q", res.WorkDir, cwd)
	}
}

func TestRun_DryRun(t *testing.T) {
	e := NewExecutor(nil)
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")

	res, err := e.Run(context.Background(), Request{
		Command: "touch " + marker,
		WorkDir: dir,
		DryRun:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 || res.Stdout != "" || res.Stderr != "" {
		t.Errorf("dry run result should be empty with exit 0: %+v", res)
	}
	if !strings.Contains(res.Warning, "touch "+marker) || !strings.Contains(res.Warning, dir) {
		t.Errorf("warning should describe what would run and where: %q", res.Warning)
	}
	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Error("dry run must not spawn a process")
	}
}

func TestRun_Timeout(t *testing.T) {
	e := NewExecutor(nil)

	start := time.Now()
	res, err := e.Run(context.Background(), Request{
		Command: "sleep 30",
		Timeout: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("timeout should not be an error: %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false")
	}
	if res.ExitCode != 0 {
		t.Errorf("exit code should stay at its default on timeout, got %d", res.ExitCode)
	}
	if !strings.Contains(res.Stderr, "timed out") {
		t.Errorf("stderr should carry the synthetic timeout note: %q", res.Stderr)
	}
	if elapsed > 5*time.Second {
		t.Errorf("run took %s, the process was not terminated promptly", elapsed)
	}
}

func TestRun_TimeoutKillsProcessTree(t *testing.T) {
	e := NewExecutor(nil)

	// A backgrounded child outlives a signal aimed at the shell alone and
	// keeps the output pipes open, so Run must kill the whole group.
	start := time.Now()
	res, err := e.Run(context.Background(), Request{
		Command: "sleep 30 & sleep 30",
		Timeout: 200 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("timeout should not be an error: %v", err)
	}
	if !res.TimedOut {
		t.Error("TimedOut = false")
	}
	if elapsed > 5*time.Second {
		t.Errorf("run took %s, backgrounded children were not terminated", elapsed)
	}
}

func TestRun_Truncation(t *testing.T) {
	e := NewExecutor(nil)
	const max = 100

	res, err := e.Run(context.Background(), Request{
		Command:   fmt.Sprintf("printf '%s'", strings.Repeat("a", 1000)),
		MaxOutput: max,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Truncated {
		t.Fatal("Truncated = false")
	}
	if !strings.Contains(res.Stdout, TruncationMarker) {
		t.Error("stdout should contain the truncation marker")
	}
	if want := max + len(TruncationMarker); len(res.Stdout) != want {
		t.Errorf("stdout length = %d, want %d", len(res.Stdout), want)
	}
	if !strings.HasPrefix(res.Stdout, strings.Repeat("a", max/2)) {
		t.Error("head of the output should survive truncation")
	}
	if !strings.HasSuffix(res.Stdout, strings.Repeat("a", max/2)) {
		t.Error("tail of the output should survive truncation")
	}
}

func TestRun_SpawnFailure(t *testing.T) {
	e := NewExecutor(nil)

	_, err := e.Run(context.Background(), Request{
		Command: "true",
		WorkDir: filepath.Join(t.TempDir(), "does-not-exist"),
	})
	if err == nil {
		t.Fatal("expected a hard failure when the command cannot be attempted")
	}
}

func TestRun_EmptyCommand(t *testing.T) {
	e := NewExecutor(nil)

	if _, err := e.Run(context.Background(), Request{}); err == nil {
		t.Fatal("expected error for empty command")
	}
}
