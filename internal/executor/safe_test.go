// ABOUTME: Tests for the SafeExec facade ordering and auditing
// ABOUTME: Guard verdicts precede dry-run; blocked commands never spawn

package executor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389/coven-hostpack/internal/safety"
)

func newTestSafeExec(t *testing.T, patterns ...safety.Pattern) *SafeExec {
	t.Helper()
	return NewSafeExec(safety.NewGuard(patterns, nil), NewExecutor(nil), nil)
}

func TestExecute_CleanCommand(t *testing.T) {
	se := newTestSafeExec(t, safety.DefaultPatterns()...)

	res, err := se.Execute(context.Background(), Request{Command: "echo hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stdout != "hi\n" || res.ExitCode != 0 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestExecute_BlockedCommandNeverSpawns(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")
	se := newTestSafeExec(t, safety.MustPattern(`touch`, "touching files is forbidden"))

	for _, dryRun := range []bool{false, true} {
		res, err := se.Execute(context.Background(), Request{
			Command: "touch " + marker,
			DryRun:  dryRun,
		})
		if err != nil {
			t.Fatalf("blocked command should be a result, not an error: %v", err)
		}
		if res.ExitCode != -1 {
			t.Errorf("dryRun=%v: exit code = %d, want -1", dryRun, res.ExitCode)
		}
		if res.Stdout != "" || res.Stderr != "" {
			t.Errorf("dryRun=%v: blocked result should have empty streams", dryRun)
		}
		if !strings.Contains(res.Warning, "touching files is forbidden") {
			t.Errorf("dryRun=%v: warning = %q", dryRun, res.Warning)
		}
	}

	if _, err := os.Stat(marker); !os.IsNotExist(err) {
		t.Fatal("blocked command spawned a process")
	}
}

func TestExecute_CanonicalBlockScenario(t *testing.T) {
	se := newTestSafeExec(t, safety.DefaultPatterns()...)

	res, err := se.Execute(context.Background(), Request{Command: "rm -rf /"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != -1 || res.Warning == "" {
		t.Errorf("got exit %d warning %q", res.ExitCode, res.Warning)
	}
}

func TestExecute_DryRunPreview(t *testing.T) {
	se := newTestSafeExec(t, safety.DefaultPatterns()...)

	res, err := se.Execute(context.Background(), Request{Command: "echo hi", DryRun: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExitCode != 0 || res.Stdout != "" {
		t.Errorf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Warning, "echo hi") {
		t.Errorf("warning should name the command: %q", res.Warning)
	}
}

// recordingAuditor captures Records for assertions.
type recordingAuditor struct {
	records []Record
}

func (r *recordingAuditor) RecordExecution(ctx context.Context, rec Record) {
	r.records = append(r.records, rec)
}

func TestExecute_Auditing(t *testing.T) {
	aud := &recordingAuditor{}
	se := newTestSafeExec(t, safety.DefaultPatterns()...).WithAuditor(aud)

	if _, err := se.Execute(context.Background(), Request{Command: "echo hi"}); err != nil {
		t.Fatal(err)
	}
	if _, err := se.Execute(context.Background(), Request{Command: "rm -rf /"}); err != nil {
		t.Fatal(err)
	}
	if _, err := se.Execute(context.Background(), Request{Command: "echo hi", DryRun: true}); err != nil {
		t.Fatal(err)
	}

	if len(aud.records) != 3 {
		t.Fatalf("expected 3 audit records, got %d", len(aud.records))
	}
	if aud.records[0].Blocked || aud.records[0].ExitCode != 0 {
		t.Errorf("first record: %+v", aud.records[0])
	}
	if !aud.records[1].Blocked || aud.records[1].ExitCode != -1 {
		t.Errorf("second record should be blocked: %+v", aud.records[1])
	}
	if !aud.records[2].DryRun {
		t.Errorf("third record should be a dry run: %+v", aud.records[2])
	}
}
