// ABOUTME: Tests for the SafeExec-to-store audit adapter
// ABOUTME: Verifies record mapping and that failures stay advisory

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2389/coven-hostpack/internal/executor"
)

func TestExecutionAuditor_RecordsToStore(t *testing.T) {
	s := newTestStore(t)
	aud := NewExecutionAuditor(s, nil)
	ctx := context.Background()

	aud.RecordExecution(ctx, executor.Record{
		Command:  "rm -rf /",
		WorkDir:  "/tmp",
		ExitCode: -1,
		Blocked:  true,
		Duration: 3 * time.Millisecond,
	})

	records, err := s.ListExecutions(ctx, ExecutionFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Command != "rm -rf /" || !rec.Blocked || rec.ExitCode != -1 {
		t.Errorf("unexpected record: %+v", rec)
	}
}

// failingStore always errors on append.
type failingStore struct{ Store }

func (f *failingStore) AppendExecution(ctx context.Context, rec *ExecutionRecord) error {
	return errors.New("disk on fire")
}

func TestExecutionAuditor_SwallowsStoreFailure(t *testing.T) {
	aud := NewExecutionAuditor(&failingStore{}, nil)

	// Must not panic or propagate; auditing is advisory.
	aud.RecordExecution(context.Background(), executor.Record{Command: "echo hi"})
}
