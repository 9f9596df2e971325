// ABOUTME: Tests for bounded-depth marker directory discovery
// ABOUTME: Covers pruning at the first marker, dot-dir skipping, and depth limits

package sandbox

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// mkdirs creates each path (relative to root) as a directory tree.
func mkdirs(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(filepath.Join(root, p), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func collectMarkers(sb *Sandbox, root, marker string, maxDepth int) []string {
	var out []string
	for dir := range sb.MarkerDirs(root, marker, maxDepth) {
		out = append(out, dir)
	}
	return out
}

func TestMarkerDirs_StopsAtFirstMarker(t *testing.T) {
	root := t.TempDir()
	sb := newTestSandbox(t, root)

	// a is a repository; a/sub is a nested repository and must not be
	// reported.
	mkdirs(t, root, "a/.git", "a/sub/.git", "b/c/.git")

	got := collectMarkers(sb, root, ".git", 10)
	want := []string{filepath.Join(root, "a"), filepath.Join(root, "b", "c")}
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Errorf("found %v, want %v", got, want)
	}
}

func TestMarkerDirs_RootItself(t *testing.T) {
	root := t.TempDir()
	sb := newTestSandbox(t, root)
	mkdirs(t, root, ".git", "a/.git")

	got := collectMarkers(sb, root, ".git", 10)
	if !slices.Equal(got, []string{root}) {
		t.Errorf("root containing the marker should be the only result, got %v", got)
	}
}

func TestMarkerDirs_SkipsDotDirectories(t *testing.T) {
	root := t.TempDir()
	sb := newTestSandbox(t, root)
	mkdirs(t, root, ".hidden/x/.git", "visible/.git")

	got := collectMarkers(sb, root, ".git", 10)
	if !slices.Equal(got, []string{filepath.Join(root, "visible")}) {
		t.Errorf("dot directories should not be descended into, got %v", got)
	}
}

func TestMarkerDirs_DepthBound(t *testing.T) {
	root := t.TempDir()
	sb := newTestSandbox(t, root)
	mkdirs(t, root, "a/b/.git")

	tests := []struct {
		maxDepth int
		want     int
	}{
		{0, 0},
		{1, 0}, // root only, no marker there
		{2, 0}, // a inspected, marker is one level deeper
		{3, 1},
	}
	for _, tt := range tests {
		if got := len(collectMarkers(sb, root, ".git", tt.maxDepth)); got != tt.want {
			t.Errorf("maxDepth %d: found %d, want %d", tt.maxDepth, got, tt.want)
		}
	}
}

func TestMarkerDirs_EarlyStop(t *testing.T) {
	root := t.TempDir()
	sb := newTestSandbox(t, root)
	mkdirs(t, root, "a/.git", "b/.git", "c/.git")

	count := 0
	for range sb.MarkerDirs(root, ".git", 5) {
		count++
		break
	}
	if count != 1 {
		t.Errorf("consumer break should stop the walk, yielded %d", count)
	}
}

func TestMarkerDirs_UnreadableSubtreeSkipped(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}

	root := t.TempDir()
	sb := newTestSandbox(t, root)
	mkdirs(t, root, "locked/x/.git", "open/.git")
	if err := os.Chmod(filepath.Join(root, "locked"), 0000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(filepath.Join(root, "locked"), 0755) })

	got := collectMarkers(sb, root, ".git", 10)
	if !slices.Equal(got, []string{filepath.Join(root, "open")}) {
		t.Errorf("unreadable subtree should be skipped silently, got %v", got)
	}
}
