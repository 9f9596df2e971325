// ABOUTME: Bounded-depth discovery of marker directories (e.g. repository roots)
// ABOUTME: Depth-first walk that prunes at the first marker and skips dot-dirs

package sandbox

import (
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// MarkerDirs returns a lazy sequence of directories under root that directly
// contain an entry named marker. root should be a path previously accepted
// by Resolve.
//
// The walk is depth-first. A directory that contains the marker is yielded
// and not descended into, so nested repositories are not reported.
// Directories whose name begins with a dot are skipped entirely, which keeps
// the walk out of .git internals and the like. Unreadable directories are
// skipped rather than aborting the search. maxDepth bounds recursion depth
// inclusive of root: maxDepth 1 inspects root alone.
func (s *Sandbox) MarkerDirs(root, marker string, maxDepth int) iter.Seq[string] {
	return func(yield func(string) bool) {
		s.walkMarkers(root, marker, maxDepth, yield)
	}
}

// walkMarkers reports false when the consumer stopped the iteration.
func (s *Sandbox) walkMarkers(dir, marker string, depth int, yield func(string) bool) bool {
	if depth <= 0 {
		return true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable subtree: skip it, keep searching elsewhere.
		return true
	}

	for _, entry := range entries {
		if entry.Name() == marker {
			return yield(dir)
		}
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !s.walkMarkers(filepath.Join(dir, entry.Name()), marker, depth-1, yield) {
			return false
		}
	}
	return true
}
