// ABOUTME: Path resolution and allow-list containment for host filesystem access
// ABOUTME: Rejects any path that canonicalizes outside the configured roots

package sandbox

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoRoots is returned when a Sandbox is constructed without any allowed roots.
var ErrNoRoots = errors.New("no allowed roots configured")

// PathDeniedError reports a path that resolved outside every allowed root.
// It is safe to surface verbatim: the rejected path and the configured roots
// are exactly what the caller needs to self-diagnose.
type PathDeniedError struct {
	Path  string   // the rejected absolute path
	Roots []string // the configured allowed roots
}

func (e *PathDeniedError) Error() string {
	return fmt.Sprintf("path %q is outside the allowed roots %s", e.Path, strings.Join(e.Roots, ", "))
}

// Sandbox validates paths against an ordered allow-list of root directories.
// The roots are fixed at construction; a Sandbox is safe for concurrent use.
type Sandbox struct {
	roots  []string
	logger *slog.Logger
}

// New creates a Sandbox confined to the given roots. Each root is made
// absolute and cleaned; at least one root is required.
func New(roots []string, logger *slog.Logger) (*Sandbox, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	if logger == nil {
		logger = slog.Default()
	}

	cleaned := make([]string, 0, len(roots))
	for _, root := range roots {
		expanded, err := expandHome(root)
		if err != nil {
			return nil, fmt.Errorf("expanding root %q: %w", root, err)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return nil, fmt.Errorf("resolving root %q: %w", root, err)
		}
		cleaned = append(cleaned, filepath.Clean(abs))
	}

	return &Sandbox{
		roots:  cleaned,
		logger: logger.With("component", "sandbox"),
	}, nil
}

// Roots returns a copy of the configured allowed roots.
func (s *Sandbox) Roots() []string {
	out := make([]string, len(s.roots))
	copy(out, s.roots)
	return out
}

// Resolve canonicalizes input against base (default: process working
// directory) and verifies the result lies under one of the allowed roots.
// Returns a *PathDeniedError when it does not. Resolution is lexical:
// ".." elements are collapsed before the containment check, symlinks are
// not followed.
func (s *Sandbox) Resolve(input, base string) (string, error) {
	expanded, err := expandHome(input)
	if err != nil {
		return "", fmt.Errorf("expanding path %q: %w", input, err)
	}

	var abs string
	if filepath.IsAbs(expanded) {
		abs = filepath.Clean(expanded)
	} else {
		if base == "" {
			base, err = os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determining working directory: %w", err)
			}
		}
		abs = filepath.Clean(filepath.Join(base, expanded))
	}

	for _, root := range s.roots {
		if within(root, abs) {
			return abs, nil
		}
	}

	s.logger.Debug("path denied", "path", abs)
	return "", &PathDeniedError{Path: abs, Roots: s.Roots()}
}

// IsDirectory reports whether path names an existing directory. Any stat
// error reads as false.
func (s *Sandbox) IsDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path names an existing regular file. Any stat
// error reads as false.
func (s *Sandbox) IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// within reports whether path equals root or is a descendant of it,
// comparing on directory boundaries rather than raw string prefixes.
func within(root, path string) bool {
	if path == root {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// expandHome replaces a leading "~/" (or a bare "~") with the user's home
// directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
