// ABOUTME: Deny-list guard evaluated over raw command strings before execution
// ABOUTME: First matching danger pattern blocks the command with a description

package safety

import (
	"fmt"
	"log/slog"
	"regexp"
)

// Pattern pairs a compiled regular expression with a human-readable
// description used in block messages.
type Pattern struct {
	re          *regexp.Regexp
	Description string
}

// CompilePattern compiles expr into a Pattern. An empty description falls
// back to the expression source so every pattern carries a label.
func CompilePattern(expr, description string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("compiling danger pattern %q: %w", expr, err)
	}
	if description == "" {
		description = expr
	}
	return Pattern{re: re, Description: description}, nil
}

// MustPattern is CompilePattern for static pattern tables; it panics on a
// bad expression.
func MustPattern(expr, description string) Pattern {
	p, err := CompilePattern(expr, description)
	if err != nil {
		panic(err)
	}
	return p
}

// Expr returns the pattern's regular-expression source.
func (p Pattern) Expr() string {
	return p.re.String()
}

// Violation describes why a command was blocked.
type Violation struct {
	Pattern     string // source of the matching expression
	Description string // human-readable label for the danger
}

// Guard evaluates commands against an ordered, immutable pattern list.
// Safe for concurrent use.
type Guard struct {
	patterns []Pattern
	logger   *slog.Logger
}

// NewGuard creates a Guard over the given patterns. Order determines which
// violation is reported when several patterns match; it does not change
// whether a command is blocked.
func NewGuard(patterns []Pattern, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		patterns: patterns,
		logger:   logger.With("component", "safety"),
	}
}

// Check evaluates command against every pattern and returns the first match
// as a Violation, or nil when the command is clean. Check never mutates
// state and spawns nothing.
func (g *Guard) Check(command string) *Violation {
	for _, p := range g.patterns {
		if p.re.MatchString(command) {
			g.logger.Warn("command blocked", "pattern", p.re.String(), "reason", p.Description)
			return &Violation{Pattern: p.re.String(), Description: p.Description}
		}
	}
	return nil
}
