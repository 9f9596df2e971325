// ABOUTME: TOML policy files extend the built-in danger pattern set
// ABOUTME: Loaded once at startup; the guard itself never re-reads policy

package safety

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// policyFile is the on-disk shape of a danger-pattern policy.
//
//	[[pattern]]
//	expr = "shutdown\\s+-h"
//	description = "host shutdown"
type policyFile struct {
	Patterns []policyPattern `toml:"pattern"`
}

type policyPattern struct {
	Expr        string `toml:"expr"`
	Description string `toml:"description"`
}

// LoadPolicy reads a TOML policy file and returns its compiled patterns in
// file order.
func LoadPolicy(path string) ([]Pattern, error) {
	var pf policyFile
	if _, err := toml.DecodeFile(path, &pf); err != nil {
		return nil, fmt.Errorf("reading policy file: %w", err)
	}

	patterns := make([]Pattern, 0, len(pf.Patterns))
	for _, pp := range pf.Patterns {
		if pp.Expr == "" {
			return nil, fmt.Errorf("policy file %s: pattern with empty expr", path)
		}
		p, err := CompilePattern(pp.Expr, pp.Description)
		if err != nil {
			return nil, fmt.Errorf("policy file %s: %w", path, err)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// LoadPatterns returns the built-in patterns, extended by the policy file at
// path when one is configured. Policy patterns are evaluated after the
// built-ins.
func LoadPatterns(path string) ([]Pattern, error) {
	patterns := DefaultPatterns()
	if path == "" {
		return patterns, nil
	}
	extra, err := LoadPolicy(path)
	if err != nil {
		return nil, err
	}
	return append(patterns, extra...), nil
}
