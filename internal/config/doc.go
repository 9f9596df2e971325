// Package config handles configuration loading for coven-hostpack.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The package provides validation and sensible defaults; a
// hostpack runs without any config file at all.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from HOSTPACK_CONFIG environment variable
//  2. ~/.config/coven/hostpack.yaml (respecting XDG_CONFIG_HOME)
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	safety:
//	  policy_path: "${HOSTPACK_POLICY}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Sandbox roots (the path confinement allow-list):
//
//	sandbox:
//	  roots:
//	    - "~/dev"
//	    - "/tmp/scratch"
//
// When no roots are configured, the HOSTPACK_ROOTS environment variable
// (path-list separated) is consulted, then the user's home directory.
//
// Safety policy (extra danger patterns, TOML):
//
//	safety:
//	  policy_path: "~/.config/coven/danger.toml"
//
// Execution bounds:
//
//	executor:
//	  timeout: "10s"      # Go time.ParseDuration syntax
//	  max_output: 10000   # characters per stream
//
// Audit database:
//
//	database:
//	  path: "~/.local/share/coven/hostpack.db"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
