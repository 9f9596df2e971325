// ABOUTME: Configuration loading and parsing for coven-hostpack
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete hostpack configuration
type Config struct {
	Sandbox  SandboxConfig  `yaml:"sandbox"`
	Safety   SafetyConfig   `yaml:"safety"`
	Executor ExecutorConfig `yaml:"executor"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SandboxConfig holds the path confinement allow-list
type SandboxConfig struct {
	// Roots are the directories filesystem and command operations are
	// confined to. When empty, HOSTPACK_ROOTS (path-list separated) is
	// consulted, then the user's home directory.
	Roots []string `yaml:"roots"`
}

// SafetyConfig holds the danger-pattern policy location
type SafetyConfig struct {
	// PolicyPath points at a TOML file of additional danger patterns.
	// Empty means built-in patterns only.
	PolicyPath string `yaml:"policy_path"`
}

// ExecutorConfig holds command execution bounds
type ExecutorConfig struct {
	Timeout   time.Duration `yaml:"-"`
	MaxOutput int           `yaml:"max_output"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// DatabaseConfig holds the execution audit database location
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.applyRootDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration usable without any config file: roots from
// HOSTPACK_ROOTS or the user's home directory, built-in safety patterns, and
// the stock execution bounds.
func Default() (*Config, error) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	if err := cfg.applyRootDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// expandPaths tilde-expands the path fields users write by hand, so the
// documented "~/..." forms resolve to real locations.
func (c *Config) expandPaths() error {
	var err error
	if c.Safety.PolicyPath, err = expandTilde(c.Safety.PolicyPath); err != nil {
		return err
	}
	if c.Database.Path, err = expandTilde(c.Database.Path); err != nil {
		return err
	}
	return nil
}

// expandTilde replaces a leading "~" or "~/" with the user's home directory.
// Other paths pass through unchanged.
func expandTilde(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// applyRootDefaults fills in sandbox roots from the HOSTPACK_ROOTS
// environment variable or the user's home directory when the config names
// none. Roots are fixed for the life of the process once loaded.
func (c *Config) applyRootDefaults() error {
	if len(c.Sandbox.Roots) > 0 {
		return nil
	}

	if env := os.Getenv("HOSTPACK_ROOTS"); env != "" {
		c.Sandbox.Roots = filepath.SplitList(env)
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("determining default sandbox root: %w", err)
	}
	c.Sandbox.Roots = []string{home}
	return nil
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if len(c.Sandbox.Roots) == 0 {
		return fmt.Errorf("sandbox.roots is required")
	}
	for _, root := range c.Sandbox.Roots {
		if root == "" {
			return fmt.Errorf("sandbox.roots contains an empty entry")
		}
	}

	if c.Executor.Timeout < 0 {
		return fmt.Errorf("executor.timeout must not be negative")
	}
	if c.Executor.MaxOutput < 0 {
		return fmt.Errorf("executor.max_output must not be negative")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Executor.TimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.Executor.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing executor.timeout %q: %w", cfg.Executor.TimeoutRaw, err)
		}
		cfg.Executor.Timeout = d
	}
	return nil
}
