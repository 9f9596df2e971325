// ABOUTME: Entry point for the coven-hostpack CLI
// ABOUTME: Runs confined commands and path checks against the host sandbox

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/coven-hostpack/internal/config"
	"github.com/2389/coven-hostpack/internal/executor"
	"github.com/2389/coven-hostpack/internal/safety"
	"github.com/2389/coven-hostpack/internal/sandbox"
	"github.com/2389/coven-hostpack/internal/store"
	"github.com/2389/coven-hostpack/internal/tools"
)

// Version is set by goreleaser at build time.
var version = "dev"

// getConfigPath returns the path to the hostpack config file.
// Priority: HOSTPACK_CONFIG env var > XDG_CONFIG_HOME/coven/hostpack.yaml > ~/.config/coven/hostpack.yaml
func getConfigPath() string {
	if envPath := os.Getenv("HOSTPACK_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "hostpack.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "coven", "hostpack.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: coven-hostpack <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  run [flags] -- <command>   Run a command through the sandbox")
		fmt.Println("  check <command>            Show the safety guard verdict for a command")
		fmt.Println("  resolve <path>             Show the sandbox verdict for a path")
		fmt.Println("  repos [flags] <dir>        Locate repositories under a directory")
		fmt.Println("  tools                      List the host capability tools")
		fmt.Println("  audit [flags]              Show the execution audit log")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "run":
		err = runRun(ctx, os.Args[2:])
	case "check":
		err = runCheck(os.Args[2:])
	case "resolve":
		err = runResolve(os.Args[2:])
	case "repos":
		err = runRepos(os.Args[2:])
	case "tools":
		err = runTools()
	case "audit":
		err = runAudit(ctx, os.Args[2:])
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file when present and falls back to defaults
// otherwise, so the CLI works on an unconfigured host.
func loadConfig() (*config.Config, error) {
	path := getConfigPath()
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return config.Default()
	}
	return nil, err
}

// buildCore constructs the sandbox, guard and SafeExec facade from cfg.
func buildCore(cfg *config.Config, logger *slog.Logger) (*sandbox.Sandbox, *executor.SafeExec, error) {
	sb, err := sandbox.New(cfg.Sandbox.Roots, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("creating sandbox: %w", err)
	}

	patterns, err := safety.LoadPatterns(cfg.Safety.PolicyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading safety patterns: %w", err)
	}
	guard := safety.NewGuard(patterns, logger)

	se := executor.NewSafeExec(guard, executor.NewExecutor(logger), logger)
	return sb, se, nil
}

// openAuditStore opens the audit database when one is configured.
func openAuditStore(cfg *config.Config) (store.Store, error) {
	if cfg.Database.Path == "" {
		return nil, nil
	}
	return store.NewSQLiteStore(cfg.Database.Path)
}

// commandFromArgs joins the remaining positional arguments into a single
// shell command line, so `run -- git status` works without extra quoting.
func commandFromArgs(args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("command is required")
	}
	return strings.Join(args, " "), nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	workDir := fs.String("dir", "", "working directory (must be inside the sandbox)")
	timeout := fs.Duration("timeout", 0, "wall-clock limit (default from config)")
	maxOutput := fs.Int("max-output", 0, "per-stream output cap in characters")
	dryRun := fs.Bool("dry-run", false, "report what would run without executing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	command, err := commandFromArgs(fs.Args())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging)

	sb, se, err := buildCore(cfg, logger)
	if err != nil {
		return err
	}

	auditStore, err := openAuditStore(cfg)
	if err != nil {
		return fmt.Errorf("opening audit store: %w", err)
	}
	if auditStore != nil {
		defer auditStore.Close()
		se.WithAuditor(store.NewExecutionAuditor(auditStore, logger))
	}

	resolvedDir := ""
	if *workDir != "" {
		resolvedDir, err = sb.Resolve(*workDir, "")
		if err != nil {
			return err
		}
	}

	reqTimeout := *timeout
	if reqTimeout == 0 {
		reqTimeout = cfg.Executor.Timeout
	}
	reqMaxOutput := *maxOutput
	if reqMaxOutput == 0 {
		reqMaxOutput = cfg.Executor.MaxOutput
	}

	res, err := se.Execute(ctx, executor.Request{
		Command:   command,
		WorkDir:   resolvedDir,
		Timeout:   reqTimeout,
		MaxOutput: reqMaxOutput,
		DryRun:    *dryRun,
	})
	if err != nil {
		return err
	}

	if res.Warning != "" {
		color.New(color.FgYellow).Fprintln(os.Stderr, res.Warning)
	}
	fmt.Print(res.Stdout)
	fmt.Fprint(os.Stderr, res.Stderr)

	if res.ExitCode != 0 {
		os.Exit(res.ExitCode & 0xff)
	}
	return nil
}

func runCheck(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("check: command is required")
	}
	command := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	patterns, err := safety.LoadPatterns(cfg.Safety.PolicyPath)
	if err != nil {
		return err
	}
	guard := safety.NewGuard(patterns, setupLogger(cfg.Logging))

	if v := guard.Check(command); v != nil {
		color.New(color.FgRed, color.Bold).Print("blocked ")
		fmt.Printf("%s\n", v.Description)
		os.Exit(1)
	}
	color.New(color.FgGreen).Print("allowed ")
	fmt.Println(command)
	return nil
}

func runResolve(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("resolve: path is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sb, err := sandbox.New(cfg.Sandbox.Roots, setupLogger(cfg.Logging))
	if err != nil {
		return err
	}

	resolved, err := sb.Resolve(args[0], "")
	if err != nil {
		var denied *sandbox.PathDeniedError
		if errors.As(err, &denied) {
			color.New(color.FgRed, color.Bold).Print("denied ")
			fmt.Println(denied.Error())
			os.Exit(1)
		}
		return err
	}
	color.New(color.FgGreen).Print("allowed ")
	fmt.Println(resolved)
	return nil
}

func runRepos(args []string) error {
	fs := flag.NewFlagSet("repos", flag.ExitOnError)
	maxDepth := fs.Int("max-depth", 5, "directory depth to search, inclusive of the root")
	marker := fs.String("marker", ".git", "marker entry that identifies a repository")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("repos: directory is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sb, err := sandbox.New(cfg.Sandbox.Roots, setupLogger(cfg.Logging))
	if err != nil {
		return err
	}

	root, err := sb.Resolve(fs.Arg(0), "")
	if err != nil {
		return err
	}

	count := 0
	for dir := range sb.MarkerDirs(root, *marker, *maxDepth) {
		fmt.Println(dir)
		count++
	}
	color.New(color.FgHiBlack).Printf("%d repositories\n", count)
	return nil
}

func runTools() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg.Logging)

	sb, se, err := buildCore(cfg, logger)
	if err != nil {
		return err
	}

	registry := tools.NewRegistry(logger)
	if err := registry.Register(tools.HostTools(sb, se)...); err != nil {
		return err
	}

	cyan := color.New(color.FgCyan)
	for _, t := range registry.List() {
		cyan.Printf("%-12s", t.Name)
		fmt.Printf(" %s\n", t.Description)
	}
	return nil
}

func runAudit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	limit := fs.Int("limit", 20, "maximum records to show")
	blockedOnly := fs.Bool("blocked", false, "show only blocked commands")
	jsonOut := fs.Bool("json", false, "emit JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.Path == "" {
		return fmt.Errorf("audit: database.path is not configured")
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer s.Close()

	filter := store.ExecutionFilter{Limit: *limit}
	if *blockedOnly {
		t := true
		filter.Blocked = &t
	}

	records, err := s.ListExecutions(ctx, filter)
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	red := color.New(color.FgRed)
	gray := color.New(color.FgHiBlack)
	for _, rec := range records {
		gray.Printf("%s ", rec.Timestamp.Local().Format(time.DateTime))
		switch {
		case rec.Blocked:
			red.Print("BLOCKED ")
		case rec.TimedOut:
			red.Print("TIMEOUT ")
		case rec.ExitCode != 0:
			fmt.Printf("exit %-3d", rec.ExitCode)
		default:
			fmt.Print("ok      ")
		}
		fmt.Printf(" %s\n", rec.Command)
	}
	gray.Printf("%d records\n", len(records))
	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
