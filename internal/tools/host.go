// ABOUTME: Host capability tools: shell, filesystem and VCS discovery
// ABOUTME: Thin consumers of the sandbox and SafeExec interfaces

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/2389/coven-hostpack/internal/executor"
	"github.com/2389/coven-hostpack/internal/sandbox"
)

// defaultReadLimit bounds fs_read when the caller does not.
const defaultReadLimit = 64 * 1024

// HostTools returns the host capability tool set built on sb and se.
func HostTools(sb *sandbox.Sandbox, se *executor.SafeExec) []*Tool {
	h := &hostHandlers{sandbox: sb, exec: se}
	return []*Tool{
		{
			Name:        "shell_run",
			Description: "Run a shell command inside the sandbox",
			Handler:     h.ShellRun,
		},
		{
			Name:        "fs_list",
			Description: "List a directory inside the sandbox",
			Handler:     h.FSList,
		},
		{
			Name:        "fs_read",
			Description: "Read a file inside the sandbox",
			Handler:     h.FSRead,
		},
		{
			Name:        "vcs_repos",
			Description: "Locate version-controlled repositories under a directory",
			Handler:     h.VCSRepos,
		},
	}
}

type hostHandlers struct {
	sandbox *sandbox.Sandbox
	exec    *executor.SafeExec
}

type shellRunInput struct {
	Command        string  `json:"command"`
	WorkDir        string  `json:"work_dir"`
	TimeoutSeconds float64 `json:"timeout_seconds"`
	MaxOutput      int     `json:"max_output"`
	DryRun         bool    `json:"dry_run"`
}

func (h *hostHandlers) ShellRun(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in shellRunInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if in.Command == "" {
		return nil, fmt.Errorf("command is required")
	}

	workDir := ""
	if in.WorkDir != "" {
		resolved, err := h.sandbox.Resolve(in.WorkDir, "")
		if err != nil {
			return nil, err
		}
		workDir = resolved
	}

	res, err := h.exec.Execute(ctx, executor.Request{
		Command:   in.Command,
		WorkDir:   workDir,
		Timeout:   time.Duration(in.TimeoutSeconds * float64(time.Second)),
		MaxOutput: in.MaxOutput,
		DryRun:    in.DryRun,
	})
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]any{
		"stdout":    res.Stdout,
		"stderr":    res.Stderr,
		"exit_code": res.ExitCode,
		"timed_out": res.TimedOut,
		"work_dir":  res.WorkDir,
		"truncated": res.Truncated,
		"warning":   res.Warning,
	})
}

type fsListInput struct {
	Path string `json:"path"`
}

func (h *hostHandlers) FSList(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in fsListInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	path, err := h.sandbox.Resolve(in.Path, "")
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("listing directory: %w", err)
	}

	listing := make([]map[string]any, len(entries))
	for i, entry := range entries {
		listing[i] = map[string]any{
			"name": entry.Name(),
			"dir":  entry.IsDir(),
		}
	}

	return json.Marshal(map[string]any{
		"path":    path,
		"entries": listing,
		"count":   len(listing),
	})
}

type fsReadInput struct {
	Path     string `json:"path"`
	MaxBytes int    `json:"max_bytes"`
}

func (h *hostHandlers) FSRead(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in fsReadInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	path, err := h.sandbox.Resolve(in.Path, "")
	if err != nil {
		return nil, err
	}
	if !h.sandbox.IsFile(path) {
		return nil, fmt.Errorf("not a readable file: %s", path)
	}

	limit := in.MaxBytes
	if limit <= 0 {
		limit = defaultReadLimit
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	truncated := false
	if len(data) > limit {
		data = data[:limit]
		truncated = true
	}

	return json.Marshal(map[string]any{
		"path":      path,
		"content":   string(data),
		"truncated": truncated,
	})
}

type vcsReposInput struct {
	Root     string `json:"root"`
	MaxDepth int    `json:"max_depth"`
}

func (h *hostHandlers) VCSRepos(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in vcsReposInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	root, err := h.sandbox.Resolve(in.Root, "")
	if err != nil {
		return nil, err
	}
	if !h.sandbox.IsDirectory(root) {
		return nil, fmt.Errorf("not a directory: %s", root)
	}

	depth := in.MaxDepth
	if depth <= 0 {
		depth = 5
	}

	var repos []string
	for dir := range h.sandbox.MarkerDirs(root, ".git", depth) {
		repos = append(repos, dir)
	}

	return json.Marshal(map[string]any{
		"root":  root,
		"repos": repos,
		"count": len(repos),
	})
}
