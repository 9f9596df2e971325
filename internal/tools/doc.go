// Package tools provides the host capability tools built on the sandbox
// core.
//
// # Overview
//
// Every tool is a thin consumer of two narrow interfaces: "resolve and
// validate a path" (sandbox.Sandbox) and "run a confined command"
// (executor.SafeExec). No tool touches the filesystem outside a resolved
// path and no tool spawns a process directly.
//
// # Tools
//
//	shell_run - run a shell command through the SafeExec facade
//	fs_list   - list a directory inside the sandbox
//	fs_read   - read a file inside the sandbox
//	vcs_repos - locate repository roots by marker directory
//
// # Handlers
//
// Handlers take and return raw JSON:
//
//	func(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
//
// The Registry maps tool names to handlers and detects collisions. Callers
// invoke handlers directly; transport framing belongs to whatever hosts the
// registry.
package tools
