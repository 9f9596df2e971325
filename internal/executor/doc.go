// Package executor runs external commands with hard bounds on wall-clock
// time and captured output.
//
// # Overview
//
// The package has two layers:
//
//   - Executor: spawns a single shell command under a working directory,
//     enforces a timeout, caps capture at the pipe level, and truncates
//     logical output head+tail.
//   - SafeExec: the facade every tool handler must go through. It consults
//     the safety guard before anything else, then delegates to the
//     Executor. No tool spawns a process directly.
//
// # Results, not errors
//
// A command that exits non-zero, is killed by a signal, or times out is an
// ordinary Result. The only error Run returns is the inability to attempt
// the command at all (the shell could not be spawned). Callers that want
// retries own that policy themselves.
//
// # Ordering
//
// SafeExec checks the guard before the dry-run flag, so a command matching
// a danger pattern is blocked even as a preview. A blocked command yields
// exit code -1, empty streams, and a warning carrying the pattern's
// description.
//
// # Truncation
//
// When a stream exceeds the configured limit, the first and last halves are
// kept and a marker is spliced in between. Head+tail beats head-only for
// diagnosis: startup context and the final error lines both survive. Limits
// are byte counts, so multi-byte text can be split mid-sequence at the cut
// points.
package executor
