// Package safety screens raw command strings against a deny-list of
// regular-expression danger patterns.
//
// The guard is a pure predicate: the first matching pattern blocks the whole
// command, no matter how much of the string is benign. Commands are treated
// as opaque text, not parsed into a shell AST, so obfuscated variants
// (quoting, encoding) can slip through and over-broad patterns can block
// harmless commands. This is defense in depth, not a guarantee.
//
// The pattern set is data. Built-in defaults cover the classics (recursive
// deletion of /, fork bombs, mkfs, raw block-device writes, curl-pipe-sh)
// and a TOML policy file can extend them without touching the guard.
package safety
