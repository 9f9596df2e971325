// Package sandbox confines filesystem access to a configured set of root
// directories.
//
// # Overview
//
// A Sandbox resolves untrusted path strings (possibly relative, possibly
// adversarial) into clean absolute paths and rejects anything that falls
// outside the allowed roots. Containment is checked on path segments, not
// raw string prefixes, so a root of /home/dev does not admit
// /home/devtools.
//
// # Resolution
//
// Resolve performs lexical canonicalization only: tilde expansion, joining
// against a base directory, and cleaning of "." and ".." elements. Symlinks
// are deliberately not followed; the resolved path is the handle callers
// should open directly. The window between validation and use is an
// accepted residual risk.
//
// # Probes
//
// IsDirectory and IsFile are best-effort stats. Any I/O error, including
// permission denied, reads as false: for confinement purposes a path the
// process cannot see might as well not exist.
//
// # Marker search
//
// MarkerDirs walks a tree looking for directories that directly contain a
// marker entry (a .git directory, for example). The walk stops descending
// the moment a marker is found, skips dot-directories, tolerates unreadable
// subtrees, and is bounded by a maximum depth. All four behaviors bound the
// cost of the search on large trees and are part of the contract.
package sandbox
