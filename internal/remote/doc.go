// Package remote owns the command channel to a cluster gateway host.
//
// Ownership boundary:
// - one-shot shell command execution with exit-code capture
// - file placement on the target host
// - shell quoting primitives for composed command lines
//
// Every call is a stateless round trip; the package holds no session
// state and its targets are safe for concurrent use.
package remote
