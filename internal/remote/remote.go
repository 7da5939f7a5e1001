package remote

import (
	"errors"
	"fmt"
	"strings"
)

// Executor runs one shell command line on a target host and returns its
// stdout text. A command that ran and exited non-zero fails with a
// *CommandError; transport failures (dial, session, io) fail with ordinary
// wrapped errors and never carry an exit code.
type Executor interface {
	Execute(command string) (string, error)
}

// Uploader places one local file at a remote path, creating parent
// directories as needed. An existing remote file is overwritten.
type Uploader interface {
	Upload(localPath string, remotePath string) error
}

// Target is a reachable host offering command execution and file placement.
type Target interface {
	Executor
	Uploader
	Host() string
}

// CommandError reports a command that ran on the target and exited non-zero.
// The exit code is preserved verbatim for callers that key recovery
// behavior on it.
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf(
		"remote: command failed cmd=%q exit=%d stdout=%q stderr=%q",
		e.Command,
		e.ExitCode,
		strings.TrimSpace(e.Output),
		strings.TrimSpace(e.Stderr),
	)
}

// ExitCode extracts the remote exit code from err, unwrapping as needed.
// The second return is false when err carries no exit code at all.
func ExitCode(err error) (int, bool) {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode, true
	}
	return 0, false
}

// Quote wraps one word in single quotes safe for POSIX shells.
func Quote(value string) string {
	if value == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}

// Line joins a command and its arguments into one shell line, quoting
// every word. Lines needing shell operators are composed by hand with
// Quote around the variable parts.
func Line(cmd string, args ...string) string {
	if len(args) == 0 {
		return Quote(cmd)
	}

	var builder strings.Builder
	builder.WriteString(Quote(cmd))
	for _, arg := range args {
		builder.WriteByte(' ')
		builder.WriteString(Quote(arg))
	}

	return builder.String()
}
