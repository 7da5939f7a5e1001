package remote

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// LocalTarget runs command lines on the local host through `sh -c` and
// places files with a plain filesystem copy. It serves development setups
// where the deployment tool lives on the same machine, and tests.
type LocalTarget struct{}

// Host identifies the local pseudo-target.
func (LocalTarget) Host() string {
	return "localhost"
}

// Execute runs one command line via the local shell.
func (LocalTarget) Execute(command string) (string, error) {
	cmd := exec.Command("sh", "-c", command)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), &CommandError{
			Command:  command,
			ExitCode: exitErr.ExitCode(),
			Output:   stdout.String(),
			Stderr:   stderr.String(),
		}
	}

	return stdout.String(), fmt.Errorf("remote: run local command: %w", err)
}

// Upload copies the local file to the destination path, creating parent
// directories and truncating any existing file.
func (LocalTarget) Upload(localPath string, remotePath string) error {
	info, err := os.Stat(localPath)
	if err != nil {
		return fmt.Errorf("remote: stat local file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("remote: %s is not a regular file", localPath)
	}

	if err := os.MkdirAll(filepath.Dir(remotePath), 0o755); err != nil {
		return fmt.Errorf("remote: create destination dir: %w", err)
	}

	in, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("remote: open local file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(remotePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("remote: open destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("remote: copy to destination: %w", err)
	}
	return nil
}
