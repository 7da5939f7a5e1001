package slider

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/sliderctl/internal/remote"
)

// checksumAbsentSentinel is the first output field of the remote checksum
// command when the target file does not exist. It reads as "no remote
// file", never as a mismatch.
const checksumAbsentSentinel = "0"

var ErrChecksumUnreadable = errors.New("slider: remote checksum output unreadable")

// localChecksum computes the SHA-256 hex digest of a local file.
func localChecksum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("slider: open artifact: %w", err)
	}
	defer file.Close()

	digest := sha256.New()
	if _, err := io.Copy(digest, file); err != nil {
		return "", fmt.Errorf("slider: read artifact: %w", err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

// remoteChecksum asks the target for the SHA-256 digest of remotePath.
// An absent file yields ("", false, nil) through the sentinel fallback
// echoed when sha256sum fails.
func remoteChecksum(target remote.Executor, remotePath string) (string, bool, error) {
	command := fmt.Sprintf(
		"sha256sum %s 2>/dev/null || echo %s",
		remote.Quote(remotePath),
		remote.Quote(checksumAbsentSentinel+"  "+remotePath),
	)

	output, err := target.Execute(command)
	if err != nil {
		return "", false, fmt.Errorf("slider: remote checksum of %s: %w", remotePath, err)
	}

	fields := strings.Fields(output)
	if len(fields) == 0 {
		return "", false, fmt.Errorf("%w: %q", ErrChecksumUnreadable, strings.TrimSpace(output))
	}
	if fields[0] == checksumAbsentSentinel {
		return "", false, nil
	}
	return strings.ToLower(fields[0]), true, nil
}
