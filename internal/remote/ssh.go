package remote

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

var (
	ErrSSHHostRequired = errors.New("remote: ssh host is required")
	ErrSSHUserRequired = errors.New("remote: ssh user is required")
	ErrSSHKeyRequired  = errors.New("remote: ssh key path is required")
)

// SSHConfig identifies one gateway host and the credentials to reach it.
type SSHConfig struct {
	Host                        string
	Port                        string
	User                        string
	KeyPath                     string
	Passphrase                  []byte
	KnownHostsPath              string
	InsecureSkipHostKeyChecking bool
	ConnectTimeout              time.Duration
}

// SSHTarget executes commands and places files over per-call SSH sessions.
// It keeps no connection state between calls.
type SSHTarget struct {
	cfg SSHConfig
}

// NewSSHTarget validates addressing and credential fields up front so that
// later calls fail only for reachability reasons.
func NewSSHTarget(cfg SSHConfig) (*SSHTarget, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, ErrSSHHostRequired
	}
	if strings.TrimSpace(cfg.User) == "" {
		return nil, ErrSSHUserRequired
	}
	if strings.TrimSpace(cfg.KeyPath) == "" {
		return nil, ErrSSHKeyRequired
	}
	return &SSHTarget{cfg: cfg}, nil
}

// Host returns the configured host identity.
func (t *SSHTarget) Host() string {
	return strings.TrimSpace(t.cfg.Host)
}

// Execute runs one command line in a fresh session and returns its stdout.
func (t *SSHTarget) Execute(command string) (string, error) {
	client, err := t.dial()
	if err != nil {
		return "", err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("remote: open session on %s: %w", t.Host(), err)
	}
	defer session.Close()

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	if err := session.Run(command); err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), &CommandError{
				Command:  command,
				ExitCode: exitErr.ExitStatus(),
				Output:   stdout.String(),
				Stderr:   stderr.String(),
			}
		}
		return stdout.String(), fmt.Errorf("remote: run on %s: %w", t.Host(), err)
	}

	return stdout.String(), nil
}

// Upload streams the local file into `cat > path` on a fresh session,
// creating the remote parent directory first.
func (t *SSHTarget) Upload(localPath string, remotePath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("remote: open local file: %w", err)
	}
	defer file.Close()

	client, err := t.dial()
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("remote: open session on %s: %w", t.Host(), err)
	}
	defer session.Close()

	var stderr bytes.Buffer
	session.Stdin = file
	session.Stderr = &stderr

	command := fmt.Sprintf(
		"mkdir -p %s && cat > %s",
		Quote(path.Dir(remotePath)),
		Quote(remotePath),
	)
	if err := session.Run(command); err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return &CommandError{
				Command:  command,
				ExitCode: exitErr.ExitStatus(),
				Stderr:   stderr.String(),
			}
		}
		return fmt.Errorf("remote: upload %s to %s: %w", localPath, t.Host(), err)
	}

	return nil
}

func (t *SSHTarget) dial() (*ssh.Client, error) {
	address, err := t.address()
	if err != nil {
		return nil, err
	}

	config, err := t.clientConfig()
	if err != nil {
		return nil, err
	}

	if t.cfg.ConnectTimeout <= 0 {
		client, err := ssh.Dial("tcp", address, config)
		if err != nil {
			return nil, fmt.Errorf("remote: dial %s: %w", address, err)
		}
		return client, nil
	}

	conn, err := net.DialTimeout("tcp", address, t.cfg.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", address, err)
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, address, config)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("remote: handshake with %s: %w", address, err)
	}

	return ssh.NewClient(clientConn, chans, reqs), nil
}

func (t *SSHTarget) address() (string, error) {
	host := strings.TrimSpace(t.cfg.Host)
	if host == "" {
		return "", ErrSSHHostRequired
	}

	if t.cfg.Port != "" {
		return net.JoinHostPort(host, t.cfg.Port), nil
	}

	if _, _, err := net.SplitHostPort(host); err == nil {
		return host, nil
	}

	return net.JoinHostPort(host, "22"), nil
}

func (t *SSHTarget) clientConfig() (*ssh.ClientConfig, error) {
	if strings.TrimSpace(t.cfg.User) == "" {
		return nil, ErrSSHUserRequired
	}

	signer, err := t.signer()
	if err != nil {
		return nil, err
	}

	var hostKeyCallback ssh.HostKeyCallback
	if t.cfg.InsecureSkipHostKeyChecking {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		callback, err := t.knownHostsCallback()
		if err != nil {
			return nil, err
		}
		hostKeyCallback = callback
	}

	return &ssh.ClientConfig{
		User:            t.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: hostKeyCallback,
		Timeout:         t.cfg.ConnectTimeout,
	}, nil
}

func (t *SSHTarget) signer() (ssh.Signer, error) {
	if strings.TrimSpace(t.cfg.KeyPath) == "" {
		return nil, ErrSSHKeyRequired
	}

	privateKey, err := os.ReadFile(t.cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("remote: read key: %w", err)
	}

	if len(t.cfg.Passphrase) > 0 {
		signer, err := ssh.ParsePrivateKeyWithPassphrase(privateKey, t.cfg.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("remote: parse key: %w", err)
		}
		return signer, nil
	}

	signer, err := ssh.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("remote: parse key: %w", err)
	}
	return signer, nil
}

func (t *SSHTarget) knownHostsCallback() (ssh.HostKeyCallback, error) {
	knownHostsPath := strings.TrimSpace(t.cfg.KnownHostsPath)
	if knownHostsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("remote: known hosts path not set and home dir unavailable")
		}
		knownHostsPath = filepath.Join(home, ".ssh", "known_hosts")
	}

	callback, err := knownhosts.New(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("remote: load known hosts: %w", err)
	}
	return callback, nil
}
