package remote

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalTargetExecuteReturnsStdout(t *testing.T) {
	out, err := LocalTarget{}.Execute("echo hello")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "hello\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestLocalTargetExecuteMapsExitCode(t *testing.T) {
	out, err := LocalTarget{}.Execute("echo before; exit 7")
	if err == nil {
		t.Fatalf("expected failure")
	}

	code, ok := ExitCode(err)
	if !ok || code != 7 {
		t.Fatalf("expected exit code 7, got (%d, %v)", code, ok)
	}
	if out != "before\n" {
		t.Fatalf("expected stdout preserved on failure, got %q", out)
	}
}

func TestLocalTargetUploadCreatesParentAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "artifact.zip")
	if err := os.WriteFile(src, []byte("package-bytes"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	dst := filepath.Join(dir, "staging", "nested", "artifact.zip")
	if err := (LocalTarget{}).Upload(src, dst); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := os.WriteFile(src, []byte("changed"), 0o644); err != nil {
		t.Fatalf("rewrite src: %v", err)
	}
	if err := (LocalTarget{}).Upload(src, dst); err != nil {
		t.Fatalf("second upload: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(got) != "changed" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestNewSSHTargetValidatesRequiredFields(t *testing.T) {
	if _, err := NewSSHTarget(SSHConfig{User: "yarn", KeyPath: "/k"}); !errors.Is(err, ErrSSHHostRequired) {
		t.Fatalf("expected ErrSSHHostRequired, got %v", err)
	}
	if _, err := NewSSHTarget(SSHConfig{Host: "gw", KeyPath: "/k"}); !errors.Is(err, ErrSSHUserRequired) {
		t.Fatalf("expected ErrSSHUserRequired, got %v", err)
	}
	if _, err := NewSSHTarget(SSHConfig{Host: "gw", User: "yarn"}); !errors.Is(err, ErrSSHKeyRequired) {
		t.Fatalf("expected ErrSSHKeyRequired, got %v", err)
	}

	target, err := NewSSHTarget(SSHConfig{Host: "gw.example.com", User: "yarn", KeyPath: "/k"})
	if err != nil {
		t.Fatalf("new target: %v", err)
	}
	if target.Host() != "gw.example.com" {
		t.Fatalf("unexpected host: %q", target.Host())
	}
}

func TestSSHTargetAddressDefaultsPort(t *testing.T) {
	tests := []struct {
		name string
		host string
		port string
		want string
	}{
		{name: "bare host gets port 22", host: "gw.example.com", want: "gw.example.com:22"},
		{name: "explicit port field", host: "gw.example.com", port: "2222", want: "gw.example.com:2222"},
		{name: "host already carries port", host: "gw.example.com:2200", want: "gw.example.com:2200"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := &SSHTarget{cfg: SSHConfig{Host: tc.host, Port: tc.port, User: "yarn", KeyPath: "/k"}}
			got, err := target.address()
			if err != nil {
				t.Fatalf("address: %v", err)
			}
			if got != tc.want {
				t.Fatalf("address = %q, want %q", got, tc.want)
			}
		})
	}
}
