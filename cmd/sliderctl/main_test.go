package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLocalConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[target]
mode = "local"

[package]
name = "PRESTO"

[cluster]
name = "presto1"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRunWithoutCommand(t *testing.T) {
	if err := run([]string{}); err == nil {
		t.Fatalf("expected error without a command")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run([]string{"-config", writeLocalConfig(t), "bogus"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunFlexValidatesArguments(t *testing.T) {
	cfgPath := writeLocalConfig(t)

	if err := run([]string{"-config", cfgPath, "flex", "WORKER"}); err == nil {
		t.Fatalf("expected error for missing count")
	}
	if err := run([]string{"-config", cfgPath, "flex", "WORKER", "many"}); err == nil {
		t.Fatalf("expected error for non-numeric count")
	}
	if err := run([]string{"-config", cfgPath, "flex", "WORKER", "-2"}); err == nil {
		t.Fatalf("expected error for negative count")
	}
}

func TestRunWaitValidatesGoal(t *testing.T) {
	cfgPath := writeLocalConfig(t)

	if err := run([]string{"-config", cfgPath, "wait"}); err == nil {
		t.Fatalf("expected error without a goal")
	}
	if err := run([]string{"-config", cfgPath, "wait", "converged"}); err == nil {
		t.Fatalf("expected error for unknown goal")
	}
	if err := run([]string{"-config", cfgPath, "wait", "live", "WORKER"}); err == nil {
		t.Fatalf("expected error for incomplete live goal")
	}
}

func TestRunMissingConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.toml")
	if err := run([]string{"-config", missing, "status"}); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
