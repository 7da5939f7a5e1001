package remote

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
	}{
		{name: "empty", in: "", want: "''"},
		{name: "plain word", in: "status", want: "'status'"},
		{name: "spaces", in: "two words", want: "'two words'"},
		{name: "single quote", in: "o'clock", want: `'o'"'"'clock'`},
		{name: "shell metacharacters", in: "$(rm -rf /); `id`", want: "'$(rm -rf /); `id`'"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Quote(tc.in); got != tc.want {
				t.Fatalf("Quote(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLineQuotesEveryWord(t *testing.T) {
	got := Line("/opt/slider/bin/slider", "create", "app one", "--template", "a'b.json")
	want := `'/opt/slider/bin/slider' 'create' 'app one' '--template' 'a'"'"'b.json'`
	if got != want {
		t.Fatalf("unexpected line: %q", got)
	}

	if got := Line("uptime"); got != "'uptime'" {
		t.Fatalf("unexpected bare line: %q", got)
	}
}

func TestCommandErrorMessageCarriesExitAndStreams(t *testing.T) {
	err := &CommandError{
		Command:  "slider status app1",
		ExitCode: 56,
		Output:   "partial\n",
		Stderr:   "node unreachable\n",
	}

	msg := err.Error()
	for _, fragment := range []string{"exit=56", `stdout="partial"`, `stderr="node unreachable"`} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("message %q missing %q", msg, fragment)
		}
	}
}

func TestExitCodeUnwrapsThroughWrappedChains(t *testing.T) {
	base := &CommandError{Command: "slider stop app1", ExitCode: 69}
	wrapped := fmt.Errorf("stop %q: %w", "app1", base)

	code, ok := ExitCode(wrapped)
	if !ok || code != 69 {
		t.Fatalf("expected (69, true), got (%d, %v)", code, ok)
	}

	if _, ok := ExitCode(errors.New("dial tcp: connection refused")); ok {
		t.Fatalf("expected no exit code for transport error")
	}
}
