package slider

import (
	"fmt"

	"github.com/danmuck/sliderctl/internal/remote"
)

type fakeResult struct {
	output string
	err    error
}

// fakeTarget implements remote.Target with a scripted result queue for
// Execute and a recorded log of every command and upload.
type fakeTarget struct {
	results   []fakeResult
	commands  []string
	uploads   [][2]string
	uploadErr error
}

func (f *fakeTarget) Host() string {
	return "gateway.test"
}

func (f *fakeTarget) Execute(command string) (string, error) {
	f.commands = append(f.commands, command)
	if len(f.results) == 0 {
		return "", nil
	}
	next := f.results[0]
	f.results = f.results[1:]
	return next.output, next.err
}

func (f *fakeTarget) Upload(localPath string, remotePath string) error {
	f.uploads = append(f.uploads, [2]string{localPath, remotePath})
	return f.uploadErr
}

func (f *fakeTarget) queue(results ...fakeResult) {
	f.results = append(f.results, results...)
}

func ok(output string) fakeResult {
	return fakeResult{output: output}
}

func exit(code int) fakeResult {
	return fakeResult{err: &remote.CommandError{
		Command:  "scripted",
		ExitCode: code,
		Stderr:   fmt.Sprintf("scripted exit %d", code),
	}}
}

// repeat builds n copies of one result for long retry scripts.
func repeat(result fakeResult, n int) []fakeResult {
	results := make([]fakeResult, n)
	for i := range results {
		results[i] = result
	}
	return results
}
