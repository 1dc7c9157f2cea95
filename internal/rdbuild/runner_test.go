package rdbuild

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// fakeRunner records every command it is asked to run and never spawns a
// real subprocess. Outputs and errors are keyed by the joined argv.
type fakeRunner struct {
	calls   [][]string
	outputs map[string]string
	errs    map[string]error
	errAll  error // returned for every call when set
}

func (f *fakeRunner) Run(cmd *exec.Cmd) error {
	key := strings.Join(cmd.Args, " ")
	f.calls = append(f.calls, append([]string(nil), cmd.Args...))
	if out, ok := f.outputs[key]; ok && cmd.Stdout != nil {
		io.WriteString(cmd.Stdout, out)
	}
	if err, ok := f.errs[key]; ok {
		return err
	}
	return f.errAll
}

// countCalls returns how many recorded invocations start with the given argv
// prefix.
func (f *fakeRunner) countCalls(prefix ...string) int {
	n := 0
	for _, call := range f.calls {
		if len(call) < len(prefix) {
			continue
		}
		match := true
		for i, p := range prefix {
			if call[i] != p {
				match = false
				break
			}
		}
		if match {
			n++
		}
	}
	return n
}

// setupProject points the package globals at a fresh temp directory and
// restores them when the test finishes.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	oldRoot, oldNpm, oldDebug := projectRoot, npmBin, Debug
	oldArchive, oldCompress := ArchiveWant, CompressWant
	projectRoot = dir
	npmBin = "npm"
	Debug = false
	ArchiveWant = false
	CompressWant = "gzip"
	t.Cleanup(func() {
		projectRoot, npmBin, Debug = oldRoot, oldNpm, oldDebug
		ArchiveWant, CompressWant = oldArchive, oldCompress
	})
	return dir
}

// writeFile creates a file under dir, making parent directories as needed.
func writeFile(dir, rel, content string) error {
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

// toolOutputs returns the captured-output map for a healthy toolchain.
func toolOutputs() map[string]string {
	return map[string]string{
		"node --version": "v22.4.0\n",
		"npm --version":  "10.8.2\n",
	}
}
