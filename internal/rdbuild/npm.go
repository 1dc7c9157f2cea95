package rdbuild

import (
	"bytes"
	"os/exec"
	"strings"
)

// npmCommand builds an npm invocation rooted at the project directory.
func npmCommand(args ...string) *exec.Cmd {
	cmd := exec.Command(npmBin, args...)
	cmd.Dir = projectRoot
	return cmd
}

// runCapture runs a command through the given runner with stdout and stderr
// captured instead of inherited, returning the combined trimmed output.
func runCapture(run Runner, name string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Dir = projectRoot
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := run.Run(cmd)
	return strings.TrimSpace(out.String()), err
}
