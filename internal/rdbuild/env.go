package rdbuild

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

const (
	minNodeMajor = 20
	minNpmMajor  = 8
)

// parseVersionMajor extracts the major component from tool version output
// such as "v22.1.0" or "10.8.2".
func parseVersionMajor(v string) (int, error) {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "v")
	if v == "" {
		return 0, fmt.Errorf("empty version string")
	}
	major := strings.SplitN(v, ".", 2)[0]
	n, err := strconv.Atoi(major)
	if err != nil {
		return 0, fmt.Errorf("unparseable version %q: %w", v, err)
	}
	return n, nil
}

// checkEnvironment verifies the external toolchain before anything is
// mutated: Node.js 20+ is required, npm must be present (npm < 8 only
// warns). A non-macOS host gets an advisory warning, nothing more.
func checkEnvironment(run Runner) error {
	if runtime.GOOS != "darwin" {
		cPrintf(colWarn, "Detected OS %s; this tool primarily targets macOS, other systems may misbehave\n", runtime.GOOS)
	}

	nodeOut, err := runCapture(run, "node", "--version")
	if err != nil {
		return fmt.Errorf("Node.js not found or not runnable: %w\nInstall Node.js %d or newer: https://nodejs.org/", err, minNodeMajor)
	}
	nodeMajor, err := parseVersionMajor(nodeOut)
	if err != nil {
		return fmt.Errorf("cannot determine Node.js version from %q: %w", nodeOut, err)
	}
	if nodeMajor < minNodeMajor {
		return fmt.Errorf("Node.js %s is too old; the project requires Node.js %d or newer: https://nodejs.org/", nodeOut, minNodeMajor)
	}
	colArrow.Print("-> ")
	colSuccess.Printf("Node.js version: %s\n", nodeOut)

	npmOut, err := runCapture(run, npmBin, "--version")
	if err != nil {
		return fmt.Errorf("npm not found or not runnable: %w\nnpm normally ships with Node.js", err)
	}
	npmMajor, err := parseVersionMajor(npmOut)
	if err != nil {
		return fmt.Errorf("cannot determine npm version from %q: %w", npmOut, err)
	}
	if npmMajor < minNpmMajor {
		cPrintf(colWarn, "npm %s is old, consider upgrading to %d+\n", npmOut, minNpmMajor)
	} else {
		colArrow.Print("-> ")
		colSuccess.Printf("npm version: %s\n", npmOut)
	}

	return nil
}

// checkStructure verifies the manifest layout of the monorepo so the
// pipeline aborts before spawning anything when run outside the project root.
func checkStructure(mode Mode) error {
	required := []string{"package.json"}
	if mode == ModeFull {
		required = append(required,
			"packages/core/package.json",
			"packages/cli/package.json",
		)
	}

	for _, rel := range required {
		if !pathExists(inRoot(rel)) {
			return fmt.Errorf("missing %s; run rdbuild from the project root", rel)
		}
	}
	colArrow.Print("-> ")
	colSuccess.Println("Project structure looks good")
	return nil
}
