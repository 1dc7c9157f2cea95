package rdbuild

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// Runner is the narrow surface the pipeline stages use to run external
// commands. Tests substitute a recorder so no real subprocess is spawned.
type Runner interface {
	Run(cmd *exec.Cmd) error
}

// Executor provides a consistent interface for executing commands,
// abstracting away the privilege escalation (sudo) logic.
type Executor struct {
	Context         context.Context // The context to use for cancellation
	ShouldRunAsRoot bool            // ShouldRunAsRoot specifies whether the command MUST be executed with root privileges.
	Interactive     bool            // Interactive indicates whether the command may prompt the user
}

// InitExecutors wires the global user/root executor pair to the application
// context. Called once from main before any stage runs.
func InitExecutors(ctx context.Context) {
	UserExec = &Executor{Context: ctx}
	RootExec = &Executor{Context: ctx, ShouldRunAsRoot: true}
}

// runInteractiveCommand executes a command attached to the TTY for interactive
// prompts. It does not use process group isolation, making it suitable for
// commands like `sudo -v`.
func runInteractiveCommand(ctx context.Context, name string, arg ...string) error {
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// ensureSudo checks if the sudo ticket is still valid and re-prompts if
// necessary. It first runs the non-interactive probe `sudo -nv`; only when
// that fails does it fall back to an interactive `sudo -v` on the TTY.
// No action needed if we are already root or the command doesn't require root.
func (e *Executor) ensureSudo() error {
	if os.Geteuid() == 0 || !e.ShouldRunAsRoot {
		return nil
	}
	checkCmd := exec.CommandContext(e.Context, "sudo", "-nv")
	checkCmd.Stdout = io.Discard
	checkCmd.Stderr = io.Discard

	if err := checkCmd.Run(); err == nil {
		// Ticket still valid.
		return nil
	}

	colArrow.Print("-> ")
	colSuccess.Println("Sudo ticket has expired. Re-authenticating")

	if err := runInteractiveCommand(e.Context, "sudo", "-v"); err != nil {
		return fmt.Errorf("sudo re-authentication failed: %w", err)
	}
	colArrow.Print("-> ")
	colSuccess.Println("Re-authenticated via sudo successfully.")
	return nil
}

// Run executes the given command, elevating via sudo -E only when needed.
// It wires up stdio, isolates the child in its own process group for cleanup,
// and calls ensureSudo() to avoid unnecessary password prompts.
func (e *Executor) Run(cmd *exec.Cmd) error {
	// --- Phase 0: wire up stdio ---
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	// --- Phase 1: maybe check privilege ---
	if err := e.ensureSudo(); err != nil {
		return err
	}

	// --- Phase 2: build the final command ---
	var finalCmd *exec.Cmd

	basePath := cmd.Path
	baseArgs := cmd.Args[1:]

	if e.ShouldRunAsRoot && os.Geteuid() != 0 {
		args := append([]string{"-E", basePath}, baseArgs...)
		finalCmd = exec.CommandContext(e.Context, "sudo", args...)
		finalCmd.Dir = cmd.Dir
	} else {
		finalCmd = exec.CommandContext(e.Context, basePath, baseArgs...)
		finalCmd.Dir = cmd.Dir
	}

	// preserve or inherit the environment
	if len(cmd.Env) > 0 {
		finalCmd.Env = cmd.Env
	} else {
		finalCmd.Env = os.Environ()
	}

	// carry over stdio
	finalCmd.Stdin = cmd.Stdin
	finalCmd.Stdout = cmd.Stdout
	finalCmd.Stderr = cmd.Stderr

	// --- Phase 3: isolate process group for context-based cleanup ---
	if !e.Interactive {
		finalCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	// --- Phase 4: start and watch for cancel ---
	if err := finalCmd.Start(); err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}

	if !e.Interactive {
		pgid := finalCmd.Process.Pid

		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-e.Context.Done():
				syscall.Kill(-pgid, syscall.SIGKILL)
			case <-done:
			}
		}()
	}

	// --- Phase 5: wait and return ---
	if waitErr := finalCmd.Wait(); waitErr != nil {
		if e.Context.Err() != nil {
			time.Sleep(100 * time.Millisecond)
			return fmt.Errorf("command aborted: %v", e.Context.Err())
		}
		return waitErr
	}
	return nil
}
