package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rdbuild/internal/rdbuild"
)

func usage() {
	fmt.Println("rdbuild - build orchestrator for the RDMind monorepo")
	fmt.Println()
	fmt.Println("Usage: rdbuild [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none), build   run the full pipeline: check, clean, install, build, verify, link")
	fmt.Println("  quick           quick rebuild: clean dists, build, global install")
	fmt.Println("  clean [flags]   remove build outputs, node_modules or the npm cache")
	fmt.Println("  version         print version information")
}

func main() {
	// 1. CONTEXT AND SIGNAL SETUP
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	// Interrupts cancel the context so the running npm child is torn down
	// cleanly. During a critical phase (install, global link) the first
	// Ctrl+C is held back; the second forces an immediate exit.
	go func() {
		for {
			select {
			case sig := <-sigs:
				if rdbuild.InCriticalPhase() {
					fmt.Printf("\n[WARNING] Critical operation in progress. Press Ctrl+C AGAIN to force exit NOW.\n")
					select {
					case <-sigs:
						fmt.Println("\n[FATAL] Forced immediate exit.")
						os.Exit(130)
					case <-time.After(5 * time.Second):
						continue
					case <-ctx.Done():
						return
					}
				} else {
					fmt.Printf("\n[INFO] Received %v. Cancelling build gracefully...\n", sig)
					cancel()

					// Give the child a moment to die and flush its buffers.
					time.Sleep(100 * time.Millisecond)

					select {
					case <-sigs:
						fmt.Println("\n[FATAL] Second interrupt received. Forcing immediate exit.")
						os.Exit(130)
					case <-ctx.Done():
						return
					case <-time.After(500 * time.Millisecond):
						// let the main flow observe the cancellation and exit
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// 2. CONFIGURATION AND EXECUTORS
	cfg, err := rdbuild.LoadConfig(rdbuild.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read %s: %v\n", rdbuild.ConfigFile, err)
	}
	rdbuild.InitConfig(cfg)
	rdbuild.InitExecutors(ctx)

	cmd := "build"
	args := []string{}
	if len(os.Args) > 1 {
		cmd = os.Args[1]
		args = os.Args[2:]
	}

	switch cmd {
	case "build", "quick":
		// 3. SINGLE-INSTANCE LOCK (pipeline runs only)
		release, err := rdbuild.AcquireLock(rdbuild.LockPath())
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		defer release()

		mode := rdbuild.ModeFull
		if cmd == "quick" {
			mode = rdbuild.ModeQuick
		}
		if err := rdbuild.RunPipeline(ctx, cfg, mode); err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(os.Stderr, "Build interrupted.")
				os.Exit(130)
			}
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	case "clean":
		if err := rdbuild.HandleCleanCommand(args, rdbuild.UserExec, rdbuild.RootExec); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	case "version":
		rdbuild.PrintVersion()
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}
