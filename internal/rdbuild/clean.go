package rdbuild

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
)

// isFirstInstall reports whether dependencies have never been installed in
// this checkout. node_modules doubles as the install marker.
func isFirstInstall() bool {
	return !pathExists(inRoot("node_modules"))
}

func removeBundleDir() error {
	bundle := inRoot("bundle")
	if !pathExists(bundle) {
		return nil
	}
	debugf("Removing directory: %s\n", bundle)
	if err := os.RemoveAll(bundle); err != nil {
		return fmt.Errorf("failed to remove %s: %w", bundle, err)
	}
	return nil
}

// manualClean deletes the known build output directories directly, used when
// the delegated `npm run clean` is unavailable or fails.
func manualClean() error {
	var firstErr error
	for _, rel := range outputDirs {
		dir := inRoot(rel)
		if !pathExists(dir) {
			continue
		}
		debugf("Removing directory: %s\n", dir)
		if err := os.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	return firstErr
}

// cleanStage picks the cleaning strategy for a full build. First installs
// skip the destructive clean entirely (only a stale bundle/ is removed);
// updates remove bundle/ and delegate to `npm run clean`, falling back to
// manual deletion when that fails.
func cleanStage(run Runner, firstInstall bool) error {
	if firstInstall {
		if pathExists(inRoot("bundle")) {
			cPrintln(colInfo, "First install: removing stale bundle directory")
			return removeBundleDir()
		}
		cPrintln(colInfo, "First install: nothing to clean")
		return nil
	}

	if err := removeBundleDir(); err != nil {
		return err
	}
	if err := run.Run(npmCommand("run", "clean")); err != nil {
		cPrintf(colWarn, "npm run clean failed (%v), cleaning manually\n", err)
		return manualClean()
	}
	return nil
}

// quickClean removes the three dist trees, escalating individual removals to
// an elevated rm -rf only when the plain removal hits a permission error.
func quickClean(root Runner) error {
	dirs := []string{"packages/core/dist", "packages/cli/dist", "dist"}
	for _, rel := range dirs {
		dir := inRoot(rel)
		if !pathExists(dir) {
			debugf("Skipping %s (does not exist)\n", dir)
			continue
		}
		debugf("Removing directory: %s\n", dir)
		err := os.RemoveAll(dir)
		if err == nil {
			continue
		}
		if !errors.Is(err, os.ErrPermission) {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
		rmCmd := exec.Command("rm", "-rf", dir)
		if err := root.Run(rmCmd); err != nil {
			return fmt.Errorf("failed to remove %s even with elevation: %w", dir, err)
		}
	}
	colArrow.Print("-> ")
	colSuccess.Println("Build outputs cleaned")
	return nil
}

// HandleCleanCommand implements the standalone `rdbuild clean` subcommand.
// Destructive actions are confirmation-gated and refuse to run without a TTY.
func HandleCleanCommand(args []string, user, root Runner) error {
	cleanCmd := flag.NewFlagSet("clean", flag.ExitOnError)
	cleanDist := cleanCmd.Bool("dist", false, "Remove build output directories (bundle, dist, packages/*/dist).")
	cleanModules := cleanCmd.Bool("modules", false, "Remove node_modules.")
	cleanCache := cleanCmd.Bool("cache", false, "Run npm cache clean --force.")
	cleanAll := cleanCmd.Bool("all", false, "outputs, node_modules and npm cache.")

	if err := cleanCmd.Parse(args); err != nil {
		return err // Should not happen with flag.ExitOnError
	}

	if !*cleanDist && !*cleanModules && !*cleanCache && !*cleanAll {
		fmt.Println("Usage: rdbuild clean [flag]")
		fmt.Println("You must specify what to clean. Use one of the following flags:")
		cleanCmd.PrintDefaults()
		return nil
	}

	if *cleanAll {
		*cleanDist = true
		*cleanModules = true
		*cleanCache = true
	}

	if *cleanDist {
		cPrintln(colWarn, "This will delete all build output directories.")
		if askForConfirmation(colArrow, "Are you sure you want to proceed?") {
			if err := manualClean(); err != nil {
				return err
			}
			colArrow.Print("-> ")
			colSuccess.Println("Build outputs removed.")
		} else {
			colArrow.Print("-> ")
			colSuccess.Println("Cleanup of build outputs canceled.")
		}
	}

	if *cleanModules {
		modules := inRoot("node_modules")
		cPrintf(colWarn, "This will permanently delete %s.\n", modules)
		if askForConfirmation(colArrow, "Are you sure you want to proceed?") {
			// elevated rm: node_modules may contain root-owned leftovers
			rmCmd := exec.Command("rm", "-rf", modules)
			if err := root.Run(rmCmd); err != nil {
				return fmt.Errorf("failed to remove node_modules: %w", err)
			}
			colArrow.Print("-> ")
			colSuccess.Println("node_modules removed.")
		} else {
			colArrow.Print("-> ")
			colSuccess.Println("Cleanup of node_modules canceled.")
		}
	}

	if *cleanCache {
		if err := user.Run(npmCommand("cache", "clean", "--force")); err != nil {
			return fmt.Errorf("npm cache clean failed: %w", err)
		}
		colArrow.Print("-> ")
		colSuccess.Println("npm cache cleaned.")
	}

	return nil
}
