package rdbuild

import (
	"fmt"
)

// elevationState enumerates the two attempts a global npm operation gets.
// The progression is strictly linear (elevated, then de-escalated once),
// which keeps the retry bound visible and rules out unbounded recursion.
type elevationState int

const (
	withElevation elevationState = iota
	withoutElevation
)

func (s elevationState) String() string {
	if s == withElevation {
		return "with elevation"
	}
	return "without elevation"
}

// retryWithDeescalation runs attempt first through the elevated runner, and
// on failure retries exactly once through the plain user runner. Most users
// need sudo for the npm global prefix; the de-escalated retry covers setups
// where the prefix is user-writable and sudo itself is unavailable.
func retryWithDeescalation(root, user Runner, attempt func(Runner) error) error {
	for state := withElevation; ; state++ {
		run := root
		if state == withoutElevation {
			run = user
		}

		err := attempt(run)
		if err == nil {
			return nil
		}
		if state == withoutElevation {
			return err
		}
		cPrintf(colWarn, "attempt %s failed (%v), retrying %s\n", state, err, withoutElevation)
	}
}

// linkGlobally places the rdmind entry point into the global npm prefix.
// Each attempt first removes any stale link; a missing prior link is not an
// error, so unlink failures are swallowed.
func linkGlobally(root, user Runner) error {
	err := retryWithDeescalation(root, user, func(run Runner) error {
		_ = run.Run(npmCommand("unlink", "-g", globalPkg))
		return run.Run(npmCommand("link", "--force"))
	})
	if err != nil {
		cPrintln(colWarn, "Global link failed; the build itself is complete.")
		cPrintln(colWarn, "Link manually when convenient:")
		cPrintf(colWarn, "  sudo %s link --force\n", npmBin)
		cPrintln(colWarn, "or check the permissions of your npm global prefix.")
		return fmt.Errorf("npm link failed with and without elevation: %w", err)
	}
	colArrow.Print("-> ")
	colSuccess.Println("rdmind linked globally")
	return nil
}

// installGlobally is the quick-mode equivalent of linkGlobally: a global
// `npm install -g .` with the same single de-escalation retry.
func installGlobally(root, user Runner) error {
	err := retryWithDeescalation(root, user, func(run Runner) error {
		return run.Run(npmCommand("install", "-g", "."))
	})
	if err != nil {
		cPrintln(colWarn, "Global install failed. Install manually:")
		cPrintf(colWarn, "  sudo %s install -g .\n", npmBin)
		return fmt.Errorf("npm install -g failed with and without elevation: %w", err)
	}
	colArrow.Print("-> ")
	colSuccess.Println("rdmind installed globally")
	return nil
}
