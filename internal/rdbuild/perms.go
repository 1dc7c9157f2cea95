package rdbuild

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"syscall"
)

// ownershipRepairer fixes build output trees left root-owned by an earlier
// elevated run, which would otherwise make clean/install fail halfway.
// Identity resolution is injectable so the decision logic is testable
// without manufacturing foreign-owned files.
type ownershipRepairer struct {
	run         Runner                                  // elevated runner for the chown
	currentUser func() (string, error)                  // resolves the invoking user
	ownerOf     func(path string) (string, bool, error) // owner name, false when ownership is not a concept here
}

func newOwnershipRepairer(run Runner) *ownershipRepairer {
	return &ownershipRepairer{
		run:         run,
		currentUser: currentUsername,
		ownerOf:     lstatOwner,
	}
}

func currentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// lstatOwner resolves the owner name of path. The second return is false when
// the platform does not expose POSIX ownership (or the uid has no passwd
// entry), which callers must treat as "nothing to repair".
func lstatOwner(path string) (string, bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return "", false, err
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return "", false, nil
	}
	u, err := user.LookupId(fmt.Sprint(stat.Uid))
	if err != nil {
		return "", false, nil
	}
	return u.Username, true, nil
}

// Repair brings dir (and everything under it) back under the invoking
// user's ownership when needed.
//
// A missing directory, a platform without ownership semantics, or any
// identity-resolution failure all succeed without touching the filesystem;
// ownership repair must never be the reason a build stops. When the top-level
// owner already matches, descendants are scanned and the scan short-circuits
// at the first mismatch. In either mismatch case exactly one recursive
// elevated chown is attempted.
func (r *ownershipRepairer) Repair(dir string) error {
	if !pathExists(dir) {
		return nil
	}

	me, err := r.currentUser()
	if err != nil {
		return nil
	}

	owner, ok, err := r.ownerOf(dir)
	if err != nil || !ok {
		return nil
	}

	if owner != me {
		cPrintf(colWarn, "%s is owned by %s, not %s; repairing ownership\n", dir, owner, me)
		return r.chownTree(dir, me)
	}

	mismatch := false
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are not ours to fix
		}
		if path == dir {
			return nil
		}
		entryOwner, ok, err := r.ownerOf(path)
		if err != nil || !ok {
			return nil
		}
		if entryOwner != me {
			mismatch = true
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return nil
	}

	if mismatch {
		cPrintf(colWarn, "foreign-owned entries found under %s; repairing ownership\n", dir)
		return r.chownTree(dir, me)
	}
	return nil
}

func (r *ownershipRepairer) chownTree(dir, owner string) error {
	cmd := exec.Command("chown", "-R", owner, dir)
	if err := r.run.Run(cmd); err != nil {
		cPrintf(colError, "ownership repair of %s failed: %v\n", dir, err)
		cPrintln(colWarn, "Fix it manually and re-run:")
		cPrintf(colWarn, "  sudo chown -R %s %s\n", owner, dir)
		return fmt.Errorf("could not repair ownership of %s: %w", dir, err)
	}
	colArrow.Print("-> ")
	colSuccess.Printf("Ownership of %s restored to %s\n", dir, owner)
	return nil
}
