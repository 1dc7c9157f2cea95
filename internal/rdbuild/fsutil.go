package rdbuild

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// pathExists reports whether path exists (without following a final symlink).
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// LockPath is the single-instance lock file inside the project root.
func LockPath() string {
	return inRoot(LockFileName)
}

// AcquireLock takes an exclusive advisory lock on the project lock file so
// two orchestrators cannot interleave npm runs in the same checkout. The
// returned release function unlocks and closes the file.
func AcquireLock(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("another rdbuild is already running in this project")
		}
		return nil, fmt.Errorf("cannot lock %s: %w", path, err)
	}
	return func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}
