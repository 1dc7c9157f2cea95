package rdbuild

import (
	"fmt"
	"io"
	"os"
	"strings"

	"lukechampine.com/blake3"
)

const checksumManifest = "bundle/CHECKSUMS.b3"

// hashFile returns the hex BLAKE3 digest (32-byte output, no key) of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// verifyArtifacts checks that the key build outputs exist and records their
// BLAKE3 digests in bundle/CHECKSUMS.b3 so later runs can spot drift. Missing
// artifacts are reported individually; the caller decides whether that stops
// anything.
func verifyArtifacts() error {
	var missing []string
	var manifest strings.Builder

	for _, rel := range keyArtifacts {
		path := inRoot(rel)
		if !pathExists(path) {
			cPrintf(colError, "missing build artifact: %s\n", rel)
			missing = append(missing, rel)
			continue
		}
		colArrow.Print("-> ")
		colSuccess.Printf("artifact present: %s\n", rel)

		sum, err := hashFile(path)
		if err != nil {
			cPrintf(colWarn, "could not hash %s: %v\n", rel, err)
			continue
		}
		fmt.Fprintf(&manifest, "%s  %s\n", sum, rel)
	}

	if manifest.Len() > 0 {
		if err := os.WriteFile(inRoot(checksumManifest), []byte(manifest.String()), 0o644); err != nil {
			return fmt.Errorf("failed to write checksum manifest: %w", err)
		}
		debugf("Wrote %s\n", checksumManifest)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%d build artifact(s) missing: %s", len(missing), strings.Join(missing, ", "))
	}
	return nil
}
