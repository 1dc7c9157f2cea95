package rdbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/blake3"
)

func TestVerifyArtifactsWritesChecksumManifest(t *testing.T) {
	dir := setupProject(t)
	for _, rel := range keyArtifacts {
		require.NoError(t, writeFile(dir, rel, "content of "+rel))
	}

	require.NoError(t, verifyArtifacts())

	data, err := os.ReadFile(filepath.Join(dir, "bundle", "CHECKSUMS.b3"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, len(keyArtifacts))

	h := blake3.New(32, nil)
	h.Write([]byte("content of " + keyArtifacts[0]))
	want := fmt.Sprintf("%x  %s", h.Sum(nil), keyArtifacts[0])
	assert.Equal(t, want, lines[0])
}

func TestVerifyArtifactsReportsMissing(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, writeFile(dir, keyArtifacts[0], "present"))

	err := verifyArtifacts()
	require.Error(t, err)
	assert.Contains(t, err.Error(), keyArtifacts[1])

	// the manifest still covers what exists
	data, readErr := os.ReadFile(filepath.Join(dir, "bundle", "CHECKSUMS.b3"))
	require.NoError(t, readErr)
	assert.Contains(t, string(data), keyArtifacts[0])
}

func TestHashFileMatchesKnownDigest(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, writeFile(dir, "f.txt", "hello"))

	got, err := hashFile(filepath.Join(dir, "f.txt"))
	require.NoError(t, err)

	h := blake3.New(32, nil)
	h.Write([]byte("hello"))
	assert.Equal(t, fmt.Sprintf("%x", h.Sum(nil)), got)
}
