package rdbuild

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageBundleDisabledIsNoop(t *testing.T) {
	setupProject(t)
	ArchiveWant = false

	path, err := packageBundle()
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestPackageBundleGzip(t *testing.T) {
	dir := setupProject(t)
	ArchiveWant = true
	CompressWant = "gzip"
	require.NoError(t, writeFile(dir, "bundle/rdmind.js", "#!/usr/bin/env node\n"))

	path, err := packageBundle()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "rdmind-"+version+"-"+arch+".tar.gz"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := pgzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	found := false
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		if hdr.Name == "rdmind.js" {
			found = true
			assert.Equal(t, 0, hdr.Uid, "entries are portably root-owned")
			content, err := io.ReadAll(tr)
			require.NoError(t, err)
			assert.Equal(t, "#!/usr/bin/env node\n", string(content))
		}
	}
	assert.True(t, found, "bundle content missing from the archive")
}

func TestPackageBundleZstd(t *testing.T) {
	dir := setupProject(t)
	ArchiveWant = true
	CompressWant = "zstd"
	require.NoError(t, writeFile(dir, "bundle/rdmind.js", "x"))

	path, err := packageBundle()
	require.NoError(t, err)
	assert.Equal(t, ".zst", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	zr, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	tr := tar.NewReader(zr)
	_, err = tr.Next()
	require.NoError(t, err, "archive must be a readable zstd tar stream")
}

func TestPackageBundleUnknownFormat(t *testing.T) {
	dir := setupProject(t)
	ArchiveWant = true
	CompressWant = "lzma"
	require.NoError(t, writeFile(dir, "bundle/rdmind.js", "x"))

	_, err := packageBundle()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lzma")
}

func TestPackageBundleMissingBundleDir(t *testing.T) {
	setupProject(t)
	ArchiveWant = true

	_, err := packageBundle()
	require.Error(t, err)
}
