package rdbuild

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFirstInstall(t *testing.T) {
	dir := setupProject(t)
	assert.True(t, isFirstInstall())

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules"), 0o755))
	assert.False(t, isFirstInstall())
}

func TestCleanStageFirstInstallRemovesOnlyStaleBundle(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, writeFile(dir, "bundle/rdmind.js", "stale"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0o755))

	run := &fakeRunner{}
	require.NoError(t, cleanStage(run, true))

	assert.NoDirExists(t, filepath.Join(dir, "bundle"))
	assert.DirExists(t, filepath.Join(dir, "dist"), "first install never touches other outputs")
	assert.Empty(t, run.calls)
}

func TestCleanStageUpdateDelegatesToNpm(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bundle"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0o755))

	run := &fakeRunner{}
	require.NoError(t, cleanStage(run, false))

	assert.NoDirExists(t, filepath.Join(dir, "bundle"))
	assert.Equal(t, 1, run.countCalls("npm", "run", "clean"))
	assert.DirExists(t, filepath.Join(dir, "dist"), "delegated clean is trusted when it succeeds")
}

func TestCleanStageUpdateManualFallback(t *testing.T) {
	dir := setupProject(t)
	for _, rel := range outputDirs {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, rel), 0o755))
	}

	run := &fakeRunner{errs: map[string]error{"npm run clean": errors.New("exit status 1")}}
	require.NoError(t, cleanStage(run, false))

	for _, rel := range outputDirs {
		assert.NoDirExists(t, filepath.Join(dir, rel))
	}
}

func TestQuickCleanRemovesDistTrees(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "packages/core/dist"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0o755))
	// packages/cli/dist intentionally absent

	root := &fakeRunner{}
	require.NoError(t, quickClean(root))

	assert.NoDirExists(t, filepath.Join(dir, "packages/core/dist"))
	assert.NoDirExists(t, filepath.Join(dir, "dist"))
	assert.Empty(t, root.calls, "no elevation needed when plain removal works")
}
