package rdbuild

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionMajor(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"v22.4.0", 22, false},
		{"v20.0.0\n", 20, false},
		{"10.8.2", 10, false},
		{"8", 8, false},
		{"", 0, true},
		{"v", 0, true},
		{"banana", 0, true},
	}
	for _, tt := range tests {
		got, err := parseVersionMajor(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestCheckEnvironmentHappyPath(t *testing.T) {
	setupProject(t)
	run := &fakeRunner{outputs: toolOutputs()}
	require.NoError(t, checkEnvironment(run))
}

func TestCheckEnvironmentNodeTooOld(t *testing.T) {
	setupProject(t)
	run := &fakeRunner{outputs: map[string]string{
		"node --version": "v18.19.0\n",
		"npm --version":  "10.8.2\n",
	}}
	err := checkEnvironment(run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Node.js")
}

func TestCheckEnvironmentNodeMissing(t *testing.T) {
	setupProject(t)
	run := &fakeRunner{errs: map[string]error{
		"node --version": errors.New("executable file not found in $PATH"),
	}}
	err := checkEnvironment(run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nodejs.org")
}

func TestCheckEnvironmentOldNpmOnlyWarns(t *testing.T) {
	setupProject(t)
	run := &fakeRunner{outputs: map[string]string{
		"node --version": "v22.4.0\n",
		"npm --version":  "6.14.18\n",
	}}
	require.NoError(t, checkEnvironment(run))
}

func TestCheckEnvironmentNpmMissing(t *testing.T) {
	setupProject(t)
	run := &fakeRunner{
		outputs: map[string]string{"node --version": "v22.4.0\n"},
		errs:    map[string]error{"npm --version": errors.New("executable file not found in $PATH")},
	}
	err := checkEnvironment(run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "npm")
}

func TestCheckStructureQuickOnlyNeedsRootManifest(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, writeFile(dir, "package.json", "{}"))

	assert.NoError(t, checkStructure(ModeQuick))
	assert.Error(t, checkStructure(ModeFull), "full mode also requires the nested package manifests")
}
