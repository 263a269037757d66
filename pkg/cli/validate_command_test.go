//go:build !integration

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homecfg/refcheck/pkg/constants"
	"github.com/homecfg/refcheck/pkg/validator"
)

const cliEntityRegistry = `{
  "data": {
    "entities": [
      {"entity_id": "light.kitchen", "platform": "hue", "disabled_by": null}
    ]
  }
}`

const cliDeviceRegistry = `{"data": {"devices": []}}`
const cliAreaRegistry = `{"data": {"areas": []}}`

func newCLIConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	storage := filepath.Join(dir, constants.StorageDirName)
	require.NoError(t, os.MkdirAll(storage, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(storage, constants.EntityRegistryFile), []byte(cliEntityRegistry), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(storage, constants.DeviceRegistryFile), []byte(cliDeviceRegistry), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(storage, constants.AreaRegistryFile), []byte(cliAreaRegistry), 0o600))
	return dir
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateCommandValidConfig(t *testing.T) {
	dir := newCLIConfigDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lights.yaml"),
		[]byte("light:\n  entity_id: light.kitchen\n"), 0o600))

	out, err := runCommand(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "All references are valid")
}

func TestValidateCommandInvalidConfig(t *testing.T) {
	dir := newCLIConfigDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lights.yaml"),
		[]byte("light:\n  entity_id: light.ghost\n"), 0o600))

	out, err := runCommand(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 config dirs failed validation")
	assert.Contains(t, out, "Unknown entity 'light.ghost'")
}

func TestValidateCommandMultipleDirs(t *testing.T) {
	good := newCLIConfigDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(good, "lights.yaml"),
		[]byte("light:\n  entity_id: light.kitchen\n"), 0o600))
	bad := newCLIConfigDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(bad, "lights.yaml"),
		[]byte("light:\n  entity_id: light.ghost\n"), 0o600))

	out, err := runCommand(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 config dirs failed validation")
	assert.Contains(t, out, good)
	assert.Contains(t, out, bad)
}

func TestValidateCommandJSONOutput(t *testing.T) {
	dir := newCLIConfigDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lights.yaml"),
		[]byte("light:\n  entity_id: light.ghost\n"), 0o600))

	out, err := runCommand(t, "validate", "--json", dir)
	require.Error(t, err)

	var results []jsonResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, dir, results[0].ConfigDir)
	assert.False(t, results[0].Valid)
	require.Len(t, results[0].Errors, 1)
	assert.Equal(t, "Unknown entity 'light.ghost'", results[0].Errors[0].Message)
	assert.Empty(t, results[0].Warnings)
}

func TestRunValidationPreservesOrder(t *testing.T) {
	dirs := []string{newCLIConfigDir(t), newCLIConfigDir(t), newCLIConfigDir(t)}
	results := runValidation(dirs, validator.DefaultSettings())
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, dirs[i], res.ConfigDir)
		require.NotNil(t, res.Report)
	}
}

func TestEntitiesCommand(t *testing.T) {
	dir := newCLIConfigDir(t)

	out, err := runCommand(t, "entities", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "light")
	assert.Contains(t, out, "light.kitchen")
}

func TestEntitiesCommandMissingRegistry(t *testing.T) {
	_, err := runCommand(t, "entities", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
