package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBackendServers_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backend-servers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"mcpServers": {
			"s1": {"transport": "stdio", "command": "echo", "args": ["hi"]}
		}
	}`), 0o644))

	cfg, err := LoadBackendServers(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.MCPServers, "s1")
}

func TestLoadBackendServers_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backend-servers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"mcpServers": {"s1": {"transport": "stdio", "command": "echo"}},
		"bogusTopLevel": true
	}`), 0o644))

	_, err := LoadBackendServers(path)
	require.Error(t, err)
}

func TestLoadBackendServers_BootstrapFromExample(t *testing.T) {
	dir := t.TempDir()
	examplePath := filepath.Join(dir, "backend-servers.example.json")
	require.NoError(t, os.WriteFile(examplePath, []byte(`{
		"mcpServers": {"demo": {"transport": "stdio", "command": "true"}}
	}`), 0o644))

	path := filepath.Join(dir, "backend-servers.json")
	cfg, err := LoadBackendServers(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.MCPServers, "demo")
	assert.FileExists(t, path)
}

func TestLoadBackendServers_MissingTransportInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backend-servers.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"mcpServers": {"s1": {"command": "echo"}}
	}`), 0o644))

	_, err := LoadBackendServers(path)
	require.Error(t, err)
}

func TestLoadGroups_DuplicateToolNameInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groups.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"groups": {
			"g1": {
				"name": "g1",
				"tools": [
					{"serverName": "s1", "originalName": "a", "name": "x"},
					{"serverName": "s2", "originalName": "b", "name": "x"}
				],
				"resources": [],
				"prompts": []
			}
		}
	}`), 0o644))

	_, err := LoadGroups(path)
	require.Error(t, err)
}

func TestLoadGroups_EmptyGroupIsValid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groups.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"groups": {"g1": {"name": "g1", "tools": [], "resources": [], "prompts": []}}
	}`), 0o644))

	cfg, err := LoadGroups(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Groups["g1"].Tools)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("GW_TEST_VAR", "value")
	got, missing := ExpandEnv("prefix-${GW_TEST_VAR}-suffix")
	assert.Equal(t, "prefix-value-suffix", got)
	assert.Empty(t, missing)

	got, missing = ExpandEnv("${GW_TEST_MISSING}")
	assert.Equal(t, "${GW_TEST_MISSING}", got)
	assert.Equal(t, []string{"GW_TEST_MISSING"}, missing)
}
