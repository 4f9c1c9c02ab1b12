package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "app.layered.yml", cfg.Document)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8420, cfg.Server.Port)
	assert.False(t, cfg.Validate.Strict)
	assert.Equal(t, -1, cfg.Validate.MaxWarnings)
}

func TestLoad_FromFile(t *testing.T) {
	dir := inTempDir(t)

	content := `
project_name: billing
document: system.layered.yml
server:
  port: 9000
validate:
  strict: true
  max_warnings: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layered.yml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "billing", cfg.ProjectName)
	assert.Equal(t, "system.layered.yml", cfg.Document)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Validate.Strict)
	assert.Equal(t, 5, cfg.Validate.MaxWarnings)
}

func TestLoad_InvalidPort(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layered.yml"),
		[]byte("server:\n  port: 99999\n"), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestInProject(t *testing.T) {
	dir := inTempDir(t)
	assert.False(t, InProject())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "layered.yml"), []byte("{}\n"), 0644))
	assert.True(t, InProject())
}

func TestGetProjectRoot_WalksUp(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "layered.yml"), []byte("{}\n"), 0644))

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.Chdir(nested))

	root, err := GetProjectRoot()
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, expected, resolved)
}
