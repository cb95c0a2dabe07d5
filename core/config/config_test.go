package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "atcoder", cfg.ExcludedNamespace)
	assert.Empty(t, cfg.IncludeDirs)
	assert.Empty(t, cfg.Path)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := `include_dirs: [lib, /abs/include]
system_headers: [my_sys.h]
output: bundle.cpp
max_depth: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "lib"), "/abs/include"}, cfg.IncludeDirs)
	assert.Equal(t, "atcoder", cfg.ExcludedNamespace, "unset field keeps default")
	assert.Equal(t, []string{"my_sys.h"}, cfg.SystemHeaders)
	assert.Equal(t, "bundle.cpp", cfg.Output)
	assert.Equal(t, 5, cfg.MaxDepth)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.Path)
}

func TestLoadEmptyNamespaceDisablesRule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`excluded_namespace: ""`), 0644))

	cfg, err := Load(t.TempDir(), path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.ExcludedNamespace)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("include_dirs: {"), 0644))
	_, err = Load(dir, "")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("max_depth: -1"), 0644))
	_, err = Load(dir, "")
	assert.Error(t, err)
}

func TestSearchDirsOrder(t *testing.T) {
	sep := string(os.PathListSeparator)
	t.Setenv(EnvIncludePath, "/env/one"+sep+sep+"/env/two")

	cfg := &Config{IncludeDirs: []string{"/cfg"}}
	assert.Equal(t,
		[]string{"/env/one", "/env/two", "/cfg", "/flag/a", "/flag/b"},
		cfg.SearchDirs([]string{"/flag/a", "/flag/b"}))
}

func TestSearchDirsWithoutEnv(t *testing.T) {
	t.Setenv(EnvIncludePath, "")
	assert.Empty(t, Default().SearchDirs(nil))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadEnv(dir), "missing .env is fine")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvIncludePath+"=/from/dotenv\n"), 0644))

	t.Setenv(EnvIncludePath, "/already/set")
	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, []string{"/already/set"}, EnvIncludeDirs())

	// t.Setenv restores the variable afterwards; unset it for this check
	require.NoError(t, os.Unsetenv(EnvIncludePath))
	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, []string{"/from/dotenv"}, EnvIncludeDirs())
}
