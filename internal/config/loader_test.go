package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIsolatedLoader() *Loader {
	return &Loader{v: viper.New()}
}

func TestLoadWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "certex.yaml")
	content := `
vendors_dir: /opt/certex/vendors
log_level: debug
output:
  format: json
batch:
  workers: 12
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := newIsolatedLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/certex/vendors", cfg.VendorsDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 12, cfg.Batch.Workers)
	// Untouched settings keep their defaults
	assert.Equal(t, "localhost:9090", cfg.Metrics.Addr)
}

func TestLoadWithFile_Missing(t *testing.T) {
	_, err := newIsolatedLoader().LoadWithFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadWithFile_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "certex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o600))

	_, err := newIsolatedLoader().LoadWithFile(path)
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("CERTEX_LOG_LEVEL", "warn")
	t.Setenv("CERTEX_VENDORS_DIR", "/etc/certex/vendors")

	cfg, err := newIsolatedLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/etc/certex/vendors", cfg.VendorsDir)
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/certex")
}
