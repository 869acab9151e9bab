package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binlabs/pebblebin/pkg/config"
)

func TestResolveConfigMergesFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	fileCfg := config.DefaultConfig()
	fileCfg.DataDir = "/srv/pebblebin-data"
	fileCfg.Port = 9090
	fileCfg.APIKey = "file-key"
	require.NoError(t, config.SaveConfig(fileCfg, path))

	require.NoError(t, serveCmd.Flags().Set("config", path))

	// File values apply, the data directory included.
	cfg, err := resolveConfig(serveCmd)
	require.NoError(t, err)
	assert.Equal(t, "/srv/pebblebin-data", cfg.DataDir)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "file-key", cfg.APIKey)

	// Explicit flags win over the file; the untouched data directory does not.
	require.NoError(t, serveCmd.Flags().Set("port", "7070"))
	require.NoError(t, serveCmd.Flags().Set("api-key", "flag-key"))

	cfg, err = resolveConfig(serveCmd)
	require.NoError(t, err)
	assert.Equal(t, "/srv/pebblebin-data", cfg.DataDir)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "flag-key", cfg.APIKey)
}
