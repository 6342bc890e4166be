package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.json5"))
		require.NoError(t, err)
		assert.Empty(t, cfg.Format)
		assert.Empty(t, cfg.Netrc)
		assert.Empty(t, cfg.Cache)
	})

	t.Run("parses json5 with comments", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json5")
		content := `{
			// default token format for all registries
			"format": "Bearer {{password}}",
			"cache": "never"
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := loadFrom(path)
		require.NoError(t, err)
		assert.Equal(t, "Bearer {{password}}", cfg.Format)
		assert.Equal(t, "never", cfg.Cache)
		assert.Empty(t, cfg.Netrc)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json5")
		require.NoError(t, os.WriteFile(path, []byte("{format:"), 0600))

		_, err := loadFrom(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})
}

func TestConfigPath(t *testing.T) {
	path := ConfigPath()
	assert.True(t, strings.HasSuffix(path, filepath.Join("cargo-credential-netrc", "config.json5")))
	assert.Equal(t, ConfigDir(), filepath.Dir(path))
}

func TestDefaultNetrcPath(t *testing.T) {
	path := DefaultNetrcPath()
	assert.True(t, filepath.IsAbs(path))
	assert.Contains(t, filepath.Base(path), "netrc")
}
