package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/domain"
)

func TestManager_GetLocalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		dataDir := t.TempDir()
		writeConfigFile(t, dataDir, "[log]\nlevel = \"debug\"")

		info := NewManagerWithGlobalDir(dataDir, "").GetLocalConfigInfo()

		assert.Equal(t, filepath.Join(dataDir, domain.ConfigFileName), info.Path)
		assert.Equal(t, "[log]\nlevel = \"debug\"", info.Content)
		assert.True(t, info.Exists)
	})

	t.Run("returns info when file does not exist", func(t *testing.T) {
		dataDir := t.TempDir()

		info := NewManagerWithGlobalDir(dataDir, "").GetLocalConfigInfo()

		assert.Equal(t, filepath.Join(dataDir, domain.ConfigFileName), info.Path)
		assert.Empty(t, info.Content)
		assert.False(t, info.Exists)
	})
}

func TestManager_GetGlobalConfigInfo(t *testing.T) {
	t.Run("returns info when file exists", func(t *testing.T) {
		globalDir := t.TempDir()
		writeConfigFile(t, globalDir, "[server]\naddr = \":1\"")

		info := NewManagerWithGlobalDir("", globalDir).GetGlobalConfigInfo()

		assert.True(t, info.Exists)
		assert.Equal(t, "[server]\naddr = \":1\"", info.Content)
	})

	t.Run("returns empty info when global dir is empty", func(t *testing.T) {
		info := NewManagerWithGlobalDir("", "").GetGlobalConfigInfo()

		assert.Empty(t, info.Path)
		assert.False(t, info.Exists)
	})
}

func TestManager_InitLocalConfig(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), domain.DataDirName)
		cfg := domain.NewDefaultConfig()
		cfg.Server.Addr = ":9999"

		err := NewManagerWithGlobalDir(dataDir, "").InitLocalConfig(cfg)

		require.NoError(t, err)
		content, err := os.ReadFile(filepath.Join(dataDir, domain.ConfigFileName))
		require.NoError(t, err)
		assert.Contains(t, string(content), `addr = ":9999"`)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		dataDir := t.TempDir()
		writeConfigFile(t, dataDir, "# mine\n")

		err := NewManagerWithGlobalDir(dataDir, "").InitLocalConfig(domain.NewDefaultConfig())

		assert.ErrorIs(t, err, domain.ErrConfigExists)
		content, _ := os.ReadFile(filepath.Join(dataDir, domain.ConfigFileName))
		assert.Equal(t, "# mine\n", string(content))
	})
}

func TestManager_InitGlobalConfig(t *testing.T) {
	t.Run("creates directory and file", func(t *testing.T) {
		globalDir := filepath.Join(t.TempDir(), "shopdesk")

		err := NewManagerWithGlobalDir("", globalDir).InitGlobalConfig(domain.NewDefaultConfig())

		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(globalDir, domain.ConfigFileName))
	})

	t.Run("fails without global dir", func(t *testing.T) {
		err := NewManagerWithGlobalDir("", "").InitGlobalConfig(domain.NewDefaultConfig())
		assert.Error(t, err)
	})
}
