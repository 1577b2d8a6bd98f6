package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxItems, cfg.MaxItems)
	assert.Equal(t, DefaultEveningHour, cfg.EveningHour)
	assert.Equal(t, DefaultNotionVersion, cfg.NotionVersion)
	assert.Equal(t, []string{"terminal"}, cfg.Notifiers)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	cfg := Default()
	cfg.MaxItems = 4
	cfg.Store = "sqlite"
	cfg.NotionToken = "secret"
	require.NoError(t, Save(cfg))

	path, err := GetConfigPath()
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.MaxItems)
	assert.Equal(t, "sqlite", loaded.Store)
	assert.Empty(t, loaded.NotionToken)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("env file fills unset variables", func(t *testing.T) {
		t.Setenv("NOTION_TOKEN", "")
		require.NoError(t, os.Unsetenv("NOTION_TOKEN"))
		t.Setenv("NOTION_DB_ID", "from-shell")

		envFile := filepath.Join(t.TempDir(), ".env.local")
		require.NoError(t, os.WriteFile(envFile, []byte("NOTION_TOKEN=from-file\nNOTION_DB_ID=from-file\n"), 0600))
		require.NoError(t, LoadEnvFile(envFile))

		cfg := Default()
		cfg.ApplyEnv()
		assert.Equal(t, "from-file", cfg.NotionToken)
		assert.Equal(t, "from-shell", cfg.DatabaseID)
	})

	t.Run("missing env file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "nope")))
	})

	t.Run("notifier list and evening hour", func(t *testing.T) {
		t.Setenv("SYSTASKS_NOTIFIERS", "terminal, calendar,")
		t.Setenv("SYSTASKS_EVENING_HOUR", "21")

		cfg := Default()
		cfg.ApplyEnv()
		assert.Equal(t, []string{"terminal", "calendar"}, cfg.Notifiers)
		assert.Equal(t, 21, cfg.EveningHour)
	})

	t.Run("invalid evening hour is ignored", func(t *testing.T) {
		t.Setenv("SYSTASKS_EVENING_HOUR", "25")
		cfg := Default()
		cfg.ApplyEnv()
		assert.Equal(t, DefaultEveningHour, cfg.EveningHour)
	})
}
