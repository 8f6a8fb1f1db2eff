package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dashsearch/internal/domain/models"
	"dashsearch/internal/services/index"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, index.EngineTrie, cfg.Index.Engine)
	assert.Equal(t, 100*time.Millisecond, cfg.Search.QuietPeriod)
	assert.Equal(t, 0, cfg.Search.StateLimit)
	assert.Equal(t, 3, cfg.Search.DistrictLimit)
	assert.Equal(t, 5, cfg.Search.ResourceLimit)
	assert.Equal(t, "https://api.nepalcovid19.org/state-district-wise.json", cfg.Remote.DistrictsURL)
	assert.Equal(t, models.DefaultRegions, cfg.Regions)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
env: "prod"
index:
  engine: "kv"
search:
  quiet_period: 250ms
  district_limit: 4
remote:
  resources_url: "http://localhost:9000/resources.json"
regions:
  - { name: "Bagmati", code: "P3" }
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, index.EngineKV, cfg.Index.Engine)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.QuietPeriod)
	assert.Equal(t, 4, cfg.Search.DistrictLimit)
	assert.Equal(t, 5, cfg.Search.ResourceLimit)
	assert.Equal(t, "http://localhost:9000/resources.json", cfg.Remote.ResourcesURL)
	assert.Equal(t, []models.Region{{Name: "Bagmati", Code: "P3"}}, cfg.Regions)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "index:\n  engine: \"trie\"\n")
	t.Setenv("INDEX_ENGINE", "kv")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, index.EngineKV, cfg.Index.Engine)
}

func TestLoadPathFromEnv(t *testing.T) {
	path := writeConfig(t, "env: \"dev\"\n")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown engine", body: "index:\n  engine: \"btree\"\n"},
		{name: "unknown env", body: "env: \"staging\"\n"},
		{name: "negative limit", body: "search:\n  resource_limit: -1\n"},
		{name: "duplicate region", body: "regions:\n  - { name: \"Bagmati\", code: \"P3\" }\n  - { name: \"Gandaki\", code: \"P3\" }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeConfig(t, "index:\n  engine: \"btree\"\n"))
	assert.ErrorIs(t, err, index.ErrUnknownEngine)
}

func TestMustLoadPanics(t *testing.T) {
	path := writeConfig(t, "index:\n  engine: \"btree\"\n")
	assert.Panics(t, func() { MustLoad(path) })
}
