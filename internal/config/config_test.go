package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, 1000, cfg.Cache.Capacity)
	assert.Equal(t, 7*24*time.Hour, cfg.CacheTTL())
	assert.Equal(t, []string{"physiological"}, cfg.Relations.Tables)
}

func TestLoad_OverridesFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[server]
port = "9090"

[cache]
ttl_hours = 1
capacity = 10

[relations]
tables = ["physiological", "disease"]
files = ["extra.yaml"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.CacheTTL())
	assert.Equal(t, 10, cfg.Cache.Capacity)
	assert.Equal(t, []string{"physiological", "disease"}, cfg.Relations.Tables)
	assert.Equal(t, []string{"extra.yaml"}, cfg.Relations.Files)
	// untouched sections keep their defaults
	assert.Equal(t, "neo4j", cfg.Neo4j.User)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport="), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("NEO4J_MAX_POOL_SIZE", "not-a-number")
	t.Setenv("LLM_PROVIDER", "ollama")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "bolt://graph:7687", cfg.Neo4j.URI)
	assert.Equal(t, 50, cfg.Neo4j.MaxPoolSize)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
}

func TestDurations_FallBackWhenUnset(t *testing.T) {
	cfg := &Config{}

	assert.Equal(t, 7*24*time.Hour, cfg.CacheTTL())
	assert.Equal(t, 10*time.Second, cfg.SearchTimeout())
	assert.Equal(t, 10*time.Second, cfg.Neo4jTimeout())
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout())

	cfg.Neo4j.TimeoutSeconds = 3
	cfg.Search.TimeoutSeconds = 5
	assert.Equal(t, 3*time.Second, cfg.Neo4jTimeout())
	assert.Equal(t, 5*time.Second, cfg.SearchTimeout())
}
