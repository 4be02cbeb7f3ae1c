package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port                   string   `toml:"port"`
	CORSOrigins            []string `toml:"cors_origins"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
}

// Neo4jConfig defaults are only suitable for local development.
type Neo4jConfig struct {
	URI            string `toml:"uri"`
	User           string `toml:"user"`
	Password       string `toml:"password"`
	Database       string `toml:"database"`
	MaxPoolSize    int    `toml:"max_pool_size"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type SearchConfig struct {
	BaseURL         string `toml:"base_url"`
	ResultsPerQuery int    `toml:"results_per_query"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

type CacheConfig struct {
	TTLHours int `toml:"ttl_hours"`
	Capacity int `toml:"capacity"`
}

// LLMConfig never carries an API key: keys arrive per request.
type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

type RelationsConfig struct {
	// Tables lists built-in synonym tables merged in order.
	Tables []string `toml:"tables"`
	// Files lists YAML synonym tables merged after the built-in ones.
	Files []string `toml:"files"`
}

type ConcurrencyConfig struct {
	Scoring int `toml:"scoring"`
}

type LogConfig struct {
	Mode string `toml:"mode"`
}

type Config struct {
	Server      ServerConfig      `toml:"server"`
	Neo4j       Neo4jConfig       `toml:"neo4j"`
	Search      SearchConfig      `toml:"search"`
	Cache       CacheConfig       `toml:"cache"`
	LLM         LLMConfig         `toml:"llm"`
	Relations   RelationsConfig   `toml:"relations"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	Log         LogConfig         `toml:"log"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                   "8080",
			CORSOrigins:            []string{"*"},
			ShutdownTimeoutSeconds: 10,
		},
		Neo4j: Neo4jConfig{
			URI:            "bolt://localhost:7687",
			User:           "neo4j",
			Password:       "passwordknow",
			MaxPoolSize:    50,
			TimeoutSeconds: 10,
		},
		Search: SearchConfig{
			BaseURL:         "https://google.serper.dev",
			ResultsPerQuery: 8,
			TimeoutSeconds:  10,
		},
		Cache: CacheConfig{
			TTLHours: 7 * 24,
			Capacity: 1000,
		},
		LLM: LLMConfig{
			Model: "gpt-4o-mini",
		},
		Relations: RelationsConfig{
			Tables: []string{"physiological"},
		},
		Concurrency: ConcurrencyConfig{
			Scoring: 4,
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

// Load reads a TOML file on top of Default. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables when they are set.
func (c *Config) ApplyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Neo4j.URI, "NEO4J_URI")
	setString(&c.Neo4j.User, "NEO4J_USER")
	setString(&c.Neo4j.Password, "NEO4J_PASSWORD")
	setString(&c.Neo4j.Database, "NEO4J_DATABASE")
	setInt(&c.Neo4j.MaxPoolSize, "NEO4J_MAX_POOL_SIZE")
	setInt(&c.Neo4j.TimeoutSeconds, "NEO4J_TIMEOUT_SECONDS")
	setString(&c.Search.BaseURL, "SEARCH_BASE_URL")
	setInt(&c.Search.TimeoutSeconds, "SEARCH_TIMEOUT_SECONDS")
	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.BaseURL, "LLM_BASE_URL")
	setString(&c.Log.Mode, "LOG_MODE")
}

func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

func (c *Config) SearchTimeout() time.Duration {
	if c.Search.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Search.TimeoutSeconds) * time.Second
}

func (c *Config) Neo4jTimeout() time.Duration {
	if c.Neo4j.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Neo4j.TimeoutSeconds) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Server.ShutdownTimeoutSeconds) * time.Second
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
		*dst = parsed
	}
}
