package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gridclash/backend/internal/progression"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Season   SeasonConfig   `yaml:"season"`
}

type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type CacheConfig struct {
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type SeasonConfig struct {
	Start string `yaml:"start"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "gridclash.db",
		},
		Season: SeasonConfig{
			Start: progression.DefaultSeasonStart.Format(time.RFC3339),
		},
	}
}

// Load reads the YAML config at path. A missing file is not an error: the
// built-in defaults are returned so the server can run unconfigured.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SeasonStart parses the configured season start timestamp.
func (c *Config) SeasonStart() (time.Time, error) {
	if c.Season.Start == "" {
		return progression.DefaultSeasonStart, nil
	}
	t, err := time.Parse(time.RFC3339, c.Season.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing season start: %w", err)
	}
	return t.UTC(), nil
}
