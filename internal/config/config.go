package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/grimorio-eterno/grimorio-backend/internal/domain"
)

// Config holds all runtime settings, loaded from YAML with env overrides.
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Content struct {
		// Root is the directory holding per-campaign content trees.
		Root string `yaml:"root"`
		// PublicRoot is the directory serving static files; temp and
		// saved images live under it.
		PublicRoot string `yaml:"public_root"`
	} `yaml:"content"`

	Upload struct {
		// MaxSizeBytes caps accepted image uploads (default 5 MiB).
		MaxSizeBytes int64 `yaml:"max_size_bytes"`
	} `yaml:"upload"`

	CORS struct {
		AllowOrigins string `yaml:"allow_origins"`
	} `yaml:"cors"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Campaigns []domain.Campaign `yaml:"campaigns"`
}

// Load reads the YAML config file at path and applies env overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Content.Root == "" {
		cfg.Content.Root = "content"
	}
	if cfg.Content.PublicRoot == "" {
		cfg.Content.PublicRoot = "public"
	}
	if cfg.Upload.MaxSizeBytes == 0 {
		cfg.Upload.MaxSizeBytes = 5 * 1024 * 1024
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("CONTENT_ROOT"); v != "" {
		cfg.Content.Root = v
	}
	if v := os.Getenv("PUBLIC_ROOT"); v != "" {
		cfg.Content.PublicRoot = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORS.AllowOrigins = v
	}
}

// IsDevelopment reports whether the server runs in development mode.
// Admin CRUD routes are only enabled in this mode.
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "development", "dev", "local":
		return true
	}
	return false
}
