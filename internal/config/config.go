// Package config assembles the service configuration from an optional
// YAML file and the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oliveripkanam/K30-Creator-sub000/internal/llm"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/recognition"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/stepgen"
	"github.com/oliveripkanam/K30-Creator-sub000/internal/synthesis"
)

// DefaultAddr is the HTTP listen address.
const DefaultAddr = ":8080"

// Config is the full service configuration.
type Config struct {
	Addr    string `yaml:"addr"`
	DB      string `yaml:"db"`
	LogMode string `yaml:"log_mode"`

	LLM         llm.Config         `yaml:"llm"`
	Recognition recognition.Config `yaml:"recognition"`
	StepGen     stepgen.Config     `yaml:"stepgen"`
	Synthesis   synthesis.Config   `yaml:"synthesis"`
	Cache       CacheConfig        `yaml:"cache"`
}

// CacheConfig selects the recognition cache backend.
type CacheConfig struct {
	// Backend is "memory" (default) or "redis".
	Backend       string `yaml:"backend"`
	MaxEntries    int    `yaml:"max_entries"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:        DefaultAddr,
		LogMode:     "production",
		LLM:         llm.DefaultConfig(),
		Recognition: recognition.DefaultConfig(),
		StepGen:     stepgen.DefaultConfig(),
		Synthesis:   synthesis.DefaultConfig(),
		Cache: CacheConfig{
			Backend:     "memory",
			MaxEntries:  256,
			RedisPrefix: "k30:",
		},
	}
}

// Load reads path (if non-empty) over the defaults and then applies the
// environment.
func Load(path string) (Config, error) {
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	get := func(k string) string { return strings.TrimSpace(getenv(k)) }

	if v := get("K30_ADDR"); v != "" {
		c.Addr = v
	}
	if v := get("K30_DB"); v != "" {
		c.DB = v
	}
	if v := get("K30_LOG_MODE"); v != "" {
		c.LogMode = v
	}

	c.LLM.ApplyEnv(getenv)
	c.Recognition.ApplyEnv(getenv)

	if v := get("K30_CACHE"); v != "" {
		c.Cache.Backend = strings.ToLower(v)
	}
	if v := get("REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := get("REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := get("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Cache.RedisDB = n
	}
	return nil
}

// Validate checks the settings that do not belong to a single component.
// Provider settings are validated when the providers are built.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return errors.New("cache: redis backend needs REDIS_ADDR")
		}
	default:
		return fmt.Errorf("cache: unknown backend %q", c.Cache.Backend)
	}
	return nil
}
