// Package config loads coursesmith configuration from defaults, an optional
// YAML file and COURSESMITH_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/alexanderramin/coursesmith/internal/course"
	"github.com/alexanderramin/coursesmith/internal/llm"
	"github.com/alexanderramin/coursesmith/internal/logging"
	"github.com/alexanderramin/coursesmith/internal/video"
)

const (
	// EnvPrefix prefixes every environment override. Nested keys use "__":
	// COURSESMITH_LLM__API_KEY sets llm.api_key.
	EnvPrefix = "COURSESMITH_"
	// PathEnvVar names a config file when --config is not given.
	PathEnvVar = "COURSESMITH_CONFIG"
	// DefaultFile is read from the working directory when present.
	DefaultFile = "coursesmith.yaml"
	// APIKeyFallbackEnvVar is used when llm.api_key is not set.
	APIKeyFallbackEnvVar = "OPENAI_API_KEY"
)

// Config aggregates every package's configuration.
type Config struct {
	DBPath string         `koanf:"db_path"`
	Log    logging.Config `koanf:"log"`
	LLM    llm.Config     `koanf:"llm"`
	Video  video.Config   `koanf:"video"`
	Course course.Config  `koanf:"course"`
}

// Default returns the built-in configuration. The database lives in
// ~/.coursesmith unless overridden.
func Default() Config {
	dbPath := "coursesmith.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".coursesmith", "coursesmith.db")
	}
	return Config{
		DBPath: dbPath,
		Log:    logging.DefaultConfig(),
		LLM:    llm.DefaultConfig(),
		Video:  video.DefaultConfig(),
		Course: course.DefaultConfig(),
	}
}

// Load builds the configuration. path may be empty, in which case
// COURSESMITH_CONFIG and then ./coursesmith.yaml are tried.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if p := findConfigFile(path); p != "" {
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", p, err)
		}
	} else if path != "" {
		return nil, fmt.Errorf("config file %s not found", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if k.String("llm.api_key") == "" {
		if key := os.Getenv(APIKeyFallbackEnvVar); key != "" {
			if err := k.Set("llm.api_key", key); err != nil {
				return nil, fmt.Errorf("setting api key: %w", err)
			}
		}
	}

	// Unmarshal over the defaults so fields koanf skips (per-task LLM
	// settings) keep their built-in values.
	cfg := defaults
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Video.ModuleCount = cfg.Course.ModuleCount

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.DBPath != "", "db_path is empty")
	check(c.LLM.Endpoint != "", "llm.endpoint is empty")
	check(c.LLM.Model != "", "llm.model is empty")
	check(c.LLM.MaxAttempts > 0, "llm.max_attempts must be positive, got %d", c.LLM.MaxAttempts)
	check(c.LLM.MaxConcurrent > 0, "llm.max_concurrent must be positive, got %d", c.LLM.MaxConcurrent)
	check(c.LLM.RequestsPerMinute >= 0, "llm.requests_per_minute must not be negative, got %d", c.LLM.RequestsPerMinute)
	check(c.LLM.Timeout > 0, "llm.timeout must be positive")
	check(c.Video.TargetCount > 0, "video.target_count must be positive, got %d", c.Video.TargetCount)
	check(c.Video.MinMinutes >= 0, "video.min_minutes must not be negative")
	check(c.Video.MinMinutes <= c.Video.MaxMinutes,
		"video.min_minutes (%g) exceeds video.max_minutes (%g)", c.Video.MinMinutes, c.Video.MaxMinutes)
	check(c.Video.NonLatinThreshold > 0 && c.Video.NonLatinThreshold <= 1,
		"video.non_latin_threshold must be in (0, 1], got %g", c.Video.NonLatinThreshold)
	check(c.Course.ModuleCount > 0, "course.module_count must be positive, got %d", c.Course.ModuleCount)
	check(c.Course.ModuleBudget > 0, "course.module_budget must be positive")
	check(c.Course.Batch.Size > 0, "course.batch.size must be positive, got %d", c.Course.Batch.Size)
	check(c.Course.Batch.InterBatchDelay >= 0, "course.batch.inter_batch_delay must not be negative")

	return errors.Join(errs...)
}

func findConfigFile(explicit string) string {
	candidates := []string{explicit, os.Getenv(PathEnvVar), DefaultFile}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
		if p == explicit {
			return ""
		}
	}
	return ""
}

// envKey maps COURSESMITH_LLM__API_KEY to llm.api_key. Variables that are
// not config keys return "" and are skipped.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "config" {
		return ""
	}
	return strings.ReplaceAll(key, "__", ".")
}
