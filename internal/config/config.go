// Package config loads langdrill settings from an optional YAML file and
// LANGDRILL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	// DBPath overrides the default SQLite location when set.
	DBPath string `mapstructure:"db"`

	// FixturesDir replaces the embedded sample fixtures when set.
	FixturesDir string `mapstructure:"fixtures"`

	LogMode string `mapstructure:"log_mode"` // dev or prod
	LogFile string `mapstructure:"log_file"`

	LLM       LLMConfig       `mapstructure:"llm"`
	Evaluator EvaluatorConfig `mapstructure:"evaluator"`
	Progress  ProgressConfig  `mapstructure:"progress"`
}

// LLMConfig picks the model used by the llm evaluator. With Provider
// empty, the first vendor whose API key is in the environment wins.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`

	// MaxAttempts of 1 means a failed call is reported, not repeated.
	MaxAttempts int           `mapstructure:"max_attempts"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// EvaluatorConfig selects how open responses are scored.
type EvaluatorConfig struct {
	// Mode is one of "llm", "http" or "none".
	Mode string `mapstructure:"mode"`
	URL  string `mapstructure:"url"`

	// Transcriber is one of "http", "whisper", "google" or "none".
	Transcriber   string `mapstructure:"transcriber"`
	TranscribeURL string `mapstructure:"transcribe_url"`
	LanguageCode  string `mapstructure:"language_code"`

	// GoogleCredentials is a service account file for the google
	// transcriber. Empty uses application default credentials.
	GoogleCredentials string `mapstructure:"google_credentials"`

	// Timeout bounds a single evaluation or transcription call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ProgressConfig selects where progress records are kept.
type ProgressConfig struct {
	// Backend is "sqlite" or "redis".
	Backend       string `mapstructure:"backend"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogMode: "dev",
		LLM: LLMConfig{
			MaxAttempts: 1,
			Timeout:     time.Minute,
		},
		Evaluator: EvaluatorConfig{
			Mode:         "llm",
			Transcriber:  "whisper",
			LanguageCode: "en-US",
			Timeout:      2 * time.Minute,
		},
		Progress: ProgressConfig{
			Backend:   "sqlite",
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads configuration. path may be empty, in which case
// $XDG_CONFIG_HOME/langdrill/config.yaml is used if it exists.
func Load(path string) (Config, error) {
	def := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("LANGDRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", def.DBPath)
	v.SetDefault("fixtures", def.FixturesDir)
	v.SetDefault("log_mode", def.LogMode)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("llm.provider", def.LLM.Provider)
	v.SetDefault("llm.model", def.LLM.Model)
	v.SetDefault("llm.api_key", def.LLM.APIKey)
	v.SetDefault("llm.base_url", def.LLM.BaseURL)
	v.SetDefault("llm.max_attempts", def.LLM.MaxAttempts)
	v.SetDefault("llm.timeout", def.LLM.Timeout)
	v.SetDefault("evaluator.mode", def.Evaluator.Mode)
	v.SetDefault("evaluator.url", def.Evaluator.URL)
	v.SetDefault("evaluator.transcriber", def.Evaluator.Transcriber)
	v.SetDefault("evaluator.transcribe_url", def.Evaluator.TranscribeURL)
	v.SetDefault("evaluator.language_code", def.Evaluator.LanguageCode)
	v.SetDefault("evaluator.google_credentials", def.Evaluator.GoogleCredentials)
	v.SetDefault("evaluator.timeout", def.Evaluator.Timeout)
	v.SetDefault("progress.backend", def.Progress.Backend)
	v.SetDefault("progress.redis_addr", def.Progress.RedisAddr)
	v.SetDefault("progress.redis_password", def.Progress.RedisPassword)
	v.SetDefault("progress.redis_db", def.Progress.RedisDB)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := configDir()
		if err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects unknown backend names.
func (c Config) Validate() error {
	switch c.Evaluator.Mode {
	case "llm", "none":
	case "http":
		if c.Evaluator.URL == "" {
			return fmt.Errorf("evaluator.url is required for the http evaluator")
		}
	default:
		return fmt.Errorf("unknown evaluator mode: %q", c.Evaluator.Mode)
	}

	switch c.Evaluator.Transcriber {
	case "whisper", "google", "none":
	case "http":
		if c.Evaluator.TranscribeURL == "" {
			return fmt.Errorf("evaluator.transcribe_url is required for the http transcriber")
		}
	default:
		return fmt.Errorf("unknown transcriber: %q", c.Evaluator.Transcriber)
	}

	if c.LLM.MaxAttempts < 1 {
		return fmt.Errorf("llm.max_attempts must be at least 1")
	}

	switch c.Progress.Backend {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("unknown progress backend: %q", c.Progress.Backend)
	}
	return nil
}

// configDir returns $XDG_CONFIG_HOME/langdrill or ~/.config/langdrill.
func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "langdrill"), nil
}
