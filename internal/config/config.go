package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/validation"
)

// FileName is the config file base name searched for in each config path
const FileName = "mindmeld"

// EnvPrefix prefixes environment overrides, e.g. MINDMELD_VAULT_PATH
const EnvPrefix = "MINDMELD"

// Config represents the complete mindmeld configuration
type Config struct {
	Vault       VaultConfig       `mapstructure:"vault" yaml:"vault"`
	Store       StoreConfig       `mapstructure:"store" yaml:"store"`
	Mentor      MentorConfig      `mapstructure:"mentor" yaml:"mentor"`
	Flashcards  FlashcardsConfig  `mapstructure:"flashcards" yaml:"flashcards"`
	Watch       WatchConfig       `mapstructure:"watch" yaml:"watch"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	Performance PerformanceConfig `mapstructure:"performance" yaml:"performance"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}

// VaultConfig contains vault-specific settings
type VaultConfig struct {
	Path           string   `mapstructure:"path" yaml:"path" validate:"required"`
	IgnorePatterns []string `mapstructure:"ignore_patterns" yaml:"ignore_patterns"`
}

// StoreConfig locates the sqlite database. A relative path is resolved
// against the vault directory.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path" validate:"required"`
}

// MentorConfig tunes the mentor. An empty learning style is derived from
// the user's notes.
type MentorConfig struct {
	LearningStyle string `mapstructure:"learning_style" yaml:"learning_style" validate:"omitempty,oneof=visual auditory kinesthetic balanced"`
	UserName      string `mapstructure:"user_name" yaml:"user_name"`
}

// FlashcardsConfig contains flashcard generation settings
type FlashcardsConfig struct {
	Style string `mapstructure:"style" yaml:"style" validate:"omitempty,oneof=visual auditory kinesthetic balanced"`
}

// WatchConfig contains file watching settings
type WatchConfig struct {
	Debounce    string  `mapstructure:"debounce" yaml:"debounce"`
	RateLimit   float64 `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gt=0"`
	Burst       int     `mapstructure:"burst" yaml:"burst" validate:"min=1"`
	MetricsAddr string  `mapstructure:"metrics_addr" yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// CacheConfig sizes the analysis cache
type CacheConfig struct {
	MaxSize int    `mapstructure:"max_size" yaml:"max_size" validate:"min=1"`
	TTL     string `mapstructure:"ttl" yaml:"ttl"`
}

// PerformanceConfig contains performance optimization settings
type PerformanceConfig struct {
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers" validate:"min=0"`
}

// LogConfig selects the logger level and encoding
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=console json"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Vault: VaultConfig{
			Path:           ".",
			IgnorePatterns: []string{".git/*", ".obsidian/*", ".mindmeld/*", ".trash/*"},
		},
		Store: StoreConfig{
			Path: filepath.Join(".mindmeld", "mindmeld.db"),
		},
		Flashcards: FlashcardsConfig{
			Style: string(model.StyleBalanced),
		},
		Watch: WatchConfig{
			Debounce:  "500ms",
			RateLimit: 1,
			Burst:     3,
		},
		Cache: CacheConfig{
			MaxSize: 1000,
			TTL:     "1h",
		},
		Performance: PerformanceConfig{
			MaxWorkers: 0, // 0 = auto-detect
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DebounceDuration parses watch.debounce
func (c *Config) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(c.Watch.Debounce)
	return d
}

// CacheTTL parses cache.ttl
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.Cache.TTL)
	return d
}

// StorePath resolves store.path against the vault directory
func (c *Config) StorePath() string {
	if c.Store.Path == ":memory:" || filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(c.Vault.Path, c.Store.Path)
}

// Validate checks struct tags and the values tags cannot express
func (c *Config) Validate() error {
	if err := validation.Struct(c, ""); err != nil {
		return err
	}

	durations := map[string]string{
		"watch.debounce": c.Watch.Debounce,
		"cache.ttl":      c.Cache.TTL,
	}
	for _, key := range []string{"watch.debounce", "cache.ttl"} {
		d, err := time.ParseDuration(durations[key])
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: must not be negative", key)
		}
	}

	return nil
}

// Loader handles configuration loading and merging
type Loader struct {
	searchPaths []string
	file        string
}

// NewLoader creates a loader. A non-empty file is read instead of searching.
func NewLoader(file string) *Loader {
	return &Loader{
		searchPaths: []string{
			".",                  // Current working directory
			"~/.config/mindmeld", // User config directory
			"/etc/mindmeld",      // System-wide directory
		},
		file: file,
	}
}

// Load reads defaults, then the config file, then MINDMELD_ environment
// overrides, and validates the result
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	config := DefaultConfig()
	setDefaults(v, config)

	v.SetConfigType("yaml")
	if l.file != "" {
		if err := validation.ValidateYAMLExtension(l.file); err != nil {
			return nil, errors.NewConfigError(l.file, err.Error())
		}
		v.SetConfigFile(l.expandPath(l.file))
	} else {
		v.SetConfigName(FileName)
		for _, path := range l.searchPaths {
			v.AddConfigPath(l.expandPath(path))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError(l.file, fmt.Sprintf("reading config file: %v", err))
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, errors.NewConfigError(v.ConfigFileUsed(), fmt.Sprintf("unmarshaling config: %v", err))
	}

	config.Vault.Path = l.expandPath(config.Vault.Path)

	if err := config.Validate(); err != nil {
		var userErr errors.UserError
		if stderrors.As(err, &userErr) {
			// field errors from a config file are config errors
			if userErr.Code == errors.ErrCodeMissingField {
				userErr.Suggestion = "Set the field in mindmeld.yaml or through its MINDMELD_* environment variable."
			}
			userErr.Operation = "configuration loading"
			userErr.File = v.ConfigFileUsed()
			userErr.Code = errors.ErrCodeInvalidConfig
			return nil, userErr
		}
		return nil, errors.NewConfigError(v.ConfigFileUsed(), err.Error())
	}

	return config, nil
}

// setDefaults registers every key so AutomaticEnv can override keys the
// config file does not mention
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("vault.path", c.Vault.Path)
	v.SetDefault("vault.ignore_patterns", c.Vault.IgnorePatterns)
	v.SetDefault("store.path", c.Store.Path)
	v.SetDefault("mentor.learning_style", c.Mentor.LearningStyle)
	v.SetDefault("mentor.user_name", c.Mentor.UserName)
	v.SetDefault("flashcards.style", c.Flashcards.Style)
	v.SetDefault("watch.debounce", c.Watch.Debounce)
	v.SetDefault("watch.rate_limit", c.Watch.RateLimit)
	v.SetDefault("watch.burst", c.Watch.Burst)
	v.SetDefault("watch.metrics_addr", c.Watch.MetricsAddr)
	v.SetDefault("cache.max_size", c.Cache.MaxSize)
	v.SetDefault("cache.ttl", c.Cache.TTL)
	v.SetDefault("performance.max_workers", c.Performance.MaxWorkers)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
}

// expandPath expands ~ to home directory and resolves relative paths
func (l *Loader) expandPath(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path // Return original if can't expand
		}
		return filepath.Join(home, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return path // Return original if can't resolve
	}

	return abs
}

// SaveToFile writes the configuration as YAML, creating parent directories
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
