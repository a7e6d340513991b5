// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for termfolio.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.termfolio/config.toml
//   - ~/.termfolio/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/termfolio/internal/reveal"
	"github.com/jeranaias/termfolio/internal/terminal"
	"github.com/jeranaias/termfolio/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete termfolio configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Terminal TerminalConfig `toml:"terminal" json:"terminal"`
	Reveal   RevealConfig   `toml:"reveal" json:"reveal"`
	Server   ServerConfig   `toml:"server" json:"server"`
	SSH      SSHConfig      `toml:"ssh" json:"ssh"`
	Storage  StorageConfig  `toml:"storage" json:"storage"`
	Content  ContentConfig  `toml:"content" json:"content"`
	Logging  LoggingConfig  `toml:"logging" json:"logging"`
}

// TerminalConfig contains command engine settings.
type TerminalConfig struct {
	DefaultTheme  string `toml:"default_theme" json:"default_theme"`
	StartMode     string `toml:"start_mode" json:"start_mode"`
	TypingDelayMs int    `toml:"typing_delay_ms" json:"typing_delay_ms"`
	HistoryLimit  int    `toml:"history_limit" json:"history_limit"`
	PersistTheme  bool   `toml:"persist_theme" json:"persist_theme"`
	AltScreen     bool   `toml:"alt_screen" json:"alt_screen"`
}

// RevealConfig contains scroll reveal and parallax tuning.
type RevealConfig struct {
	Threshold      float64 `toml:"threshold" json:"threshold"`
	BottomMargin   float64 `toml:"bottom_margin" json:"bottom_margin"`
	ParallaxBase   float64 `toml:"parallax_base" json:"parallax_base"`
	ParallaxStep   float64 `toml:"parallax_step" json:"parallax_step"`
	ParallaxMax    float64 `toml:"parallax_max" json:"parallax_max"`
	EntranceOffset float64 `toml:"entrance_offset" json:"entrance_offset"`
	FrameMs        int     `toml:"frame_ms" json:"frame_ms"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Addr          string  `toml:"addr" json:"addr"`
	RatePerSec    float64 `toml:"rate_per_sec" json:"rate_per_sec"`
	Burst         int     `toml:"burst" json:"burst"`
	TrackVisitors bool    `toml:"track_visitors" json:"track_visitors"`
	Salt          string  `toml:"salt" json:"salt"`
	SessionTTLMin int     `toml:"session_ttl_min" json:"session_ttl_min"`
	MaxSessions   int     `toml:"max_sessions" json:"max_sessions"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers are honored. Empty trusts none.
	TrustedProxies string `toml:"trusted_proxies" json:"trusted_proxies"`
}

// SSHConfig contains SSH front end settings.
type SSHConfig struct {
	Addr        string `toml:"addr" json:"addr"`
	HostKeyPath string `toml:"host_key" json:"host_key"`
	MaxSessions int    `toml:"max_sessions" json:"max_sessions"`
}

// StorageConfig contains persistence settings.
type StorageConfig struct {
	Path string `toml:"path" json:"path"`
}

// ContentConfig points at an optional YAML content override.
type ContentConfig struct {
	Path  string `toml:"path" json:"path"`
	Watch bool   `toml:"watch" json:"watch"`
}

// LoggingConfig contains log settings.
type LoggingConfig struct {
	Level   string `toml:"level" json:"level"`
	File    string `toml:"file" json:"file"`
	Journal bool   `toml:"journal" json:"journal"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns the default configuration.
func Default() *Config {
	rc := reveal.DefaultConfig()
	return &Config{
		Version: "1",
		Terminal: TerminalConfig{
			DefaultTheme:  terminal.DefaultTheme,
			StartMode:     string(terminal.ModeScrollAuto),
			TypingDelayMs: 45,
			HistoryLimit:  terminal.DefaultHistoryLimit,
			PersistTheme:  true,
			AltScreen:     true,
		},
		Reveal: RevealConfig{
			Threshold:      rc.Threshold,
			BottomMargin:   rc.BottomMargin,
			ParallaxBase:   rc.ParallaxBase,
			ParallaxStep:   rc.ParallaxStep,
			ParallaxMax:    rc.ParallaxMax,
			EntranceOffset: rc.EntranceOffset,
			FrameMs:        int(rc.FrameInterval / time.Millisecond),
		},
		Server: ServerConfig{
			Addr:          ":8080",
			RatePerSec:    5,
			Burst:         20,
			TrackVisitors: true,
			SessionTTLMin: 30,
			MaxSessions:   1000,
		},
		SSH: SSHConfig{
			Addr:        ":2222",
			MaxSessions: 32,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// RevealSettings converts the reveal section to controller tuning.
func (c *Config) RevealSettings() reveal.Config {
	return reveal.Config{
		Threshold:      c.Reveal.Threshold,
		BottomMargin:   c.Reveal.BottomMargin,
		ParallaxBase:   c.Reveal.ParallaxBase,
		ParallaxStep:   c.Reveal.ParallaxStep,
		ParallaxMax:    c.Reveal.ParallaxMax,
		EntranceOffset: c.Reveal.EntranceOffset,
		FrameInterval:  time.Duration(c.Reveal.FrameMs) * time.Millisecond,
	}
}

// TypingDelay returns the per-character auto-play delay.
func (c *Config) TypingDelay() time.Duration {
	return time.Duration(c.Terminal.TypingDelayMs) * time.Millisecond
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the termfolio configuration directory path.
// TERMFOLIO_HOME overrides the default of ~/.termfolio.
func ConfigDir() (string, error) {
	if dir := os.Getenv("TERMFOLIO_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".termfolio"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// DataPath resolves a file inside the config directory.
func DataPath(name string) string {
	dir, err := ConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, name)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults. A .env file in the
// working directory is read before environment overrides are applied.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	loaded := false
	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			} else {
				loaded = true
			}
		}
	}

	if !loaded {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				if err := LoadJSON(cfg, jsonPath); err != nil {
					loadErr = errors.Join(loadErr, fmt.Errorf("failed to load JSON config: %w", err))
					cfg = Default()
				}
			}
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies .env, environment overrides, defaults and validation.
func finish(cfg *Config) error {
	// A missing .env is normal
	_ = godotenv.Load()

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file atomically.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# termfolio configuration file\n")
	b.WriteString("# Generated by termfolio - edit with care\n\n")

	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if !terminal.IsKnownTheme(c.Terminal.DefaultTheme) {
		errs = append(errs, ValidationError{
			Field:   "terminal.default_theme",
			Message: fmt.Sprintf("unknown theme %q (known: %s)", c.Terminal.DefaultTheme, strings.Join(terminal.ThemeNames(), ", ")),
		})
	}
	if _, err := terminal.ParseMode(c.Terminal.StartMode); err != nil {
		errs = append(errs, ValidationError{Field: "terminal.start_mode", Message: err.Error()})
	}
	if c.Terminal.TypingDelayMs < 0 {
		errs = append(errs, ValidationError{Field: "terminal.typing_delay_ms", Message: "must not be negative"})
	}
	if c.Terminal.HistoryLimit < 0 {
		errs = append(errs, ValidationError{Field: "terminal.history_limit", Message: "must not be negative"})
	}

	if err := c.RevealSettings().Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "reveal", Message: err.Error()})
	}

	if c.Server.RatePerSec < 0 {
		errs = append(errs, ValidationError{Field: "server.rate_per_sec", Message: "must not be negative"})
	}
	if c.Server.Burst < 0 {
		errs = append(errs, ValidationError{Field: "server.burst", Message: "must not be negative"})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values that have no meaningful zero.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Terminal.DefaultTheme == "" {
		c.Terminal.DefaultTheme = d.Terminal.DefaultTheme
	}
	if c.Terminal.StartMode == "" {
		c.Terminal.StartMode = d.Terminal.StartMode
	}
	if c.Terminal.HistoryLimit == 0 {
		c.Terminal.HistoryLimit = d.Terminal.HistoryLimit
	}
	if c.Reveal.ParallaxMax == 0 {
		c.Reveal.ParallaxMax = d.Reveal.ParallaxMax
	}
	if c.Reveal.FrameMs == 0 {
		c.Reveal.FrameMs = d.Reveal.FrameMs
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.SessionTTLMin == 0 {
		c.Server.SessionTTLMin = d.Server.SessionTTLMin
	}
	if c.Server.MaxSessions == 0 {
		c.Server.MaxSessions = d.Server.MaxSessions
	}
	if c.SSH.Addr == "" {
		c.SSH.Addr = d.SSH.Addr
	}
	if c.SSH.MaxSessions == 0 {
		c.SSH.MaxSessions = d.SSH.MaxSessions
	}
	if c.SSH.HostKeyPath == "" {
		c.SSH.HostKeyPath = DataPath("ssh_host_ed25519")
	}
	if c.Storage.Path == "" {
		c.Storage.Path = DataPath("termfolio.db")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TERMFOLIO_THEME: overrides terminal.default_theme
//   - TERMFOLIO_MODE: overrides terminal.start_mode
//   - TERMFOLIO_TYPING_DELAY_MS: overrides terminal.typing_delay_ms
//   - TERMFOLIO_ADDR / PORT: overrides server.addr
//   - TERMFOLIO_SALT: overrides server.salt
//   - TERMFOLIO_SSH_ADDR: overrides ssh.addr
//   - TERMFOLIO_DB: overrides storage.path
//   - TERMFOLIO_CONTENT: overrides content.path
//   - TERMFOLIO_LOG_LEVEL: overrides logging.level
//   - TERMFOLIO_LOG_FILE: overrides logging.file
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("TERMFOLIO_THEME"); v != "" {
		c.Terminal.DefaultTheme = strings.ToLower(v)
	}
	if v := os.Getenv("TERMFOLIO_MODE"); v != "" {
		c.Terminal.StartMode = v
	}
	if v := os.Getenv("TERMFOLIO_TYPING_DELAY_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Terminal.TypingDelayMs = ms
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("TERMFOLIO_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TERMFOLIO_SALT"); v != "" {
		c.Server.Salt = v
	}
	if v := os.Getenv("TERMFOLIO_SSH_ADDR"); v != "" {
		c.SSH.Addr = v
	}
	if v := os.Getenv("TERMFOLIO_DB"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("TERMFOLIO_CONTENT"); v != "" {
		c.Content.Path = v
	}
	if v := os.Getenv("TERMFOLIO_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TERMFOLIO_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "reveal.threshold").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set parses value into the field named by key.
func (c *Config) Set(key, value string) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("%s: cannot set %s field", key, field.Kind())
	}
	return nil
}

// lookup walks TOML tag names to a settable leaf field.
func (c *Config) lookup(key string) (reflect.Value, error) {
	v := reflect.ValueOf(c).Elem()
	for _, part := range strings.Split(key, ".") {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("unknown config key %q", key)
		}
		found := false
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if tomlName(t.Field(i)) == part {
				v = v.Field(i)
				found = true
				break
			}
		}
		if !found {
			return reflect.Value{}, fmt.Errorf("unknown config key %q", key)
		}
	}
	if v.Kind() == reflect.Struct {
		return reflect.Value{}, fmt.Errorf("config key %q is a section", key)
	}
	return v, nil
}

func tomlName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	return name
}

// Keys returns every settable dot-notation key.
func Keys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := prefix + tomlName(f)
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, name+".")
				continue
			}
			keys = append(keys, name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// String returns the configuration as JSON with the salt redacted.
func (c *Config) String() string {
	safe := *c
	if safe.Server.Salt != "" {
		safe.Server.Salt = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
			cfg.SetDefaults()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
