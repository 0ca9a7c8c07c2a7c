// Package config loads roadmap-cli settings.
//
// Precedence (highest first): ROADMAP_* environment variables, the YAML config file,
// built-in defaults. The file lives at ~/.roadmap/config.yaml unless ROADMAP_CONFIG_DIR
// or an explicit path says otherwise.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix         = "ROADMAP_"
	maxConfigFileSize = 1024 * 1024

	DefaultBaseURL = "http://localhost:8787"
	DefaultTimeout = 30 * time.Second

	// ActivityOff disables the local activity journal.
	ActivityOff = "off"
)

type Config struct {
	API      APIConfig      `koanf:"api"`
	Log      LogConfig      `koanf:"log"`
	TUI      TUIConfig      `koanf:"tui"`
	Detail   DetailConfig   `koanf:"detail"`
	Activity ActivityConfig `koanf:"activity"`
}

type APIConfig struct {
	BaseURL string        `koanf:"base_url"`
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

type TUIConfig struct {
	// Theme is auto, light or dark.
	Theme string `koanf:"theme"`
}

type DetailConfig struct {
	// Placeholders is unset or demo.
	Placeholders string `koanf:"placeholders"`
}

type ActivityConfig struct {
	// Path is the sqlite journal file, or "off".
	Path string `koanf:"path"`
}

// Dir is the directory holding the config file, the log and the activity journal.
func Dir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("ROADMAP_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".roadmap"), nil
}

// DefaultPath is Dir()/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path (DefaultPath when empty), applies environment
// overrides and defaults, and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if strings.TrimSpace(path) == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	content, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if content != nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dir := filepath.Dir(path)
	applyDefaults(&cfg, dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path is a directory: %s", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// envKey maps ROADMAP_API_BASE_URL to api.base_url: the first segment after the prefix
// is the section, the rest is the field name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func applyDefaults(cfg *Config, dir string) {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Log.File) == "" {
		cfg.Log.File = filepath.Join(dir, "roadmap.log")
	}
	if strings.TrimSpace(cfg.TUI.Theme) == "" {
		cfg.TUI.Theme = "auto"
	}
	if strings.TrimSpace(cfg.Detail.Placeholders) == "" {
		cfg.Detail.Placeholders = "unset"
	}
	if strings.TrimSpace(cfg.Activity.Path) == "" {
		cfg.Activity.Path = filepath.Join(dir, "activity.db")
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", u.Scheme)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	switch strings.ToLower(c.TUI.Theme) {
	case "auto", "light", "dark":
	default:
		return fmt.Errorf("tui.theme must be auto, light or dark, got %q", c.TUI.Theme)
	}
	switch strings.ToLower(c.Detail.Placeholders) {
	case "unset", "demo":
	default:
		return fmt.Errorf("detail.placeholders must be unset or demo, got %q", c.Detail.Placeholders)
	}
	return nil
}

// ActivityEnabled reports whether the activity journal should be opened.
func (c *Config) ActivityEnabled() bool {
	return !strings.EqualFold(strings.TrimSpace(c.Activity.Path), ActivityOff)
}
