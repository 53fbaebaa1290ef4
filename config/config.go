package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"markestedt/devpanel/shortcut"
)

const appName = "devpanel"

type Config struct {
	Shortcut  ShortcutConfig  `toml:"shortcut"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Log       LogConfig       `toml:"log"`
}

type ShortcutConfig struct {
	// Default is used until the user records their own toggle shortcut
	Default string `toml:"default"`
}

type ClipboardConfig struct {
	AutoDetect   bool `toml:"auto_detect"`
	CacheSeconds int  `toml:"cache_seconds"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Default configuration
func defaultConfig() *Config {
	return &Config{
		Shortcut: ShortcutConfig{
			Default: "CommandOrControl+Alt+D",
		},
		Clipboard: ClipboardConfig{
			AutoDetect:   true,
			CacheSeconds: 30,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Dir returns the application directory, creating it if needed
func Dir() (string, error) {
	base := os.Getenv("APPDATA")
	if base == "" {
		var err error
		base, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate config directory: %w", err)
		}
	}

	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return dir, nil
}

// ConfigPath returns the path to the configuration file
func ConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads the configuration from the default location and returns the
// path it was read from
func Load() (*Config, string, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := LoadFrom(configPath)
	if err != nil {
		return nil, configPath, err
	}
	return cfg, configPath, nil
}

// LoadFrom loads the configuration from path.
// If the file doesn't exist, it creates it with default values
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := defaultConfig()
		if err := save(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	// Load existing config over the defaults
	cfg := defaultConfig()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	if _, err := shortcut.Parse(c.Shortcut.Default); err != nil {
		return fmt.Errorf("invalid shortcut.default: %w", err)
	}
	if c.Clipboard.CacheSeconds < 0 {
		return fmt.Errorf("clipboard.cache_seconds must not be negative")
	}
	return nil
}

// DefaultShortcut returns the parsed default toggle shortcut
func (c *Config) DefaultShortcut() shortcut.Descriptor {
	d, err := shortcut.Parse(c.Shortcut.Default)
	if err != nil {
		return shortcut.MustParse(defaultConfig().Shortcut.Default)
	}
	return d
}

// save writes the configuration to the TOML file
func save(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}
