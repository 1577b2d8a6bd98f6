package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	xdgAppName = "systasks"
	configFile = "config.json"

	// HomeEnv overrides the configuration directory.
	HomeEnv = "SYSTASKS_HOME"

	DefaultMaxItems      = 6
	DefaultEveningHour   = 19
	DefaultTimeout       = 10
	DefaultNotionVersion = "2021-05-13"
	DefaultStore         = "file"
	DefaultEnvFile       = ".env.local"
)

type Config struct {
	NotionVersion  string   `json:"notion_version,omitempty"`
	MaxItems       int      `json:"max_items,omitempty"`
	EveningHour    int      `json:"evening_hour,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
	Store          string   `json:"store,omitempty"`
	Notifiers      []string `json:"notifiers,omitempty"`
	// Calendar is the Google Calendar that receives notices when the
	// "calendar" notifier is enabled.
	Calendar  string `json:"calendar,omitempty"`
	WidgetURL string `json:"widget_url,omitempty"`
	Bell      bool   `json:"bell,omitempty"`
	LogLevel  string `json:"log_level,omitempty"`

	// Credentials come from the environment or the keychain, never from config.json.
	NotionToken string `json:"-"`
	DatabaseID  string `json:"-"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.NotionVersion == "" {
		c.NotionVersion = DefaultNotionVersion
	}
	if c.MaxItems <= 0 {
		c.MaxItems = DefaultMaxItems
	}
	if c.EveningHour <= 0 || c.EveningHour > 23 {
		c.EveningHour = DefaultEveningHour
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeout
	}
	if c.Store == "" {
		c.Store = DefaultStore
	}
	if len(c.Notifiers) == 0 {
		c.Notifiers = []string{"terminal"}
	}
	if c.Calendar == "" {
		c.Calendar = "Tasks"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Dir is the directory holding config, keychain, snapshots and logs.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// LoadEnvFile reads KEY=value pairs from path into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment variables on the loaded configuration.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("NOTION_TOKEN"); v != "" {
		c.NotionToken = v
	}
	if v := os.Getenv("NOTION_DB_ID"); v != "" {
		c.DatabaseID = v
	}
	if v := os.Getenv("SYSTASKS_STORE"); v != "" {
		c.Store = v
	}
	if v := os.Getenv("SYSTASKS_NOTIFIERS"); v != "" {
		c.Notifiers = splitList(v)
	}
	if v := os.Getenv("SYSTASKS_EVENING_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h > 0 && h < 24 {
			c.EveningHour = h
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
