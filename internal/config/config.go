package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultConfigPath = "/etc/ctdrun/ctdrun.toml"
const envOverride = "CTDRUN_CONFIG"

type Config struct {
	Checktestdata CheckTestDataConfig `toml:"checktestdata"`
	History       HistoryConfig       `toml:"history"`
	GitHub        GitHubConfig        `toml:"github"`
	Log           LogConfig           `toml:"log"`
}

type CheckTestDataConfig struct {
	Path             string   `toml:"path"`
	SearchDirs       []string `toml:"search_dirs"`
	ToolsDir         string   `toml:"tools_dir"`
	TempDir          string   `toml:"temp_dir"`
	TimeLimitSeconds int      `toml:"time_limit_seconds"`
}

// TimeLimit returns the configured per-run limit.
func (c CheckTestDataConfig) TimeLimit() time.Duration {
	return time.Duration(c.TimeLimitSeconds) * time.Second
}

type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Driver  string `toml:"driver"`
	DSN     string `toml:"dsn"`
}

type GitHubConfig struct {
	Token        string `toml:"token"`
	Owner        string `toml:"owner"`
	Repo         string `toml:"repo"`
	AssetPattern string `toml:"asset_pattern"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	if p := os.Getenv(envOverride); p != "" {
		return p
	}
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{History: HistoryConfig{Enabled: true}}
	applyDefaults(cfg)
	return cfg
}

// Load reads configuration from the default path. A missing default file
// yields Default(); a missing file named by CTDRUN_CONFIG is an error.
func Load() (*Config, error) {
	path := DefaultPath()
	if os.Getenv(envOverride) == "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from the given path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{History: HistoryConfig{Enabled: true}}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)

	if cfg.Checktestdata.TimeLimitSeconds < 0 {
		return nil, fmt.Errorf("config: checktestdata.time_limit_seconds must not be negative")
	}
	switch cfg.History.Driver {
	case "sqlite", "mysql":
	default:
		return nil, fmt.Errorf("config: history.driver %q is not one of sqlite, mysql", cfg.History.Driver)
	}
	if cfg.History.Driver == "mysql" && cfg.History.DSN == "" {
		return nil, fmt.Errorf("config: history.dsn is required for the mysql driver")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("config: log.level %q is not one of debug, info, warn, error", cfg.Log.Level)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Checktestdata.ToolsDir == "" {
		cfg.Checktestdata.ToolsDir = "/var/lib/ctdrun/tools"
	}
	if cfg.Checktestdata.TimeLimitSeconds == 0 {
		cfg.Checktestdata.TimeLimitSeconds = 1000
	}
	if cfg.History.Driver == "" {
		cfg.History.Driver = "sqlite"
	}
	if cfg.History.Driver == "sqlite" && cfg.History.DSN == "" {
		cfg.History.DSN = "/var/lib/ctdrun/history.db"
	}
	if cfg.GitHub.Owner == "" {
		cfg.GitHub.Owner = "DOMjudge"
	}
	if cfg.GitHub.Repo == "" {
		cfg.GitHub.Repo = "checktestdata"
	}
	if cfg.GitHub.AssetPattern == "" {
		cfg.GitHub.AssetPattern = "checktestdata-{{.Version}}-linux-amd64"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// TemplateConfig returns a TOML template with placeholder values for first-time setup.
func TemplateConfig() string {
	return `[checktestdata]
# path = "/usr/local/bin/checktestdata"
search_dirs = ["/var/lib/ctdrun/tools"]
tools_dir = "/var/lib/ctdrun/tools"
# temp_dir = "/tmp"
time_limit_seconds = 1000

[history]
enabled = true
driver  = "sqlite"
dsn     = "/var/lib/ctdrun/history.db"
# driver = "mysql"
# dsn    = "ctdrun:secret@tcp(127.0.0.1:3306)/ctdrun?parseTime=true"

[github]
# owner, repo and asset_pattern must name a repository whose releases ship a
# prebuilt checktestdata binary; 'ctdrun fetch' fails with "no asset matching"
# otherwise.
# token = "ghp_YOUR_TOKEN_HERE"
owner = "DOMjudge"
repo  = "checktestdata"
asset_pattern = "checktestdata-{{.Version}}-linux-amd64"

[log]
level = "info"
`
}
