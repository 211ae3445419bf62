package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "~/.config/planote/config.yaml"
	defaultDataDir    = "~/.local/share/planote"
	defaultPrefsPath  = "~/.config/planote/prefs.toml"
	defaultLogLevel   = "info"
	defaultServerAddr = "127.0.0.1:7878"
	defaultMultiplier = 100
	defaultBufferZone = 5
)

type Config struct {
	DataDir   string
	DBPath    string
	LogPath   string
	LogLevel  string
	PrefsPath string
	Pager     PagerConfig
	Server    ServerConfig
}

type PagerConfig struct {
	Multiplier int `yaml:"multiplier"`
	BufferZone int `yaml:"buffer_zone"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type fileConfig struct {
	DataDir   string       `yaml:"data_dir"`
	DBPath    string       `yaml:"db_path"`
	LogPath   string       `yaml:"log_path"`
	LogLevel  string       `yaml:"log_level"`
	PrefsPath string       `yaml:"prefs_path"`
	Pager     PagerConfig  `yaml:"pager"`
	Server    ServerConfig `yaml:"server"`
}

// Load reads the YAML config at path (DefaultConfigPath when empty). A missing
// file yields defaults. PLANOTE_DATA_DIR and PLANOTE_LOG_LEVEL override the file.
func Load(path string) (Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultConfigPath
	}
	resolved, err := expand(path)
	if err != nil {
		return Config{}, err
	}

	raw := fileConfig{}
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if v := strings.TrimSpace(os.Getenv("PLANOTE_DATA_DIR")); v != "" {
		raw.DataDir = v
		raw.DBPath = ""
		raw.LogPath = ""
	}
	if v := strings.TrimSpace(os.Getenv("PLANOTE_LOG_LEVEL")); v != "" {
		raw.LogLevel = v
	}
	return fromFile(raw)
}

// New builds a Config rooted at dataDir with every other field defaulted.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return fromFile(fileConfig{DataDir: dataDir})
}

// WithDataDir re-roots the database and log paths under dir.
func (c Config) WithDataDir(dir string) (Config, error) {
	dir, err := expand(dir)
	if err != nil {
		return Config{}, err
	}
	c.DataDir = dir
	c.DBPath = filepath.Join(dir, "planote.db")
	c.LogPath = filepath.Join(dir, "planote.log")
	return c, c.Validate()
}

func fromFile(raw fileConfig) (Config, error) {
	cfg := Config{
		DataDir:   strings.TrimSpace(raw.DataDir),
		LogLevel:  strings.ToLower(strings.TrimSpace(raw.LogLevel)),
		PrefsPath: strings.TrimSpace(raw.PrefsPath),
		Pager:     raw.Pager,
		Server:    raw.Server,
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.PrefsPath == "" {
		cfg.PrefsPath = defaultPrefsPath
	}
	if cfg.Pager.Multiplier == 0 {
		cfg.Pager.Multiplier = defaultMultiplier
	}
	if cfg.Pager.BufferZone == 0 {
		cfg.Pager.BufferZone = defaultBufferZone
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = defaultServerAddr
	}

	var err error
	if cfg.DataDir, err = expand(cfg.DataDir); err != nil {
		return Config{}, err
	}
	if cfg.PrefsPath, err = expand(cfg.PrefsPath); err != nil {
		return Config{}, err
	}
	cfg.DBPath = strings.TrimSpace(raw.DBPath)
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "planote.db")
	} else if cfg.DBPath, err = expand(cfg.DBPath); err != nil {
		return Config{}, err
	}
	cfg.LogPath = strings.TrimSpace(raw.LogPath)
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(cfg.DataDir, "planote.log")
	} else if cfg.LogPath, err = expand(cfg.LogPath); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.DBPath == "" || c.LogPath == "" || c.PrefsPath == "" {
		return fmt.Errorf("config: db, log and prefs paths are required")
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "off":
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
	if c.Pager.Multiplier < 2 {
		return fmt.Errorf("config: pager multiplier must be at least 2, got %d", c.Pager.Multiplier)
	}
	if c.Pager.BufferZone < 1 || 2*c.Pager.BufferZone > c.Pager.Multiplier-c.Pager.Multiplier/2 {
		return fmt.Errorf("config: pager buffer_zone %d too large for multiplier %d", c.Pager.BufferZone, c.Pager.Multiplier)
	}
	return nil
}

func expand(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	expanded, err := homedir.Expand(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Abs(expanded)
}
