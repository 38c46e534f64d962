package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"TASKFLOW_API_URL" env-default:"http://localhost:3001/api"`
	Timeout time.Duration `yaml:"timeout" env:"TASKFLOW_API_TIMEOUT" env-default:"10s"`
}

type ServerConfig struct {
	Address string `yaml:"address" env:"TASKFLOW_ADDRESS" env-default:":3001"`
	DBPath  string `yaml:"db_path" env:"TASKFLOW_DB_PATH"`
	Seed    bool   `yaml:"seed" env:"TASKFLOW_SEED" env-default:"false"`
}

type Config struct {
	LogLevel string       `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	DataDir  string       `yaml:"data_dir" env:"TASKFLOW_DATA_DIR"`
	API      APIConfig    `yaml:"api"`
	Server   ServerConfig `yaml:"server"`
}

// Load reads configPath when it exists and overlays the environment. A
// missing file is not an error: defaults and env are used instead.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("read config %q: %w", configPath, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	}

	if cfg.DataDir == "" {
		dir, err := DataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if cfg.Server.DBPath == "" {
		cfg.Server.DBPath = filepath.Join(cfg.DataDir, "taskflow.db")
	}
	return &cfg, nil
}

// DataDir returns the application data directory, following XDG with a
// fallback to ~/.local/share. The directory is not created.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "taskflow"), nil
}

// DefaultPath is where init writes the config file and where the CLI looks
// for one when --config is not given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "taskflow", "config.yaml"), nil
}

// Default returns the configuration built from defaults and the current
// environment, ignoring any file.
func Default() (*Config, error) {
	return Load("")
}

// Write saves cfg as YAML, creating parent directories
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
