package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"toes-server/internal/util"
)

// Config provides configuration for the toes server
type Config struct {
	loaded         bool
	LogLevel       string `yaml:"logLevel" envconfig:"log_level"`
	AccessLogs     bool   `yaml:"accessLogs" envconfig:"access_logs"`
	Addr           string `yaml:"addr" envconfig:"addr"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Game           struct {
		Hasher        string        `yaml:"hasher" envconfig:"hasher"`
		Ante          int           `yaml:"ante" envconfig:"ante"`
		ChooseTimeout time.Duration `yaml:"chooseTimeout" envconfig:"choose_timeout"`
		AutoAdvance   bool          `yaml:"autoAdvance" envconfig:"auto_advance"`
		RevealDelay   time.Duration `yaml:"revealDelay" envconfig:"reveal_delay"`
	} `yaml:"game"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	cfg := Config{
		LogLevel:       "info",
		AccessLogs:     true,
		Addr:           ":5000",
		PGDSN:          "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		MigrationsPath: "./sql",
	}

	cfg.Game.Hasher = "sha256"
	cfg.Game.Ante = 10
	cfg.Game.ChooseTimeout = 30 * time.Second
	cfg.Game.AutoAdvance = true
	cfg.Game.RevealDelay = 3 * time.Second

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// Defaults are overridden by the YAML file named by TOES_CONFIG_FILE (config.yaml if unset),
// then by TOES_* environment variables. A missing file is not an error.
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("TOES_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return err
	default:
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := envconfig.Process("toes", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
