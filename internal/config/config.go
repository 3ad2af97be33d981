package config

import (
	"errors"
	"os"
	"time"

	"gandengyan-server/internal/util"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the Gan Deng Yan server
type Config struct {
	loaded bool
	Log    struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`
	Game struct {
		DefaultMaxPlayers     int `yaml:"defaultMaxPlayers" envconfig:"default_max_players"`
		TurnTimeoutSeconds    int `yaml:"turnTimeoutSeconds" envconfig:"turn_timeout_seconds"`
		StartGameDelaySeconds int `yaml:"startGameDelaySeconds" envconfig:"start_game_delay_seconds"`
	} `yaml:"game"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins" envconfig:"allowed_origins"`
	} `yaml:"cors"`
}

var config Config

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() Config {
	c := Config{}
	c.Log.Level = "info"
	c.Game.DefaultMaxPlayers = 2
	c.Game.TurnTimeoutSeconds = 30
	c.Game.StartGameDelaySeconds = 1
	c.CORS.AllowedOrigins = []string{"http://localhost:5173"}

	return c
}

// TurnTimeout returns the per-turn deadline
func (c Config) TurnTimeout() time.Duration {
	return time.Duration(c.Game.TurnTimeoutSeconds) * time.Second
}

// StartGameDelay returns how long a full room waits before dealing
func (c Config) StartGameDelay() time.Duration {
	return time.Duration(c.Game.StartGameDelaySeconds) * time.Second
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
// A missing configuration file is not an error, the defaults are used instead
func Load() error {
	c := DefaultConfig()

	configFile := util.Getenv("GDY_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if file != nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&c); err != nil {
			return err
		}
	}

	if err := envconfig.Process("gdy", &c); err != nil {
		return err
	}

	c.loaded = true
	config = c
	return nil
}
