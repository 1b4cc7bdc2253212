// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/tomz197/skyfall/internal/level"
)

// SSH configures the SSH front-end.
type SSH struct {
	Host          string        `env:"SSH_HOST" envDefault:"::"`
	Port          string        `env:"SSH_PORT" envDefault:"2222"`
	HostKeyPath   string        `env:"SSH_HOST_KEY" envDefault:"/app/keys/host_key"`
	ShutdownGrace time.Duration `env:"SSH_SHUTDOWN_GRACE" envDefault:"15s"`
	Inactivity    bool          `env:"SSH_INACTIVITY_DISCONNECT" envDefault:"true"`
}

// Web configures the landing page server.
type Web struct {
	Host        string `env:"WEB_HOST" envDefault:"0.0.0.0"`
	Port        string `env:"WEB_PORT" envDefault:"8080"`
	DisplayHost string `env:"SSH_DISPLAY_HOST" envDefault:"your-server.com"`
}

// Game configures gameplay options shared by every front-end.
type Game struct {
	Audio      bool    `env:"SKYFALL_AUDIO" envDefault:"true"`
	Volume     float64 `env:"SKYFALL_VOLUME" envDefault:"0.5"`
	LogLevel   string  `env:"SKYFALL_LOG_LEVEL" envDefault:"info"`
	LogFile    string  `env:"SKYFALL_LOG_FILE"`
	TuningFile string  `env:"SKYFALL_TUNING_FILE"`
}

// Parse loads configuration from environment variables into target.
func Parse(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSSH returns the SSH and game configuration.
func LoadSSH() (SSH, Game, error) {
	var cfg struct {
		SSH  SSH
		Game Game
	}
	if err := Parse(&cfg); err != nil {
		return SSH{}, Game{}, err
	}
	return cfg.SSH, cfg.Game, nil
}

// LoadWeb returns the web configuration.
func LoadWeb() (Web, error) {
	var cfg Web
	if err := Parse(&cfg); err != nil {
		return Web{}, err
	}
	return cfg, nil
}

// LoadGame returns the game configuration.
func LoadGame() (Game, error) {
	var cfg Game
	if err := Parse(&cfg); err != nil {
		return Game{}, err
	}
	return cfg, nil
}

// LoadPolicy reads the tuning file, if one is configured. A nil policy
// selects the built-in difficulty curve.
func (g Game) LoadPolicy() (*level.Policy, error) {
	if g.TuningFile == "" {
		return nil, nil
	}
	p, err := level.LoadPolicy(g.TuningFile)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
