package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup from the
// environment (with an optional .env file on top).
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	DefaultPrefix string `env:"DEFAULT_PREFIX" envDefault:"!"`
	DefaultVolume int    `env:"DEFAULT_VOLUME" envDefault:"100"`

	SelectTimeout  time.Duration `env:"SELECT_TIMEOUT" envDefault:"60s"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
	IdleGrace      time.Duration `env:"IDLE_GRACE" envDefault:"2m"`

	CommandsPerMinute float64 `env:"COMMANDS_PER_MINUTE" envDefault:"20"`
	CommandBurst      int     `env:"COMMAND_BURST" envDefault:"5"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

func New() (*Config, error) {
	// A missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
