package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Client holds the settings of the terminal client.
type Client struct {
	ServerAddr     string        `yaml:"server-addr" env:"SERVER_ADDR" env-default:"http://localhost:8080"`
	PollInterval   time.Duration `yaml:"poll-interval" env:"POLL_INTERVAL" env-default:"2s"`
	RequestTimeout time.Duration `yaml:"request-timeout" env:"REQUEST_TIMEOUT" env-default:"5s"`
	Log            Log           `yaml:"log"`
	OtelEndpoint   string        `yaml:"otel-endpoint" env:"OTEL_ENDPOINT"`
}

// Server holds the settings of the reference game server.
type Server struct {
	HTTPAddr     string  `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	Storage      Storage `yaml:"storage"`
	Bot          Bot     `yaml:"bot"`
	Log          Log     `yaml:"log"`
	OtelEndpoint string  `yaml:"otel-endpoint" env:"OTEL_ENDPOINT"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	File  string `yaml:"file" env:"LOG_FILE"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite-path" env:"SQLITE_PATH" env-default:"./games.db"`
	RedisAddr  string `yaml:"redis-addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Bot struct {
	Enabled    bool          `yaml:"enabled" env:"BOT_ENABLED" env-default:"true"`
	Difficulty string        `yaml:"difficulty" env:"BOT_DIFFICULTY" env-default:"medium"`
	Delay      time.Duration `yaml:"delay" env:"BOT_DELAY" env-default:"1s"`
}

var ErrInvalidConfig = errors.New("invalid config")

// LoadClient reads the client config from path, if it exists, and the environment.
func LoadClient(path string) (*Client, error) {
	conf := &Client{}
	if err := load(path, conf); err != nil {
		return nil, err
	}

	if conf.ServerAddr == "" {
		return nil, fmt.Errorf("%w: server address is empty", ErrInvalidConfig)
	}
	if conf.PollInterval <= 0 {
		return nil, fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}

	return conf, nil
}

// LoadServer reads the server config from path, if it exists, and the environment.
func LoadServer(path string) (*Server, error) {
	conf := &Server{}
	if err := load(path, conf); err != nil {
		return nil, err
	}

	switch conf.Storage.Driver {
	case "sqlite", "redis":
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, conf.Storage.Driver)
	}

	return conf, nil
}

func load(path string, conf any) error {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, conf); err != nil {
				return fmt.Errorf("unable to load config file: %w", err)
			}
			return nil
		}
	}

	if err := cleanenv.ReadEnv(conf); err != nil {
		return fmt.Errorf("unable to read config from environment: %w", err)
	}
	return nil
}
