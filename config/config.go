package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// EnvConfigPath names the env var that overrides the config file location.
const EnvConfigPath = "OTCBOARD_APP_ENV"

const defaultConfigPath = "./prod.yml"

type Config struct {
	Server struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		ReadLimit    int           `yaml:"read_limit"`
		Workers      int           `yaml:"workers"`
		QueueSize    int           `yaml:"queue_size"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"server"`

	Api struct {
		Endpoint   string        `yaml:"endpoint"`
		ProfileUrl string        `yaml:"profile_url"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxTries   uint          `yaml:"max_tries"`
	} `yaml:"api"`

	Page struct {
		Template string `yaml:"template"`
		Snapshot string `yaml:"snapshot"`
	} `yaml:"page"`

	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`

	Catalog struct {
		TTL time.Duration `yaml:"ttl"`
	} `yaml:"catalog"`
}

// Default returns the settings the listener runs with when no file overrides them.
func Default() *Config {
	var c Config
	c.Server.Host = "127.0.0.1"
	c.Server.Port = 8889
	c.Server.ReadLimit = 9999
	c.Server.Workers = 1
	c.Server.QueueSize = 5

	c.Api.Endpoint = "https://api2.bybit.com"
	c.Api.ProfileUrl = "https://www.bybit.com"
	c.Api.MaxTries = 1

	c.Page.Template = "template.html"
	c.Page.Snapshot = "last_response.txt"

	c.Log.File = "bybit.log"
	c.Log.Level = "debug"

	c.Catalog.TTL = 30 * time.Minute
	return &c
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadConfig reads filename over the defaults. A missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, err
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.ReadLimit <= 0 {
		return fmt.Errorf("server.read_limit must be positive")
	}
	if c.Server.Workers <= 0 {
		c.Server.Workers = 1
	}
	if c.Server.QueueSize < 0 {
		c.Server.QueueSize = 0
	}
	if c.Api.MaxTries == 0 {
		c.Api.MaxTries = 1
	}
	if c.Api.Endpoint == "" {
		return fmt.Errorf("api.endpoint is empty")
	}
	return nil
}

// Load picks up .env (if any), then the file named by OTCBOARD_APP_ENV or ./prod.yml.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	confFilePath := defaultConfigPath
	if configFilePathFromEnv := os.Getenv(EnvConfigPath); configFilePathFromEnv != "" {
		confFilePath = configFilePathFromEnv
	}
	return LoadConfig(confFilePath)
}
