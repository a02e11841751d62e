package config

import (
	"fmt"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the relay.
type Config struct {
	Host       string `env:"HOST,default=0.0.0.0"`
	Port       int    `env:"PORT,default=3000"`
	Env        string `env:"ENV,default=development"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`
	PublicDir  string `env:"PUBLIC_DIR,default=./public"`
	SendBuffer int    `env:"SEND_BUFFER,default=16"`
}

// Load reads configuration from environment variables, first loading a
// .env file if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
