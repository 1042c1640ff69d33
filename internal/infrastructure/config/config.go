package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all environment-driven settings for the API process.
// Redis is optional: without it the room-list cache and the retry queue are
// disabled and the server still serves every endpoint.
type Config struct {
	Port      int    `envconfig:"PORT" default:"5000"`
	DBURL     string `envconfig:"DB_URL" required:"true"`
	RedisURL  string `envconfig:"REDIS_URL"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	ReadTimeoutSeconds  int `envconfig:"READ_TIMEOUT" default:"60"`
	WriteTimeoutSeconds int `envconfig:"WRITE_TIMEOUT" default:"30"`
}

// Load populates Config from the environment. Call godotenv.Load first if a
// .env file should be honored.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
