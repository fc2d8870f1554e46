package config

import "github.com/caarlos0/env/v10"

// Config centralizes service configuration.
type Config struct {
	HTTPPort            string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL,required"`
	ParticipantHashSalt string `env:"PARTICIPANT_HASH_SALT,required"`
	AdminJWTSecret      string `env:"ADMIN_JWT_SECRET"`
	AdminTokenTTLHours  int    `env:"ADMIN_TOKEN_TTL_HOURS" envDefault:"12"`
	RedisAddr           string `env:"REDIS_ADDR"`
	RedisPassword       string `env:"REDIS_PASSWORD"`
	RedisDB             int    `env:"REDIS_DB" envDefault:"0"`
	SubmitRateWindowMin int    `env:"SUBMIT_RATE_WINDOW_MINUTES" envDefault:"1"`
	SubmitRateMax       int    `env:"SUBMIT_RATE_MAX" envDefault:"30"`
	StatsCacheTTLSec    int    `env:"STATS_CACHE_TTL_SECONDS" envDefault:"30"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
