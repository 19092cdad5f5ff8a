package config

import (
	"errors"
	"os"
	"time"

	"github.com/Skotchmaster/storefront/pkg/config"
)

type ServiceConfig struct {
	config.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	AdminUsername string
	AdminPassword string

	BcryptCost int
}

func Load() ServiceConfig {
	return ServiceConfig{
		Config: config.Load(),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       config.EnvIntDefault("REDIS_DB", 0),
		CacheTTL:      config.EnvDurationDefault("CACHE_TTL", 5*time.Minute),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    config.EnvDefault("ES_INDEX", "products"),

		AdminUsername: config.EnvDefault("ADMIN_USERNAME", "admin"),
		AdminPassword: config.EnvDefault("ADMIN_PASSWORD", "admin123"),

		BcryptCost: config.EnvIntDefault("BCRYPT_COST", 10),
	}
}

func (c ServiceConfig) ValidateDB() error {
	return config.NonEmpty(c.DatabaseURL, "DATABASE_URL")
}

func (c ServiceConfig) ValidateServe() error {
	return errors.Join(
		c.ValidateDB(),
		config.NonEmptyBytes(c.JWTAccessSecret, "JWT_SECRET"),
	)
}
