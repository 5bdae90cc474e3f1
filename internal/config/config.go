package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

// Storage drivers understood by the database package and main.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	RabbitMQ RabbitMQConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	SeedProducts bool
}

type DatabaseConfig struct {
	Driver   string
	DSN      string // connection string handed to the driver
	LogLevel string // silent, error, warn or info
}

type AuthConfig struct {
	JWTSecret string // empty disables the authorization hook
}

type RabbitMQConfig struct {
	URL      string // empty disables product events
	Exchange string
}

// Load reads the configuration from the environment and an optional .env file
// in the working directory.
func Load() *Config {
	return LoadFrom(viper.New(), ".")
}

// LoadFrom reads the configuration into v, looking for .env in dir.
func LoadFrom(v *viper.Viper, dir string) *Config {
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SEED_PRODUCTS", false)
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:products.db?cache=shared")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("AUTH_JWT_SECRET", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "products")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Printf("Warning: Could not read config file: %v", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port:         v.GetString("APP_PORT"),
			Env:          v.GetString("APP_ENV"),
			SeedProducts: v.GetBool("SEED_PRODUCTS"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DB_LOG_LEVEL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
	}
}
