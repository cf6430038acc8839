package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Supported store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultConfigPath is used when CONFIG_PATH is not set
const DefaultConfigPath = "configs/config.yaml"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT" validate:"required,numeric"`
		Mode         string `yaml:"mode" env:"SERVER_MODE" validate:"oneof=development production test"`
		BasePath     string `yaml:"base_path" env:"SERVER_BASE_PATH" validate:"omitempty,startswith=/"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		IdleTimeout  string `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver           string `yaml:"driver" env:"DB_DRIVER" validate:"required,oneof=mongo postgres memory"`
		OperationTimeout string `yaml:"operation_timeout" env:"DB_OPERATION_TIMEOUT"`

		// Mongo
		URI        string `yaml:"uri" env:"MONGODB_URI" validate:"required_if=Driver mongo"`
		Name       string `yaml:"name" env:"MONGODB_DB" validate:"required_if=Driver mongo"`
		Collection string `yaml:"collection" env:"MONGODB_COLLECTION" validate:"required_if=Driver mongo"`

		// Postgres
		Host            string `yaml:"host" env:"DB_HOST" validate:"required_if=Driver postgres"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" validate:"gte=1"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error fatal"`
		Format string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=json text"`
	} `yaml:"logging"`

	Seed struct {
		Enabled bool                     `yaml:"enabled" env:"SEED_ENABLED"`
		Courses []map[string]interface{} `yaml:"courses"`
	} `yaml:"seed"`

	// EnvOverrides lists the environment variables that replaced file or default values
	EnvOverrides []string `yaml:"-"`
}

var validate = validator.New()

// Path returns the configuration file location, honouring CONFIG_PATH.
func Path() string {
	return GetEnv("CONFIG_PATH", DefaultConfigPath)
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine, defaults and env still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	overrides, err := applyEnvOverrides(config)
	if err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	config.EnvOverrides = overrides

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.BasePath = "/api"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.IdleTimeout = "120s"

	config.Database.Driver = DriverMongo
	config.Database.OperationTimeout = "5s"
	config.Database.URI = "mongodb://localhost:27017"
	config.Database.Name = "coursesDB"
	config.Database.Collection = "courses"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "courses"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return err
	}

	durations := map[string]string{
		"server.read_timeout":        config.Server.ReadTimeout,
		"server.write_timeout":       config.Server.WriteTimeout,
		"server.idle_timeout":        config.Server.IdleTimeout,
		"database.operation_timeout": config.Database.OperationTimeout,
		"database.conn_max_lifetime": config.Database.ConnMaxLifetime,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// Durations below were checked by validateConfig, so parse errors cannot occur
// on a loaded config.

// ReadTimeout returns the HTTP server read timeout
func (c *Config) ReadTimeout() time.Duration {
	return mustDuration(c.Server.ReadTimeout)
}

// WriteTimeout returns the HTTP server write timeout
func (c *Config) WriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout)
}

// IdleTimeout returns the HTTP server idle timeout
func (c *Config) IdleTimeout() time.Duration {
	return mustDuration(c.Server.IdleTimeout)
}

// OperationTimeout bounds every single store call
func (c *Config) OperationTimeout() time.Duration {
	return mustDuration(c.Database.OperationTimeout)
}

// ConnMaxLifetime returns the postgres pool connection lifetime
func (c *Config) ConnMaxLifetime() time.Duration {
	return mustDuration(c.Database.ConnMaxLifetime)
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
