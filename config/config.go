package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort        string `yaml:"server_port"`
	MongoURI          string `yaml:"mongo_uri"`
	MongoDBName       string `yaml:"mongo_db_name"`
	CORSAllowedOrigin string `yaml:"cors_allowed_origin"`

	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level"`

	// StatusReportSchedule is a cron spec. Empty disables the report.
	StatusReportSchedule string `yaml:"status_report_schedule"`

	RequestTimeoutSeconds   int    `yaml:"request_timeout_seconds"`
	DBBreakerTimeoutSeconds int    `yaml:"db_breaker_timeout_seconds"`
	DBBreakerMaxFailures    uint32 `yaml:"db_breaker_max_failures"`
}

func defaults() *Config {
	return &Config{
		ServerPort:              "8080",
		MongoURI:                "mongodb://mongo:27017",
		MongoDBName:             "milestones_db",
		CORSAllowedOrigin:       "*",
		LogFile:                 "/app/logs/milestones.log",
		LogLevel:                "info",
		StatusReportSchedule:    "@every 1h",
		RequestTimeoutSeconds:   15,
		DBBreakerTimeoutSeconds: 5,
		DBBreakerMaxFailures:    3,
	}
}

// Load builds the configuration from defaults, the optional YAML file named by CONFIG_FILE,
// an optional .env file and finally the process environment, later sources winning.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	cfg.overrideFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overrideFromEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDBName = getEnv("MONGO_DB_NAME", c.MongoDBName)
	c.CORSAllowedOrigin = getEnv("CORS_ALLOWED_ORIGIN", c.CORSAllowedOrigin)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	if value, ok := os.LookupEnv("STATUS_REPORT_SCHEDULE"); ok {
		c.StatusReportSchedule = value
	}
	c.RequestTimeoutSeconds = getEnvInt("REQUEST_TIMEOUT_SECONDS", c.RequestTimeoutSeconds)
	c.DBBreakerTimeoutSeconds = getEnvInt("DB_BREAKER_TIMEOUT_SECONDS", c.DBBreakerTimeoutSeconds)
	c.DBBreakerMaxFailures = uint32(getEnvInt("DB_BREAKER_MAX_FAILURES", int(c.DBBreakerMaxFailures)))
}

func (c *Config) validate() error {
	if c.ServerPort == "" {
		return errors.New("SERVER_PORT is not set")
	}
	if c.MongoURI == "" {
		return errors.New("MONGO_URI is not set")
	}
	if c.MongoDBName == "" {
		return errors.New("MONGO_DB_NAME is not set")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeoutSeconds)
	}
	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) DBBreakerTimeout() time.Duration {
	return time.Duration(c.DBBreakerTimeoutSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
