package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultSessionSecret = "change-me-in-production"

type Config struct {
	// Server
	ServerPort  string   `yaml:"server_port"`
	GinMode     string   `yaml:"gin_mode"`
	CORSOrigins []string `yaml:"cors_origins"`

	// Database
	DBDriver      string `yaml:"db_driver"`
	DBPath        string `yaml:"db_path"`
	DBHost        string `yaml:"db_host"`
	DBPort        string `yaml:"db_port"`
	DBUser        string `yaml:"db_user"`
	DBPassword    string `yaml:"db_password"`
	DBName        string `yaml:"db_name"`
	DBSSLMode     string `yaml:"db_sslmode"`
	DBAutoMigrate bool   `yaml:"db_auto_migrate"`

	// Redis
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Sessions
	SessionStore  string        `yaml:"session_store"`
	SessionSecret string        `yaml:"session_secret"`
	SessionCookie string        `yaml:"session_cookie"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SessionSecure bool          `yaml:"session_secure"`

	// Requests per minute on /login and /register, 0 disables.
	RateLimit int `yaml:"rate_limit"`

	// RabbitMQ
	RabbitMQEnabled  bool   `yaml:"rabbitmq_enabled"`
	RabbitMQHost     string `yaml:"rabbitmq_host"`
	RabbitMQPort     string `yaml:"rabbitmq_port"`
	RabbitMQUser     string `yaml:"rabbitmq_user"`
	RabbitMQPassword string `yaml:"rabbitmq_password"`
}

func defaults() *Config {
	return &Config{
		ServerPort:  "8080",
		GinMode:     "release",
		CORSOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},

		DBDriver:   "sqlite",
		DBPath:     "dev.db",
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBPassword: "postgres",
		DBName:     "postboard",
		DBSSLMode:  "disable",

		RedisHost: "localhost",
		RedisPort: "6379",

		SessionStore:  "database",
		SessionSecret: defaultSessionSecret,
		SessionCookie: "postboard_session",
		SessionTTL:    24 * time.Hour,

		RateLimit: 30,

		RabbitMQHost:     "localhost",
		RabbitMQPort:     "5672",
		RabbitMQUser:     "guest",
		RabbitMQPassword: "guest",
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if
// set), then environment variables. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	autoMigrateSet := os.Getenv("DB_AUTO_MIGRATE") != ""

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		var explicit struct {
			DBAutoMigrate *bool `yaml:"db_auto_migrate"`
		}
		if err := yaml.Unmarshal(data, &explicit); err == nil && explicit.DBAutoMigrate != nil {
			autoMigrateSet = true
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	// Postgres schemas are owned by cmd/migrate unless configured otherwise.
	if !autoMigrateSet {
		cfg.DBAutoMigrate = cfg.DBDriver == "sqlite"
	}
	cfg.DBAutoMigrate = getEnvBool("DB_AUTO_MIGRATE", cfg.DBAutoMigrate)

	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)

	cfg.SessionStore = getEnv("SESSION_STORE", cfg.SessionStore)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionCookie = getEnv("SESSION_COOKIE", cfg.SessionCookie)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.SessionSecure = getEnvBool("SESSION_SECURE", cfg.SessionSecure)

	cfg.RateLimit = getEnvInt("RATE_LIMIT", cfg.RateLimit)

	cfg.RabbitMQEnabled = getEnvBool("RABBITMQ_ENABLED", cfg.RabbitMQEnabled)
	cfg.RabbitMQHost = getEnv("RABBITMQ_HOST", cfg.RabbitMQHost)
	cfg.RabbitMQPort = getEnv("RABBITMQ_PORT", cfg.RabbitMQPort)
	cfg.RabbitMQUser = getEnv("RABBITMQ_USER", cfg.RabbitMQUser)
	cfg.RabbitMQPassword = getEnv("RABBITMQ_PASSWORD", cfg.RabbitMQPassword)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	switch c.SessionStore {
	case "database", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q (want database or redis)", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// UsesDefaultSecret is true when SESSION_SECRET was never set.
func (c *Config) UsesDefaultSecret() bool {
	return c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
