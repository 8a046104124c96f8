package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// MySQL holds accounts, messages and notifications
	Database DatabaseConfig `json:"database"`

	// MongoDB holds the denormalized friendship graph and avatar files
	MongoDB MongoDBConfig `json:"mongodb"`

	// Friendship sync tuning
	Friendship FriendshipConfig `json:"friendship"`

	// Notification Configuration
	Notification NotificationConfig `json:"notification"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains MySQL connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

// MongoDBConfig contains the document store connection configuration
type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// FriendshipConfig tunes the friendship sync layer
type FriendshipConfig struct {
	PageSize      int `json:"page_size"`      // edges per page request
	MaxPages      int `json:"max_pages"`      // safety cap on full loads
	CacheTTL      int `json:"cache_ttl"`      // minutes
	PageDelay     int `json:"page_delay"`     // milliseconds between pages
	SnapshotLimit int `json:"snapshot_limit"` // window size of the live friends view
}

// NotificationConfig contains notification system configuration
type NotificationConfig struct {
	Workers           int  `json:"workers"`             // Number of worker goroutines
	ChannelBufferSize int  `json:"channel_buffer_size"` // Channel buffer size
	Enabled           bool `json:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// LoadConfig builds a Config from environment variables, falling back to
// development defaults. godotenv is loaded by the caller before this runs.
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "3306"),
			Username:     getEnv("DB_USER", "estante"),
			Password:     getEnv("DB_PASSWORD", "estante123"),
			DatabaseName: getEnv("DB_NAME", "estante"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnv("MONGO_HOST", "localhost"),
			Port:     getEnv("MONGO_PORT", "27017"),
			Username: getEnv("MONGO_USER", ""),
			Password: getEnv("MONGO_PASSWORD", ""),
			Database: getEnv("MONGO_DB", "estante"),
		},
		Friendship: FriendshipConfig{
			PageSize:      getEnvInt("FRIENDS_PAGE_SIZE", 100),
			MaxPages:      getEnvInt("FRIENDS_MAX_PAGES", 20),
			CacheTTL:      getEnvInt("FRIENDS_CACHE_TTL", 5),
			PageDelay:     getEnvInt("FRIENDS_PAGE_DELAY", 100),
			SnapshotLimit: getEnvInt("FRIENDS_SNAPSHOT_LIMIT", 100),
		},
		Notification: NotificationConfig{
			Workers:           getEnvInt("NOTIF_WORKERS", 5),
			ChannelBufferSize: getEnvInt("NOTIF_BUFFER", 1000),
			Enabled:           getEnv("NOTIF_ENABLED", "true") == "true",
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username != "" && cfg.MongoDB.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s",
			cfg.MongoDB.Username,
			cfg.MongoDB.Password,
			cfg.MongoDB.Host,
			cfg.MongoDB.Port,
		)
	}
	return fmt.Sprintf("mongodb://%s:%s", cfg.MongoDB.Host, cfg.MongoDB.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
