package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo = "mongo"
	DriverCouch = "couch"
)

// ErrConfiguration marks a missing or invalid configuration value.
var ErrConfiguration = errors.New("configuration error")

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver         string
	MongoURI       string
	CouchURL       string
	Name           string
	Collection     string
	ConnectTimeout time.Duration
}

// URI returns the connection string for the selected driver.
func (c DatabaseConfig) URI() string {
	if c.Driver == DriverCouch {
		return c.CouchURL
	}
	return c.MongoURI
}

type WebSocketConfig struct {
	MaxClients      int
	ReadBufferSize  int
	WriteBufferSize int
	MaxMessageSize  int64
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	godotenv.Load()

	connectTimeout, err := time.ParseDuration(getEnv("CONNECT_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid CONNECT_TIMEOUT: %v", ErrConfiguration, err)
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", DriverMongo))
	if driver != DriverMongo && driver != DriverCouch {
		return nil, fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrConfiguration, driver)
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Env:             getEnv("ENV", "development"),
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:         driver,
			MongoURI:       os.Getenv("MONGO_URI"),
			CouchURL:       os.Getenv("COUCHDB_URL"),
			Name:           os.Getenv("DATABASE_NAME"),
			Collection:     os.Getenv("COLLECTION_NAME"),
			ConnectTimeout: connectTimeout,
		},
		WebSocket: WebSocketConfig{
			MaxClients:      getEnvAsInt("WS_MAX_CLIENTS", 100),
			ReadBufferSize:  getEnvAsInt("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getEnvAsInt("WS_WRITE_BUFFER_SIZE", 1024),
			MaxMessageSize:  int64(getEnvAsInt("WS_MAX_MESSAGE_SIZE", 4096)),
			WriteWait:       10 * time.Second,
			PongWait:        60 * time.Second,
			PingPeriod:      54 * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,PATCH,DELETE,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}, nil
}

// Validate reports the first required database value that is missing.
// Name rules are checked by the connection provider.
func (c *Config) Validate() error {
	db := c.Database

	switch db.Driver {
	case DriverMongo:
		if db.MongoURI == "" {
			return fmt.Errorf("%w: missing required environment variable: MONGO_URI", ErrConfiguration)
		}
	case DriverCouch:
		if db.CouchURL == "" {
			return fmt.Errorf("%w: missing required environment variable: COUCHDB_URL", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown STORE_DRIVER %q", ErrConfiguration, db.Driver)
	}

	if db.Name == "" {
		return fmt.Errorf("%w: missing required environment variable: DATABASE_NAME", ErrConfiguration)
	}
	if db.Collection == "" {
		return fmt.Errorf("%w: missing required environment variable: COLLECTION_NAME", ErrConfiguration)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
