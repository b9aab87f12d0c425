// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Collector   CollectorConfig
	Pulse       PulseConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
}

// NATSConfig holds NATS configuration. NATS is optional: an empty URL
// disables event publishing and the live websocket feed.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// CollectorConfig holds upstream collection configuration
type CollectorConfig struct {
	Platform          string
	Subreddits        []string
	FetchLimit        int
	Window            time.Duration
	RequestDelay      time.Duration
	RequestTimeout    time.Duration
	TwitterBearer     string
	TwitterMaxResults int
}

// PulseConfig holds aggregation pipeline configuration
type PulseConfig struct {
	SentimentFormula string
	RefreshInterval  time.Duration
	EventsSubject    string
	CacheBackend     string
	CachePath        string
	HistoryDays      int
	HistoryMaxDays   int
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "txpulse"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Collector: CollectorConfig{
			Platform:          getEnv("COLLECTOR_PLATFORM", "reddit"),
			Subreddits:        getEnvAsSlice("COLLECTOR_SUBREDDITS", []string{"texas", "houston", "austin", "dallas", "sanantonio", "politics", "conservative", "liberal"}),
			FetchLimit:        getEnvAsInt("COLLECTOR_FETCH_LIMIT", 100),
			Window:            getEnvAsDuration("COLLECTOR_WINDOW", 24*time.Hour),
			RequestDelay:      getEnvAsDuration("COLLECTOR_REQUEST_DELAY", 1*time.Second),
			RequestTimeout:    getEnvAsDuration("COLLECTOR_REQUEST_TIMEOUT", 10*time.Second),
			TwitterBearer:     getEnv("TWITTER_BEARER_TOKEN", ""),
			TwitterMaxResults: getEnvAsInt("TWITTER_MAX_RESULTS", 100),
		},
		Pulse: PulseConfig{
			SentimentFormula: getEnv("PULSE_SENTIMENT_FORMULA", ""),
			RefreshInterval:  getEnvAsDuration("PULSE_REFRESH_INTERVAL", 15*time.Minute),
			EventsSubject:    getEnv("PULSE_EVENTS_SUBJECT", "pulse.snapshot.updated"),
			CacheBackend:     getEnv("CACHE_BACKEND", "file"),
			CachePath:        getEnv("CACHE_PATH", "/tmp/tx-pulse-cache.json"),
			HistoryDays:      getEnvAsInt("PULSE_HISTORY_DAYS", 30),
			HistoryMaxDays:   getEnvAsInt("PULSE_HISTORY_MAX_DAYS", 365),
		},
	}

	// Each collection path keeps its historical formula: free-text
	// Reddit posts use density normalization, keyword-scoped tweets use
	// the plain hit ratio.
	if config.Pulse.SentimentFormula == "" {
		if config.Collector.Platform == "twitter" {
			config.Pulse.SentimentFormula = "ratio"
		} else {
			config.Pulse.SentimentFormula = "densityNormalized"
		}
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Collector.Platform {
	case "reddit", "none":
	case "twitter":
		if config.Collector.TwitterBearer == "" {
			return fmt.Errorf("TWITTER_BEARER_TOKEN must be set for the twitter collector")
		}
	default:
		return fmt.Errorf("unsupported collector platform: %s", config.Collector.Platform)
	}

	switch config.Pulse.SentimentFormula {
	case "ratio", "densityNormalized":
	default:
		return fmt.Errorf("unsupported sentiment formula: %s", config.Pulse.SentimentFormula)
	}

	switch config.Pulse.CacheBackend {
	case "file", "postgres", "none":
	default:
		return fmt.Errorf("unsupported cache backend: %s", config.Pulse.CacheBackend)
	}

	return nil
}

// Helper functions

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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
