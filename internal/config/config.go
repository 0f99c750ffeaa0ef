// internal/config/config.go

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Sources     SourcesConfig
	API         APIConfig
	Log         LogConfig
	Telemetry   TelemetryConfig
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
	Driver       string
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
	SSLMode      string
	AutoMigrate  bool
}

// ConnString returns DATABASE_URL when set, otherwise a URL assembled from the parts.
func (c DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

// NATSConfig holds NATS configuration. An empty URL disables events.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsTopic    string
}

// SourcesConfig holds third-party trend source settings
type SourcesConfig struct {
	RapidAPIKey        string
	TikTokHost         string
	TikTokPath         string
	XHost              string
	XPath              string
	RedditURL          string
	YouTubeURL         string
	GoogleHost         string
	GoogleRegion       string
	GoogleRSSURL       string
	DefaultState       string
	HTTPTimeout        time.Duration
	LogRawPayloadBytes int
}

// APIConfig points CLI readers at a running read API
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// TelemetryConfig holds optional tracing and metrics push targets
type TelemetryConfig struct {
	OTLPEndpoint   string
	PushgatewayURL string
	ServiceName    string
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Load loads configuration from .env files and environment variables
func Load() (Config, error) {
	// Missing env files are fine; the environment wins either way.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Driver:       getEnv("STORE_DRIVER", DriverPostgres),
			URL:          getEnv("DATABASE_URL", ""),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "spykes"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			AutoMigrate:  getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsTopic:    getEnv("TREND_EVENTS_TOPIC", "trend"),
		},
		Sources: SourcesConfig{
			RapidAPIKey:        getEnv("RAPIDAPI_KEY", ""),
			TikTokHost:         getEnv("TIKTOK_TRENDS_HOST", ""),
			TikTokPath:         getEnv("TIKTOK_TRENDS_PATH", "/api/hashtags?country=NG"),
			XHost:              getEnv("X_TRENDS_HOST", ""),
			XPath:              getEnv("X_TRENDS_PATH", ""),
			RedditURL:          getEnv("REDDIT_TRENDS_URL", ""),
			YouTubeURL:         getEnv("YT_TRENDS_URL", ""),
			GoogleHost:         getEnv("GOOGLE_TRENDS_HOST", "google-trends8.p.rapidapi.com"),
			GoogleRegion:       getEnv("GOOGLE_TRENDS_REGION", "NG"),
			GoogleRSSURL:       getEnv("GOOGLE_TRENDS_RSS_URL", "https://trends.google.com/trending/rss?geo=NG"),
			DefaultState:       getEnv("INGEST_DEFAULT_STATE", "Lagos"),
			HTTPTimeout:        getEnvAsDuration("SOURCE_HTTP_TIMEOUT", 30*time.Second),
			LogRawPayloadBytes: getEnvAsInt("INGEST_LOG_PAYLOAD_BYTES", 4096),
		},
		API: APIConfig{
			BaseURL: getEnv("APP_URL", getEnv("NEXT_PUBLIC_APP_URL", "http://localhost:8080")),
			Timeout: getEnvAsDuration("APP_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			PushgatewayURL: getEnv("PROMETHEUS_PUSHGATEWAY_URL", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "spykes"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	switch config.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", config.Database.Driver)
	}

	switch config.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", config.Log.Format)
	}

	if config.Environment != "development" && config.Database.Driver == DriverPostgres && config.Database.URL == "" && config.Database.Password == "postgres" {
		return fmt.Errorf("DATABASE_URL or DB_PASSWORD must be set in non-development environments")
	}

	if config.Environment != "development" && config.Database.Driver == DriverMemory {
		return fmt.Errorf("memory store is only available in development")
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

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
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
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
