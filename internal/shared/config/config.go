package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Origins allowed to call the JSON selection endpoints; empty allows all
	CORSAllowedOrigins []string

	// Upstream booking API
	Backend BackendConfig

	// Browser session handling
	Session SessionConfig

	// Redis configuration
	Redis RedisConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Activity stream, Kafka first then RabbitMQ
	Kafka KafkaConfig
	AMQP  AMQPConfig

	// Logging
	LogLevel string
}

// BackendConfig describes the booking API this client talks to
type BackendConfig struct {
	BaseURL       string
	Timeout       time.Duration
	MaxUploadSize int64
}

// SessionConfig holds session cookie and persistence configuration
type SessionConfig struct {
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
	File         string // CLI session file
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
	Enabled  bool
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled         bool          `json:"enabled"`
	WindowDuration  time.Duration `json:"window_duration"`
	DefaultRequests int           `json:"default_requests"`
	PublicRequests  int           `json:"public_requests"`
	AuthRequests    int           `json:"auth_requests"`
	BookingRequests int           `json:"booking_requests"`
	HealthRequests  int           `json:"health_requests"`
	WhitelistedIPs  []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds the activity producer configuration
type KafkaConfig struct {
	Brokers       []string
	ActivityTopic string
	RetryMax      int
	Timeout       time.Duration
}

// AMQPConfig holds the RabbitMQ activity publisher configuration
type AMQPConfig struct {
	URL           string
	ActivityQueue string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		CORSAllowedOrigins: getStringSliceEnv("CORS_ALLOWED_ORIGINS", nil),

		Backend: BackendConfig{
			BaseURL:       strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8080"), "/"),
			Timeout:       getDurationEnv("HTTP_TIMEOUT", 15*time.Second),
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024), // 10 MB
		},

		Session: SessionConfig{
			CookieName:   getEnv("SESSION_COOKIE_NAME", "boxoffice_session"),
			TTL:          getDurationEnv("SESSION_TTL", 24*time.Hour),
			SecureCookie: getBoolEnv("SESSION_SECURE_COOKIE", false),
			File:         getEnv("SESSION_FILE", defaultSessionFile()),
		},

		// Redis configuration
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:         getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:  getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests: getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 120),
			PublicRequests:  getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 300),
			AuthRequests:    getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 10),
			BookingRequests: getIntEnv("RATE_LIMIT_BOOKING_REQUESTS", 60),
			HealthRequests:  getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 600),
			WhitelistedIPs:  getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		Kafka: KafkaConfig{
			Brokers:       getStringSliceEnv("KAFKA_BROKERS", nil),
			ActivityTopic: getEnv("KAFKA_ACTIVITY_TOPIC", "boxoffice-activity"),
			RetryMax:      getIntEnv("KAFKA_RETRY_MAX", 3),
			Timeout:       getDurationEnv("KAFKA_TIMEOUT", 10*time.Second),
		},

		AMQP: AMQPConfig{
			URL:           getEnv("RABBITMQ_URL", getEnv("AMQP_URL", "")),
			ActivityQueue: getEnv("AMQP_ACTIVITY_QUEUE", "boxoffice.activity"),
		},

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Build composite values
	if cfg.Redis.Host != "" {
		cfg.Redis.Addr = cfg.Redis.Host + ":" + cfg.Redis.Port
		cfg.Redis.Enabled = true
	}

	return cfg
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".boxoffice-session.json"
	}
	return dir + string(os.PathSeparator) + "boxoffice" + string(os.PathSeparator) + "session.json"
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getIntEnv gets an integer environment variable with a fallback value
func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getInt64Env gets an int64 environment variable with a fallback value
func getInt64Env(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return fallback
}

// getDurationEnv gets a duration environment variable with a fallback value
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return fallback
}

// getBoolEnv gets a boolean environment variable with a fallback value
func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getStringSliceEnv gets a comma-separated string environment variable as a slice
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		var result []string
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// Activity brokers
const (
	BrokerKafka = "kafka"
	BrokerAMQP  = "amqp"
)

// ActivityBroker names the broker user actions are streamed to, or "" when
// the stream is off. Kafka wins when both are configured.
func (c *Config) ActivityBroker() string {
	switch {
	case len(c.Kafka.Brokers) > 0:
		return BrokerKafka
	case c.AMQP.URL != "":
		return BrokerAMQP
	}
	return ""
}

// ActivityEnabled reports whether user actions are streamed anywhere
func (c *Config) ActivityEnabled() bool {
	return c.ActivityBroker() != ""
}
