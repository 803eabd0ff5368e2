package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// KB configuration
	KB KBConfig `mapstructure:"kb"`

	// Search configuration
	Search SearchConfig `mapstructure:"search"`

	// RAG configuration
	RAG RAGConfig `mapstructure:"rag"`

	// NLP configuration
	NLP NLPConfig `mapstructure:"nlp"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`

	// AlertStore configuration
	AlertStore AlertStoreConfig `mapstructure:"alert_store"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// KBConfig holds knowledge-base configuration
type KBConfig struct {
	// Path to a YAML knowledge-base file. Empty means the builtin
	// hospital dataset.
	Path string `mapstructure:"path"`
}

// SearchConfig holds search engine configuration
type SearchConfig struct {
	DecayFactor float64 `mapstructure:"decay_factor"`
	SeedLimit   int     `mapstructure:"seed_limit"`
}

// RAGConfig holds RAG context assembly configuration
type RAGConfig struct {
	MinRelevance    float64 `mapstructure:"min_relevance"`
	Limit           int     `mapstructure:"limit"`
	MaxContextChars int     `mapstructure:"max_context_chars"`
}

// NLPConfig holds configuration for the text-generation collaborator
type NLPConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Provider    string  `mapstructure:"provider"` // openai
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// AlertConfig holds configuration for operational alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// AlertStoreConfig holds configuration for the hospital-alert store
type AlertStoreConfig struct {
	Type string `mapstructure:"type"` // memory, badger
	Path string `mapstructure:"path"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load loads configuration from file and environment variables. An empty
// path skips file loading and uses whatever viper already holds.
func Load(path string) (*Config, error) {
	// Set defaults
	setDefaults()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "release")

	// KB defaults: builtin dataset
	viper.SetDefault("kb.path", "")

	// Search defaults
	viper.SetDefault("search.decay_factor", 0.8)
	viper.SetDefault("search.seed_limit", 10)

	// RAG defaults
	viper.SetDefault("rag.min_relevance", 0.05)
	viper.SetDefault("rag.limit", 8)
	viper.SetDefault("rag.max_context_chars", 2000)

	// NLP defaults: disabled until an API key is configured
	viper.SetDefault("nlp.enabled", false)
	viper.SetDefault("nlp.provider", "openai")
	viper.SetDefault("nlp.model", "gpt-4o-mini")
	viper.SetDefault("nlp.temperature", 0.2)
	viper.SetDefault("nlp.max_tokens", 512)

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Alert store defaults
	viper.SetDefault("alert_store.type", "memory")

	home, err := os.UserHomeDir()
	if err == nil {
		viper.SetDefault("alert_store.path", fmt.Sprintf("%s/.triago/alerts", home))
		viper.SetDefault("telemetry.parquet_path", fmt.Sprintf("%s/.triago/telemetry", home))
	}

	// Telemetry defaults
	viper.SetDefault("telemetry.enabled", false)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Knowledge base
	if path := os.Getenv("TRIAGO_KB_PATH"); path != "" {
		config.KB.Path = path
	}

	// NLP credentials
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.NLP.APIKey = apiKey
	}
	if baseURL := os.Getenv("TRIAGO_NLP_BASE_URL"); baseURL != "" {
		config.NLP.BaseURL = baseURL
	}
	if model := os.Getenv("TRIAGO_NLP_MODEL"); model != "" {
		config.NLP.Model = model
	}

	// Server settings
	if host := os.Getenv("TRIAGO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("TRIAGO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Log settings
	if level := os.Getenv("TRIAGO_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}

	// Alert store settings
	if path := os.Getenv("TRIAGO_ALERT_STORE_PATH"); path != "" {
		config.AlertStore.Path = path
	}

	// Telemetry settings
	if path := os.Getenv("TRIAGO_TELEMETRY_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
