package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Analytics API
	APIBaseURL        string `yaml:"api_base_url"`
	APITimeoutMS      int    `yaml:"api_timeout_ms"`
	ReportDestination string `yaml:"report_destination"`
	ReportRateLimit   int    `yaml:"report_rate_limit"`

	// Mock analytics API
	DatasetPath string `yaml:"dataset_path"`

	// Workspace
	SeedMockGraph bool    `yaml:"seed_mock_graph"`
	CanvasBox     float64 `yaml:"canvas_box"`

	// Feature flags
	EnableMetrics bool     `yaml:"enable_metrics"`
	EnableTracing bool     `yaml:"enable_tracing"`
	OTLPEndpoint  string   `yaml:"otlp_endpoint"`
	EnableCORS    bool     `yaml:"enable_cors"`
	CORSOrigins   []string `yaml:"cors_origins"`

	// AWS configuration
	EnableEventBridge bool   `yaml:"enable_eventbridge"`
	EventBusName      string `yaml:"event_bus_name"`
	AWSRegion         string `yaml:"aws_region"`

	// Lambda configuration
	IsLambda bool `yaml:"is_lambda"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		ServerAddress:     ":8080",
		Environment:       "development",
		LogLevel:          "info",
		APIBaseURL:        "http://localhost:8000",
		APITimeoutMS:      10000,
		ReportDestination: ".",
		ReportRateLimit:   10,
		SeedMockGraph:     true,
		CanvasBox:         300,
		EnableMetrics:     true,
		OTLPEndpoint:      "localhost:4317",
		EnableCORS:        true,
		CORSOrigins:       []string{"*"},
		EventBusName:      "processflow-events",
		AWSRegion:         "us-west-2",
	}
}

// LoadConfig loads configuration: defaults, then the YAML file named by
// CONFIG_FILE, then environment variables
func LoadConfig() (*Config, error) {
	cfg := Defaults()
	cfg.LoadedFrom = []string{"defaults"}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	cfg.applyEnv()
	cfg.LoadedFrom = append(cfg.LoadedFrom, "environment")

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)

	c.APIBaseURL = getEnv("API_BASE_URL", c.APIBaseURL)
	c.APITimeoutMS = getEnvInt("API_TIMEOUT_MS", c.APITimeoutMS)
	c.ReportDestination = getEnv("REPORT_DESTINATION", c.ReportDestination)
	c.ReportRateLimit = getEnvInt("REPORT_RATE_LIMIT", c.ReportRateLimit)
	c.DatasetPath = getEnv("DATASET_PATH", c.DatasetPath)

	c.SeedMockGraph = getEnvBool("SEED_MOCK_GRAPH", c.SeedMockGraph)
	c.CanvasBox = getEnvFloat("CANVAS_BOX", c.CanvasBox)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.OTLPEndpoint = getEnv("OTLP_ENDPOINT", c.OTLPEndpoint)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	c.CORSOrigins = getEnvList("CORS_ORIGINS", c.CORSOrigins)

	c.EnableEventBridge = getEnvBool("ENABLE_EVENTBRIDGE", c.EnableEventBridge)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda)
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.APITimeoutMS <= 0 {
		return fmt.Errorf("API_TIMEOUT_MS must be positive")
	}
	if c.ReportRateLimit < 0 {
		return fmt.Errorf("REPORT_RATE_LIMIT must not be negative")
	}
	if c.CanvasBox <= 0 {
		return fmt.Errorf("CANVAS_BOX must be positive")
	}
	if c.APIBaseURL != "" {
		if u, err := url.Parse(c.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("API_BASE_URL %q is not an absolute URL", c.APIBaseURL)
		}
	}
	if c.EnableEventBridge && c.EventBusName == "" {
		return fmt.Errorf("EVENT_BUS_NAME is required when EventBridge is enabled")
	}
	if c.EnableTracing && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP_ENDPOINT is required when tracing is enabled")
	}

	if c.Environment == "production" {
		if c.APIBaseURL == "" {
			return fmt.Errorf("API_BASE_URL is required in production")
		}
		if c.ReportDestination == "" {
			return fmt.Errorf("REPORT_DESTINATION is required in production")
		}
	}

	return nil
}

// APITimeout is the analytics request timeout
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.APITimeoutMS) * time.Millisecond
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping blanks
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
