package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Prefix is prepended to every variable name, e.g. ETERNA_HTTP_PORT.
const Prefix = "ETERNA"

// Build targets select the default storage driver.
const (
	TargetLocal = "local"
	TargetCloud = "cloud"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the configuration for the story service.
type Config struct {
	// Build target selects high-level environment: local or cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"cloud"`
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Session tokens from the hosted identity provider are HS256 JWTs.
	AuthJWTSecret string `envconfig:"AUTH_JWT_SECRET" default:""`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:""`

	VapiAPIKey        string `envconfig:"VAPI_API_KEY" default:""`
	VapiBaseURL       string `envconfig:"VAPI_BASE_URL" default:"https://api.vapi.ai"`
	VapiAssistantID   string `envconfig:"VAPI_ASSISTANT_ID" default:""`
	VapiPhoneNumberID string `envconfig:"VAPI_PHONE_NUMBER_ID" default:""`
	VapiWebhookSecret string `envconfig:"VAPI_WEBHOOK_SECRET" default:""`

	// Public base URL used to register the webhook target with the voice platform.
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL" default:""`

	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`

	// Requests per minute per client IP on the story generation route.
	GenerateRateLimit int `envconfig:"GENERATE_RATE_LIMIT" default:"10"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	if c.BuildTarget == "" {
		c.BuildTarget = TargetCloud
	}
	var defaultDB string
	switch c.BuildTarget {
	case TargetLocal:
		defaultDB = DriverSQLite
	case TargetCloud:
		defaultDB = DriverPostgres
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	switch c.DBDriver {
	case DriverPostgres:
	case DriverSQLite:
		if c.SQLitePath == "" {
			c.SQLitePath = "./data/eterna.db"
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

// Validate checks the variables required to serve traffic. The CLI skips it
// because migrations and offline exports need only the database.
func (c *Config) Validate() error {
	if c.DBDriver == DriverPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("%s_POSTGRES_DSN is required when DB_DRIVER=postgres", Prefix)
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("%s_OPENAI_API_KEY is required", Prefix)
	}
	if c.BuildTarget == TargetCloud && c.AuthJWTSecret == "" {
		return fmt.Errorf("%s_AUTH_JWT_SECRET is required for BUILD_TARGET=cloud", Prefix)
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	return nil
}

// New creates a Config from ETERNA_* environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Str("openai_model", cfg.OpenAIModel).
		Str("vapi_base_url", cfg.VapiBaseURL).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Bool("webhook_secret_present", cfg.VapiWebhookSecret != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// IsLocal reports whether the service runs with local developer defaults.
func (c *Config) IsLocal() bool { return c.BuildTarget == TargetLocal }

// HTTPAddr returns the HTTP listen address.
func (c *Config) HTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }

// HealthInterval is the probe period for dependency health checkers.
func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

// HealthProbeTimeout bounds a single dependency probe.
func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}

// WebhookURL is the callback the voice platform should post events to.
func (c *Config) WebhookURL() string {
	if c.PublicBaseURL == "" {
		return ""
	}
	return c.PublicBaseURL + "/api/webhook/vapi"
}
