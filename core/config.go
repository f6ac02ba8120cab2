package core

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds all configuration values for the Paintly backend.
// Values are loaded once at process start from environment variables
// (optionally populated from a .env file by the caller).
type Config struct {
	// Provider credentials
	FalAPIKey    string // FAL_KEY
	GeminiAPIKey string // GEMINI_API_KEY

	// Provider endpoints and models
	FalEndpoint string // Base URL for the synchronous Fal.ai API
	FalModel    string // Fal model identifier (image-to-image edit)
	GeminiModel string // Gemini model identifier

	// DefaultProvider is used when no explicit selection has been made
	// and as the client-facing fallback when provider resolution fails.
	DefaultProvider string

	// HTTP server
	Host           string
	Port           int
	MaxUploadBytes int64 // Per-request multipart memory/size ceiling
	RatePerMinute  int   // Per-IP request budget for the generate endpoint

	// AdminPasswordHash is the bcrypt hash guarding provider switching and
	// error statistics. Empty disables the admin surface entirely.
	AdminPasswordHash string

	// Persistence
	DatabasePath   string
	MigrationsPath string

	// Retry policy (see retry package)
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	// Provider call budget per attempt
	AITimeout time.Duration

	// Health checking
	HealthCheckTimeout time.Duration
	HealthCacheTTL     time.Duration

	// Offline detection
	OfflineProbeURL      string
	OfflineProbeInterval time.Duration

	// Error log
	ErrorLogCapacity int

	// ProviderMetadataPath points to an optional YAML file overriding
	// provider display metadata (names, descriptions, capabilities).
	ProviderMetadataPath string

	// Logging
	LogFilePath string
	DevMode     bool
}

// Default configuration values. Anything operators commonly tune has an
// environment variable; the rest are fixed here.
const (
	DefaultFalEndpoint = "https://fal.run"
	DefaultFalModel    = "fal-ai/bytedance/seedream/v4/edit"
	DefaultGeminiModel = "gemini-2.5-flash-image"

	DefaultProviderID = "fal-ai"

	DefaultPort           = 8080
	DefaultMaxUploadBytes = 10 << 20 // 10 MiB
	DefaultRatePerMinute  = 20

	DefaultMaxRetries       = 3
	DefaultRetryBaseDelayMs = 1000
	DefaultRetryMaxDelayMs  = 10000

	DefaultAITimeoutSecs          = 120
	DefaultHealthCheckTimeoutSecs = 10
	DefaultHealthCacheTTLSecs     = 60

	DefaultOfflineProbeIntervalSecs = 30

	DefaultErrorLogCapacity = 100
)

// LoadConfig reads configuration from the environment and validates it.
//
// Missing provider keys are not an error here: a provider without a key is
// registered as disabled (mirroring the health-check contract), and the
// validation suite reports the situation at startup. A configuration with
// no keys at all is rejected because no generation could ever succeed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		FalAPIKey:    GetEnvOrDefault("FAL_KEY", ""),
		GeminiAPIKey: GetEnvOrDefault("GEMINI_API_KEY", ""),

		FalEndpoint: GetEnvOrDefault("FAL_ENDPOINT", DefaultFalEndpoint),
		FalModel:    GetEnvOrDefault("FAL_MODEL", DefaultFalModel),
		GeminiModel: GetEnvOrDefault("GEMINI_MODEL", DefaultGeminiModel),

		DefaultProvider: GetEnvOrDefault("PAINTLY_DEFAULT_PROVIDER", DefaultProviderID),

		Host:           GetEnvOrDefault("PAINTLY_HOST", ""),
		Port:           ParseIntEnv("PORT", DefaultPort),
		MaxUploadBytes: ParseInt64Env("PAINTLY_MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		RatePerMinute:  ParseIntEnv("PAINTLY_RATE_PER_MINUTE", DefaultRatePerMinute),

		AdminPasswordHash: GetEnvOrDefault("PAINTLY_ADMIN_PASSWORD_HASH", ""),

		DatabasePath:   GetEnvOrDefault("PAINTLY_DB_PATH", "paintly.db"),
		MigrationsPath: GetEnvOrDefault("PAINTLY_MIGRATIONS_PATH", "file://db/migrations"),

		MaxRetries:     ParseIntEnv("PAINTLY_MAX_RETRIES", DefaultMaxRetries),
		RetryBaseDelay: ParseMillisEnv("PAINTLY_RETRY_BASE_DELAY_MS", DefaultRetryBaseDelayMs),
		RetryMaxDelay:  ParseMillisEnv("PAINTLY_RETRY_MAX_DELAY_MS", DefaultRetryMaxDelayMs),

		AITimeout:          ParseDurationEnv("PAINTLY_AI_TIMEOUT", DefaultAITimeoutSecs),
		HealthCheckTimeout: ParseDurationEnv("PAINTLY_HEALTH_TIMEOUT", DefaultHealthCheckTimeoutSecs),
		HealthCacheTTL:     ParseDurationEnv("PAINTLY_HEALTH_CACHE_TTL", DefaultHealthCacheTTLSecs),

		OfflineProbeURL:      GetEnvOrDefault("PAINTLY_OFFLINE_PROBE_URL", DefaultFalEndpoint),
		OfflineProbeInterval: ParseDurationEnv("PAINTLY_OFFLINE_PROBE_INTERVAL", DefaultOfflineProbeIntervalSecs),

		ErrorLogCapacity: ParseIntEnv("PAINTLY_ERROR_LOG_CAPACITY", DefaultErrorLogCapacity),

		ProviderMetadataPath: GetEnvOrDefault("PAINTLY_PROVIDER_METADATA", ""),

		LogFilePath: GetEnvOrDefault("PAINTLY_LOG_FILE", "paintly.log"),
		DevMode:     ParseBoolEnv("DEV_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks internal consistency of the configuration.
func (c *Config) Validate() error {
	if c.FalAPIKey == "" && c.GeminiAPIKey == "" {
		return NewError(ErrorKindValidation,
			"no provider API keys configured; set FAL_KEY and/or GEMINI_API_KEY")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return NewError(ErrorKindValidation,
			fmt.Sprintf("invalid port %d; PORT must be between 1 and 65535", c.Port))
	}
	if _, err := url.ParseRequestURI(c.FalEndpoint); err != nil {
		return WrapError(ErrorKindValidation,
			fmt.Sprintf("invalid FAL_ENDPOINT %q", c.FalEndpoint), err)
	}
	if c.MaxRetries < 0 {
		return NewError(ErrorKindValidation, "PAINTLY_MAX_RETRIES cannot be negative")
	}
	if c.RetryBaseDelay <= 0 || c.RetryMaxDelay < c.RetryBaseDelay {
		return NewError(ErrorKindValidation,
			"retry delays must satisfy 0 < base <= max")
	}
	if c.ErrorLogCapacity < 1 {
		return NewError(ErrorKindValidation, "PAINTLY_ERROR_LOG_CAPACITY must be at least 1")
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
