package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	ThumbnailModeStore    = "store"
	ThumbnailModeRegistry = "registry"
)

// Config holds the environment driven configuration for the upload service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"tubely-upload-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PORT" envDefault:"8091"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	PprofAddr       string        `env:"PPROF_ADDR"` // empty disables the debug listener

	// Database
	DBPostgresqlWriteDSN string        `env:"DB_POSTGRESQL_WRITE_DSN"`
	DBMaxIdleConns       int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns       int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Authentication
	JWTSecret   string `env:"JWT_SECRET"`
	AuthIssuer  string `env:"AUTH_ISSUER" envDefault:"tubely-access"`
	AuthJWKSURL string `env:"AUTH_JWKS_URL"` // RS256 via JWKS instead of the shared secret

	// Local assets
	AssetsRoot          string `env:"ASSETS_ROOT" envDefault:"./assets"`
	LocalStorageBaseURL string `env:"LOCAL_STORAGE_BASE_URL"`
	ScratchDir          string `env:"SCRATCH_DIR"` // empty means os.TempDir()

	// S3 Storage Configuration
	S3Endpoint       string `env:"MEDIA_S3_ENDPOINT"`
	S3PublicEndpoint string `env:"MEDIA_S3_PUBLIC_ENDPOINT"`
	S3Region         string `env:"MEDIA_S3_REGION" envDefault:"us-east-1"`
	S3Bucket         string `env:"MEDIA_S3_BUCKET"`
	S3AccessKeyID    string `env:"MEDIA_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"MEDIA_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle   bool   `env:"MEDIA_S3_USE_PATH_STYLE" envDefault:"false"`

	// Upload Configuration
	MaxVideoBytes       int64         `env:"MAX_VIDEO_BYTES" envDefault:"1073741824"`
	MaxThumbnailBytes   int64         `env:"MAX_THUMBNAIL_BYTES" envDefault:"10485760"`
	ThumbnailMode       string        `env:"THUMBNAIL_MODE" envDefault:"store"`   // Options: "store" or "registry"
	ThumbnailStorage    string        `env:"THUMBNAIL_STORAGE" envDefault:"local"` // Options: "local" or "s3"
	FFProbePath         string        `env:"FFPROBE_PATH" envDefault:"ffprobe"`
	ProbeTimeout        time.Duration `env:"PROBE_TIMEOUT" envDefault:"30s"`
	MaxConcurrentProbes int64         `env:"MAX_CONCURRENT_PROBES" envDefault:"4"`
	StorageTimeout      time.Duration `env:"STORAGE_TIMEOUT" envDefault:"5m"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.S3Bucket = strings.TrimSpace(c.S3Bucket)
	c.S3AccessKeyID = strings.TrimSpace(c.S3AccessKeyID)
	c.S3SecretKey = strings.TrimSpace(c.S3SecretKey)
	c.S3Endpoint = strings.TrimSpace(c.S3Endpoint)
	c.S3PublicEndpoint = strings.TrimSpace(c.S3PublicEndpoint)
	c.ThumbnailMode = strings.ToLower(strings.TrimSpace(c.ThumbnailMode))
	c.ThumbnailStorage = strings.ToLower(strings.TrimSpace(c.ThumbnailStorage))

	if c.MaxVideoBytes <= 0 {
		c.MaxVideoBytes = 1 << 30
	}
	if c.MaxThumbnailBytes <= 0 {
		c.MaxThumbnailBytes = 10 << 20
	}
	if c.MaxConcurrentProbes <= 0 {
		c.MaxConcurrentProbes = 4
	}
	if strings.TrimSpace(c.LocalStorageBaseURL) == "" {
		c.LocalStorageBaseURL = fmt.Sprintf("http://localhost:%d/assets", c.HTTPPort)
	}

	switch c.ThumbnailMode {
	case ThumbnailModeStore, ThumbnailModeRegistry:
	default:
		return fmt.Errorf("THUMBNAIL_MODE must be %q or %q, got %q", ThumbnailModeStore, ThumbnailModeRegistry, c.ThumbnailMode)
	}
	switch c.ThumbnailStorage {
	case "local", "s3":
	default:
		return fmt.Errorf("THUMBNAIL_STORAGE must be \"local\" or \"s3\", got %q", c.ThumbnailStorage)
	}

	if strings.TrimSpace(c.JWTSecret) == "" && strings.TrimSpace(c.AuthJWKSURL) == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_JWKS_URL is not set")
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UsesThumbnailRegistry reports whether thumbnails live in the in-process registry.
func (c *Config) UsesThumbnailRegistry() bool {
	return c.ThumbnailMode == ThumbnailModeRegistry
}

// PublicBaseURL is the self-referential URL of this service.
func (c *Config) PublicBaseURL() string {
	return fmt.Sprintf("http://localhost:%d", c.HTTPPort)
}

// HasDatabase reports whether a postgres DSN is configured.
// Without one the service falls back to the in-memory repositories.
func (c *Config) HasDatabase() bool {
	return strings.TrimSpace(c.DBPostgresqlWriteDSN) != ""
}
