package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Parser     ParserConfig
	Extraction ExtractionConfig
	Session    SessionConfig
	Store      StoreConfig
	S3         S3Config
	Catalog    CatalogConfig
	CORS       CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserProviderConfig holds settings for a single generative model provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	Endpoint     string `mapstructure:"endpoint"`
}

// ParserConfig holds the ordered provider chain used for placement extraction.
type ParserConfig struct {
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`
}

// Providers returns the configured provider chain in priority order.
// The primary entry is always returned so a missing API key fails at call time, not at boot.
func (p *ParserConfig) Providers() []*ParserProviderConfig {
	out := []*ParserProviderConfig{&p.Primary}
	if p.Secondary.Provider != "" {
		out = append(out, &p.Secondary)
	}
	if p.Tertiary.Provider != "" {
		out = append(out, &p.Tertiary)
	}
	return out
}

// ExtractionConfig holds content normalization and pipeline settings.
type ExtractionConfig struct {
	MaxFileSizeMB       int64 `mapstructure:"max_file_size_mb"`
	PDFDPI              int   `mapstructure:"pdf_dpi"`
	MaxPDFPages         int   `mapstructure:"max_pdf_pages"`
	DefaultBufferDays   int   `mapstructure:"default_buffer_days"`
	RetryOnGenericNames bool  `mapstructure:"retry_on_generic_names"`
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (e *ExtractionConfig) MaxFileSizeBytes() int64 {
	return e.MaxFileSizeMB * 1024 * 1024
}

// SessionConfig controls how long finished or abandoned import sessions are kept.
type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// StoreConfig selects the brief store collaborator.
type StoreConfig struct {
	Provider string `mapstructure:"provider"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// CatalogConfig points at an optional catalog dataset overriding the embedded one.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the MEDIABRIEF_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDIABRIEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Parser defaults
	v.SetDefault("parser.primary.provider", "claude")
	v.SetDefault("parser.primary.api_key", "")
	v.SetDefault("parser.primary.default_model", "")
	v.SetDefault("parser.primary.timeout_secs", 120)
	v.SetDefault("parser.primary.endpoint", "")
	v.SetDefault("parser.secondary.provider", "")
	v.SetDefault("parser.secondary.api_key", "")
	v.SetDefault("parser.secondary.default_model", "")
	v.SetDefault("parser.secondary.timeout_secs", 120)
	v.SetDefault("parser.secondary.endpoint", "")
	v.SetDefault("parser.tertiary.provider", "")
	v.SetDefault("parser.tertiary.api_key", "")
	v.SetDefault("parser.tertiary.default_model", "")
	v.SetDefault("parser.tertiary.timeout_secs", 120)
	v.SetDefault("parser.tertiary.endpoint", "")

	// Extraction defaults
	v.SetDefault("extraction.max_file_size_mb", 25)
	v.SetDefault("extraction.pdf_dpi", 150)
	v.SetDefault("extraction.max_pdf_pages", 20)
	v.SetDefault("extraction.default_buffer_days", 5)
	v.SetDefault("extraction.retry_on_generic_names", true)

	// Session defaults
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.sweep_interval", "5m")

	// Store defaults
	v.SetDefault("store.provider", "memory")

	// S3 defaults
	v.SetDefault("s3.region", "ap-southeast-2")
	v.SetDefault("s3.bucket", "mediabrief-briefs")
	v.SetDefault("s3.endpoint", "")

	// Catalog defaults
	v.SetDefault("catalog.path", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "MEDIABRIEF_SERVER_PORT",
		"server.read_timeout":               "MEDIABRIEF_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "MEDIABRIEF_SERVER_WRITE_TIMEOUT",
		"server.environment":                "MEDIABRIEF_SERVER_ENVIRONMENT",
		"log.level":                         "MEDIABRIEF_LOG_LEVEL",
		"log.format":                        "MEDIABRIEF_LOG_FORMAT",
		"cors.allowed_origins":              "MEDIABRIEF_CORS_ALLOWED_ORIGINS",
		"parser.primary.provider":           "MEDIABRIEF_PARSER_PRIMARY_PROVIDER",
		"parser.primary.api_key":            "MEDIABRIEF_PARSER_PRIMARY_API_KEY",
		"parser.primary.default_model":      "MEDIABRIEF_PARSER_PRIMARY_DEFAULT_MODEL",
		"parser.primary.timeout_secs":       "MEDIABRIEF_PARSER_PRIMARY_TIMEOUT_SECS",
		"parser.primary.endpoint":           "MEDIABRIEF_PARSER_PRIMARY_ENDPOINT",
		"parser.secondary.provider":         "MEDIABRIEF_PARSER_SECONDARY_PROVIDER",
		"parser.secondary.api_key":          "MEDIABRIEF_PARSER_SECONDARY_API_KEY",
		"parser.secondary.default_model":    "MEDIABRIEF_PARSER_SECONDARY_DEFAULT_MODEL",
		"parser.secondary.timeout_secs":     "MEDIABRIEF_PARSER_SECONDARY_TIMEOUT_SECS",
		"parser.secondary.endpoint":         "MEDIABRIEF_PARSER_SECONDARY_ENDPOINT",
		"parser.tertiary.provider":          "MEDIABRIEF_PARSER_TERTIARY_PROVIDER",
		"parser.tertiary.api_key":           "MEDIABRIEF_PARSER_TERTIARY_API_KEY",
		"parser.tertiary.default_model":     "MEDIABRIEF_PARSER_TERTIARY_DEFAULT_MODEL",
		"parser.tertiary.timeout_secs":      "MEDIABRIEF_PARSER_TERTIARY_TIMEOUT_SECS",
		"parser.tertiary.endpoint":          "MEDIABRIEF_PARSER_TERTIARY_ENDPOINT",
		"extraction.max_file_size_mb":       "MEDIABRIEF_EXTRACTION_MAX_FILE_SIZE_MB",
		"extraction.pdf_dpi":                "MEDIABRIEF_EXTRACTION_PDF_DPI",
		"extraction.max_pdf_pages":          "MEDIABRIEF_EXTRACTION_MAX_PDF_PAGES",
		"extraction.default_buffer_days":    "MEDIABRIEF_EXTRACTION_DEFAULT_BUFFER_DAYS",
		"extraction.retry_on_generic_names": "MEDIABRIEF_EXTRACTION_RETRY_ON_GENERIC_NAMES",
		"session.ttl":                       "MEDIABRIEF_SESSION_TTL",
		"session.sweep_interval":            "MEDIABRIEF_SESSION_SWEEP_INTERVAL",
		"store.provider":                    "MEDIABRIEF_STORE_PROVIDER",
		"s3.region":                         "MEDIABRIEF_S3_REGION",
		"s3.bucket":                         "MEDIABRIEF_S3_BUCKET",
		"s3.endpoint":                       "MEDIABRIEF_S3_ENDPOINT",
		"s3.access_key":                     "MEDIABRIEF_S3_ACCESS_KEY",
		"s3.secret_key":                     "MEDIABRIEF_S3_SECRET_KEY",
		"catalog.path":                      "MEDIABRIEF_CATALOG_PATH",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if MEDIABRIEF_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("MEDIABRIEF_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Parser = ParserConfig{
		Primary:   providerConfig(v, "parser.primary"),
		Secondary: providerConfig(v, "parser.secondary"),
		Tertiary:  providerConfig(v, "parser.tertiary"),
	}

	cfg.Extraction = ExtractionConfig{
		MaxFileSizeMB:       v.GetInt64("extraction.max_file_size_mb"),
		PDFDPI:              v.GetInt("extraction.pdf_dpi"),
		MaxPDFPages:         v.GetInt("extraction.max_pdf_pages"),
		DefaultBufferDays:   v.GetInt("extraction.default_buffer_days"),
		RetryOnGenericNames: v.GetBool("extraction.retry_on_generic_names"),
	}

	cfg.Session = SessionConfig{
		TTL:           v.GetDuration("session.ttl"),
		SweepInterval: v.GetDuration("session.sweep_interval"),
	}

	cfg.Store = StoreConfig{Provider: v.GetString("store.provider")}

	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}

	cfg.Catalog = CatalogConfig{Path: v.GetString("catalog.path")}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ParserProviderConfig {
	return ParserProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
		Endpoint:     v.GetString(prefix + ".endpoint"),
	}
}
