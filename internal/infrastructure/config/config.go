package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Log       LogConfig
	Event     EventConfig
	HTTP      HTTPConfig
	Seller    SellerConfig
	Printing  PrintingConfig
	Documents DocumentsConfig
	Storage   StorageConfig
	Telemetry TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// EventConfig holds event processing configuration
type EventConfig struct {
	ProcessorEnabled bool
	BatchSize        int
	MaxRetries       int
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	MaxHeaderBytes          int
	MaxBodySize             int64
	RateLimitEnabled        bool
	RateLimitRequests       int
	RateLimitWindow         time.Duration
	ImportRateLimitRequests int
	CORSAllowOrigins        []string
	CORSAllowMethods        []string
	CORSAllowHeaders        []string
	TrustedProxies          []string
}

// SellerConfig holds the reseller's own company details. They appear in
// the header of every generated invoice and delivery note.
type SellerConfig struct {
	Name      string
	Address   string
	City      string
	ZipCode   string
	Phone     string
	Email     string
	VATNumber string
}

// PrintingConfig holds PDF rendering configuration
type PrintingConfig struct {
	// Renderer selects the PDF backend: "chromedp" or "wkhtmltopdf"
	Renderer string
	// ChromePath overrides the Chrome/Chromium binary location
	ChromePath string
	// WkhtmltopdfPath overrides the wkhtmltopdf binary location
	WkhtmltopdfPath string
	// TemplateDir holds HTML template overrides (empty = built-in templates)
	TemplateDir string
	// RenderTimeout bounds a single PDF render
	RenderTimeout time.Duration
}

// DocumentsConfig holds generated document storage configuration
type DocumentsConfig struct {
	// Backend selects where PDFs are kept: "filesystem" or "s3"
	Backend string
	// BasePath is the root directory for filesystem storage
	BasePath string
	// BaseURL is the URL prefix for serving filesystem-stored PDFs
	BaseURL string
	// RetentionDays is how long to keep PDFs (0 = forever)
	RetentionDays int
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string
	SecretKey         string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	// Database tracing options
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Log full SQL statements (dev only, disable in prod for security)
	DBSlowQueryThresh time.Duration // Slow query threshold for warnings (default: 200ms)
	// Continuous profiling options
	ProfilingEnabled bool   // Enable the Pyroscope agent and profiling labels
	PyroscopeAddress string // Pyroscope server address (e.g., "http://pyroscope:4040")
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with PROMOSHOP_ prefix (e.g., PROMOSHOP_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("PROMOSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Event: EventConfig{
			ProcessorEnabled: v.GetBool("event.processor_enabled"),
			BatchSize:        v.GetInt("event.batch_size"),
			MaxRetries:       v.GetInt("event.max_retries"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:             v.GetDuration("http.read_timeout"),
			WriteTimeout:            v.GetDuration("http.write_timeout"),
			IdleTimeout:             v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:          v.GetInt("http.max_header_bytes"),
			MaxBodySize:             v.GetInt64("http.max_body_size"),
			RateLimitEnabled:        v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests:       v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:         v.GetDuration("http.rate_limit_window"),
			ImportRateLimitRequests: v.GetInt("http.import_rate_limit_requests"),
			CORSAllowOrigins:        v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:        v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:        v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:          v.GetStringSlice("http.trusted_proxies"),
		},
		Seller: SellerConfig{
			Name:      v.GetString("seller.name"),
			Address:   v.GetString("seller.address"),
			City:      v.GetString("seller.city"),
			ZipCode:   v.GetString("seller.zip_code"),
			Phone:     v.GetString("seller.phone"),
			Email:     v.GetString("seller.email"),
			VATNumber: v.GetString("seller.vat_number"),
		},
		Printing: PrintingConfig{
			Renderer:        v.GetString("printing.renderer"),
			ChromePath:      v.GetString("printing.chrome_path"),
			WkhtmltopdfPath: v.GetString("printing.wkhtmltopdf_path"),
			TemplateDir:     v.GetString("printing.template_dir"),
			RenderTimeout:   v.GetDuration("printing.render_timeout"),
		},
		Documents: DocumentsConfig{
			Backend:       v.GetString("documents.backend"),
			BasePath:      v.GetString("documents.base_path"),
			BaseURL:       v.GetString("documents.base_url"),
			RetentionDays: v.GetInt("documents.retention_days"),
		},
		Storage: StorageConfig{
			Endpoint:          v.GetString("storage.endpoint"),
			Region:            v.GetString("storage.region"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
			ProfilingEnabled:  v.GetBool("telemetry.profiling_enabled"),
			PyroscopeAddress:  v.GetString("telemetry.pyroscope_address"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "promoshop-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "promoshop"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Event.BatchSize == 0 {
		cfg.Event.BatchSize = 100
	}
	if cfg.Event.MaxRetries == 0 {
		cfg.Event.MaxRetries = 5
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 10 << 20 // 10MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.ImportRateLimitRequests == 0 {
		cfg.HTTP.ImportRateLimitRequests = 10
	}
	// NOTE: CORS origins are intentionally not given a default fallback to "*".
	// An empty list means no cross-origin requests are allowed until explicitly configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Client-ID"}
	}
	// Seller defaults: only naming, real details come from config.toml
	if cfg.Seller.Name == "" {
		cfg.Seller.Name = "PromoShop AG"
	}
	// Printing defaults
	if cfg.Printing.Renderer == "" {
		cfg.Printing.Renderer = "chromedp"
	}
	if cfg.Printing.RenderTimeout == 0 {
		cfg.Printing.RenderTimeout = 30 * time.Second
	}
	// Documents defaults
	if cfg.Documents.Backend == "" {
		cfg.Documents.Backend = "filesystem"
	}
	if cfg.Documents.BasePath == "" {
		cfg.Documents.BasePath = "/data/documents"
	}
	if cfg.Documents.BaseURL == "" {
		cfg.Documents.BaseURL = "/api/v1/documents/files"
	}
	// Storage defaults
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}

	// Telemetry defaults
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0 // 100% in development
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "promoshop-backend"
	}
	// Note: Insecure defaults to false for safety (TLS enabled by default)
	// DBTraceEnabled defaults to false (needs explicit enable)
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	// Note: DBLogFullSQL defaults to false for security (disable in production)
	if cfg.Telemetry.PyroscopeAddress == "" {
		cfg.Telemetry.PyroscopeAddress = "http://localhost:4040"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	// Validate connection pool settings
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.Printing.Renderer != "chromedp" && c.Printing.Renderer != "wkhtmltopdf" {
		return fmt.Errorf("printing.renderer must be 'chromedp' or 'wkhtmltopdf', got %q", c.Printing.Renderer)
	}
	if c.Documents.Backend != "filesystem" && c.Documents.Backend != "s3" {
		return fmt.Errorf("documents.backend must be 'filesystem' or 's3', got %q", c.Documents.Backend)
	}
	if c.Documents.Backend == "s3" {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when documents.backend is 's3'")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("storage.access_key and storage.secret_key are required when documents.backend is 's3'")
		}
	}

	// Production-specific validations
	if c.App.Env == "production" {
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		// CORS must not use wildcard
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		// Database tracing: full SQL logging is a security risk in production
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
