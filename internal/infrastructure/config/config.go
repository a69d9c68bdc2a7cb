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
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Tasks     TasksConfig
	Cron      CronConfig
	Storage   StorageConfig
	PDF       PDFConfig
	Mail      MailConfig
	LLM       LLMConfig
	Frontend  FrontendConfig
	Swagger   SwaggerConfig
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
	Name     string
	Env      string
	Port     string
	SiteName string
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

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// TasksConfig holds background task queue settings
type TasksConfig struct {
	WorkerEnabled bool
	Backend       string // redis or memory
	QueueName     string
	Concurrency   int
	JobTimeout    time.Duration
	MaxRetries    int
	RetryDelay    time.Duration
}

// CronConfig holds periodic job schedules (standard 5-field cron)
type CronConfig struct {
	PDFCleanupSchedule string
}

// StorageConfig holds PDF storage settings
type StorageConfig struct {
	Backend           string // local or s3
	LocalRoot         string
	Endpoint          string
	Bucket            string
	AccessKey         string
	SecretKey         string
	Region            string
	UseSSL            bool
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// PDFConfig holds headless Chrome rendering settings
type PDFConfig struct {
	ChromeURL      string // remote debugging URL; empty launches a local Chrome
	NoSandbox      bool
	RenderWait     time.Duration
	RenderTimeout  time.Duration
	ExpiryDays     int
	ViewportWidth  int
	ViewportHeight int
}

// MailConfig holds SMTP settings
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	TLSPolicy   string // mandatory, opportunistic, none
	DefaultFrom string
	ReplyTo     []string
	LogoPath    string
	Timeout     time.Duration
}

// LLMConfig holds advice generation settings
type LLMConfig struct {
	Provider         string // openai or gemini
	OpenAIAPIKey     string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiModel      string
	Temperature      float64
	MaxRetries       int
	RetryDelay       time.Duration
	BreakerFailures  int
	BreakerOpenDelay time.Duration
}

// FrontendConfig holds URLs of the web client
type FrontendConfig struct {
	ReportURL string
}

// SwaggerConfig holds Swagger documentation endpoint configuration
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string // empty = allow all
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string  // e.g. "localhost:4317"
	SamplingRatio     float64 // 0.0-1.0
	ServiceName       string
	Insecure          bool // development only
	DBTraceEnabled    bool
	DBLogFullSQL      bool // dev only
	DBSlowQueryThresh time.Duration
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with KKB_ prefix (e.g., KKB_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("KKB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("app.name"),
			Env:      v.GetString("app.env"),
			Port:     v.GetString("app.port"),
			SiteName: v.GetString("app.site_name"),
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
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			RefreshSecret:          v.GetString("jwt.refresh_secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Tasks: TasksConfig{
			WorkerEnabled: v.GetBool("tasks.worker_enabled"),
			Backend:       v.GetString("tasks.backend"),
			QueueName:     v.GetString("tasks.queue_name"),
			Concurrency:   v.GetInt("tasks.concurrency"),
			JobTimeout:    v.GetDuration("tasks.job_timeout"),
			MaxRetries:    v.GetInt("tasks.max_retries"),
			RetryDelay:    v.GetDuration("tasks.retry_delay"),
		},
		Cron: CronConfig{
			PDFCleanupSchedule: v.GetString("cron.pdf_cleanup_schedule"),
		},
		Storage: StorageConfig{
			Backend:           v.GetString("storage.backend"),
			LocalRoot:         v.GetString("storage.local_root"),
			Endpoint:          v.GetString("storage.endpoint"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			Region:            v.GetString("storage.region"),
			UseSSL:            v.GetBool("storage.use_ssl"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		PDF: PDFConfig{
			ChromeURL:      v.GetString("pdf.chrome_url"),
			NoSandbox:      v.GetBool("pdf.no_sandbox"),
			RenderWait:     v.GetDuration("pdf.render_wait"),
			RenderTimeout:  v.GetDuration("pdf.render_timeout"),
			ExpiryDays:     v.GetInt("pdf.expiry_days"),
			ViewportWidth:  v.GetInt("pdf.viewport_width"),
			ViewportHeight: v.GetInt("pdf.viewport_height"),
		},
		Mail: MailConfig{
			Host:        v.GetString("mail.host"),
			Port:        v.GetInt("mail.port"),
			Username:    v.GetString("mail.username"),
			Password:    v.GetString("mail.password"),
			TLSPolicy:   v.GetString("mail.tls_policy"),
			DefaultFrom: v.GetString("mail.default_from"),
			ReplyTo:     v.GetStringSlice("mail.reply_to"),
			LogoPath:    v.GetString("mail.logo_path"),
			Timeout:     v.GetDuration("mail.timeout"),
		},
		LLM: LLMConfig{
			Provider:         v.GetString("llm.provider"),
			OpenAIAPIKey:     v.GetString("llm.openai_api_key"),
			OpenAIModel:      v.GetString("llm.openai_model"),
			GeminiAPIKey:     v.GetString("llm.gemini_api_key"),
			GeminiModel:      v.GetString("llm.gemini_model"),
			Temperature:      v.GetFloat64("llm.temperature"),
			MaxRetries:       v.GetInt("llm.max_retries"),
			RetryDelay:       v.GetDuration("llm.retry_delay"),
			BreakerFailures:  v.GetInt("llm.breaker_failures"),
			BreakerOpenDelay: v.GetDuration("llm.breaker_open_delay"),
		},
		Frontend: FrontendConfig{
			ReportURL: v.GetString("frontend.report_url"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
			AllowedIPs:  v.GetStringSlice("swagger.allowed_ips"),
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
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "kkambbaki-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8000"
	}
	if cfg.App.SiteName == "" {
		cfg.App.SiteName = "깜빡이"
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
		cfg.Database.DBName = "kkambbaki"
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
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = time.Hour
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 7 * 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "kkambbaki-backend"
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
		cfg.HTTP.MaxBodySize = 2 << 20 // 2MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// No default CORS origins: cross-origin requests stay blocked until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-BOT-TOKEN"}
	}
	if cfg.Tasks.Backend == "" {
		cfg.Tasks.Backend = "redis"
	}
	if cfg.Tasks.QueueName == "" {
		cfg.Tasks.QueueName = "kkambbaki:tasks"
	}
	if cfg.Tasks.Concurrency == 0 {
		cfg.Tasks.Concurrency = 2
	}
	if cfg.Tasks.JobTimeout == 0 {
		cfg.Tasks.JobTimeout = 5 * time.Minute
	}
	if cfg.Tasks.MaxRetries == 0 {
		cfg.Tasks.MaxRetries = 3
	}
	if cfg.Tasks.RetryDelay == 0 {
		cfg.Tasks.RetryDelay = 60 * time.Second
	}
	if cfg.Cron.PDFCleanupSchedule == "" {
		cfg.Cron.PDFCleanupSchedule = "0 3 * * *"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "local"
	}
	if cfg.Storage.LocalRoot == "" {
		cfg.Storage.LocalRoot = "./media"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = time.Hour
	}
	if cfg.PDF.RenderWait == 0 {
		cfg.PDF.RenderWait = 10 * time.Second
	}
	if cfg.PDF.RenderTimeout == 0 {
		cfg.PDF.RenderTimeout = 90 * time.Second
	}
	if cfg.PDF.ExpiryDays == 0 {
		cfg.PDF.ExpiryDays = 7
	}
	if cfg.PDF.ViewportWidth == 0 {
		cfg.PDF.ViewportWidth = 1920
	}
	if cfg.PDF.ViewportHeight == 0 {
		cfg.PDF.ViewportHeight = 1080
	}
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.TLSPolicy == "" {
		cfg.Mail.TLSPolicy = "mandatory"
	}
	if cfg.Mail.DefaultFrom == "" {
		cfg.Mail.DefaultFrom = "noreply@kkambbaki.com"
	}
	if cfg.Mail.LogoPath == "" {
		cfg.Mail.LogoPath = "static/images/logo.png"
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 30 * time.Second
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.OpenAIModel == "" {
		cfg.LLM.OpenAIModel = "gpt-4o-mini"
	}
	if cfg.LLM.GeminiModel == "" {
		cfg.LLM.GeminiModel = "gemini-2.0-flash"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.7
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 5
	}
	if cfg.LLM.RetryDelay == 0 {
		cfg.LLM.RetryDelay = time.Second
	}
	if cfg.LLM.BreakerFailures == 0 {
		cfg.LLM.BreakerFailures = 5
	}
	if cfg.LLM.BreakerOpenDelay == 0 {
		cfg.LLM.BreakerOpenDelay = 30 * time.Second
	}
	if cfg.Frontend.ReportURL == "" {
		cfg.Frontend.ReportURL = "http://localhost:3000/report"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "kkambbaki-backend"
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
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

	switch c.Tasks.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("tasks.backend must be 'redis' or 'memory', got %q", c.Tasks.Backend)
	}
	if c.Tasks.Concurrency <= 0 {
		return fmt.Errorf("tasks.concurrency must be positive")
	}
	if c.Tasks.MaxRetries < 0 {
		return fmt.Errorf("tasks.max_retries cannot be negative")
	}

	switch c.Storage.Backend {
	case "local":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("storage.backend must be 'local' or 's3', got %q", c.Storage.Backend)
	}

	if c.PDF.ExpiryDays < 0 {
		return fmt.Errorf("pdf.expiry_days cannot be negative")
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled {
			if !c.Swagger.RequireAuth && len(c.Swagger.AllowedIPs) == 0 {
				return fmt.Errorf("swagger endpoint must be disabled, require authentication, or have IP restriction in production")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production to prevent sensitive data exposure in traces")
		}
		switch c.LLM.Provider {
		case "openai":
			if c.LLM.OpenAIAPIKey == "" {
				return fmt.Errorf("llm.openai_api_key is required in production")
			}
		case "gemini":
			if c.LLM.GeminiAPIKey == "" {
				return fmt.Errorf("llm.gemini_api_key is required in production")
			}
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// IsProduction reports whether the app runs with env=production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
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
