package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Transaction TransactionConfig
	Redis       RedisConfig
	Report      ReportConfig
	JWT         JWTConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Telemetry   TelemetryConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Currency string
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
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
	ConnMaxLifetime time.Duration
	LogLevel        string // silent, error, warn, info
	SlowThreshold   time.Duration
}

// TransactionConfig bounds every payment mutation transaction
type TransactionConfig struct {
	LockWait time.Duration // how long to wait for a parent row lock
	Timeout  time.Duration // total budget of one transaction
}

// RedisConfig holds Redis connection settings.
// When disabled, reports are cached in process memory.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}

// ReportConfig holds report engine settings
type ReportConfig struct {
	CacheTTL time.Duration
}

// JWTConfig holds the settings used to verify bearer tokens
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64
	CORSOrigins     []string
	HSTSEnabled     bool
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration
}

// Load reads configuration with this priority (highest first):
//  1. LEDGER_ environment variables (LEDGER_DATABASE_PASSWORD ...)
//  2. config.toml
//  3. built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/ledger")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("app.name"),
			Env:      v.GetString("app.env"),
			Port:     v.GetString("app.port"),
			Currency: v.GetString("app.currency"),
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
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
			LogLevel:        v.GetString("database.log_level"),
			SlowThreshold:   v.GetDuration("database.slow_threshold"),
		},
		Transaction: TransactionConfig{
			LockWait: v.GetDuration("transaction.lock_wait"),
			Timeout:  v.GetDuration("transaction.timeout"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Report: ReportConfig{
			CacheTTL: v.GetDuration("report.cache_ttl"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Issuer:     v.GetString("jwt.issuer"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			MaxBodySize:     v.GetInt64("http.max_body_size"),
			CORSOrigins:     v.GetStringSlice("http.cors_origins"),
			HSTSEnabled:     v.GetBool("http.hsts_enabled"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
		},
	}

	applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "ledger-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Currency == "" {
		cfg.App.Currency = "NGN"
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
		cfg.Database.DBName = "ledger"
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
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Database.SlowThreshold == 0 {
		cfg.Database.SlowThreshold = 200 * time.Millisecond
	}
	if cfg.Transaction.LockWait == 0 {
		cfg.Transaction.LockWait = 10 * time.Second
	}
	if cfg.Transaction.Timeout == 0 {
		cfg.Transaction.Timeout = 15 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Report.CacheTTL == 0 {
		cfg.Report.CacheTTL = 5 * time.Minute
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "ledger-backend"
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = 24 * time.Hour
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
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = time.Minute
	}
}

func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Transaction.Timeout <= 0 || c.Transaction.LockWait <= 0 {
		return fmt.Errorf("transaction.timeout and transaction.lock_wait must be positive")
	}
	if c.Transaction.LockWait > c.Transaction.Timeout {
		return fmt.Errorf("transaction.lock_wait (%s) cannot exceed transaction.timeout (%s)",
			c.Transaction.LockWait, c.Transaction.Timeout)
	}
	if c.Report.CacheTTL < 0 {
		return fmt.Errorf("report.cache_ttl cannot be negative")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	if c.App.IsProduction() {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret of at least 32 characters is required in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
	}
	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
