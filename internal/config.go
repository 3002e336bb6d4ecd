package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// DevJWTSecret is only ever used outside production when no secret is
	// configured. Validate rejects it in production.
	DevJWTSecret = "dev-only-insecure-jwt-secret-change-me"

	DefaultTokenDuration = 7 * 24 * time.Hour
	DefaultBCryptCost    = 10
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Security      SecurityConfig      `mapstructure:"security"`
	Store         StoreConfig         `mapstructure:"store"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes"`
}

type SecurityConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
	BCryptCost    int           `mapstructure:"bcrypt_cost"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Source string `mapstructure:"source"`
	Seed   bool   `mapstructure:"seed"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type MetricsConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Path              string        `mapstructure:"path"`
	SlowOperationTime time.Duration `mapstructure:"slow_operation_time"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// ApplyDefaults fills zero values. It must run before Validate.
func (c *Config) ApplyDefaults() {
	if c.App.Env == "" {
		c.App.Env = EnvDevelopment
	}
	if c.Server.Port == 0 {
		c.Server.Port = 4000
	}
	if c.Server.AllowedOrigins == "" {
		c.Server.AllowedOrigins = "http://localhost:3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 10 << 20
	}
	if c.Security.TokenDuration == 0 {
		c.Security.TokenDuration = DefaultTokenDuration
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = DefaultBCryptCost
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Observability.Metrics.Path == "" {
		c.Observability.Metrics.Path = "/metrics"
	}
	if c.Observability.Metrics.SlowOperationTime == 0 {
		c.Observability.Metrics.SlowOperationTime = time.Second
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
		if c.IsProduction() {
			c.Observability.Logging.Format = "json"
		}
	}
}

// UsesDevSecret reports whether the signing secret had to fall back to the
// development constant.
func (c *Config) UsesDevSecret() bool {
	return c.Security.JWTSecret == "" || c.Security.JWTSecret == DevJWTSecret
}

// SigningSecret returns the configured secret, or the development fallback
// outside production.
func (c *Config) SigningSecret() string {
	if c.Security.JWTSecret == "" && !c.IsProduction() {
		return DevJWTSecret
	}
	return c.Security.JWTSecret
}

// ----------------- ENV LOADING -----------------

func LoadConfigFromEnv() *Config {
	cfg := &Config{
		App: AppConfig{
			Env: getEnv("APP_ENV", EnvProduction),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("PORT", 4000),
			AllowedOrigins: getEnv("FRONTEND_URL", ""),
			ReadTimeout:    getEnvAsDuration("HTTP_READ_TIMEOUT", 0),
			WriteTimeout:   getEnvAsDuration("HTTP_WRITE_TIMEOUT", 0),
			IdleTimeout:    getEnvAsDuration("HTTP_IDLE_TIMEOUT", 0),
		},
		Security: SecurityConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenDuration: getEnvAsDuration("TOKEN_DURATION", 0),
			BCryptCost:    getEnvAsInt("BCRYPT_COST", 0),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "memory"),
			Source: getEnv("DATABASE_URL", ""),
			Seed:   getEnvAsBool("STORE_SEED", false),
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: getEnvAsBool("METRICS_ENABLED", false),
				Path:    getEnv("METRICS_PATH", ""),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", ""),
				Format: getEnv("LOG_FORMAT", ""),
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if c.App.Env != EnvProduction && c.App.Env != EnvDevelopment && c.App.Env != "test" {
		errs = append(errs, fmt.Sprintf("app config: unknown env %q", c.App.Env))
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Security.Validate(c.IsProduction()); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Store.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("store config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits the comma separated allowed origins list.
func (c *ServerConfig) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *SecurityConfig) Validate(production bool) error {
	if production {
		if c.JWTSecret == "" {
			return errors.New("jwt_secret is required in production")
		}
		if c.JWTSecret == DevJWTSecret {
			return errors.New("jwt_secret must not be the development fallback in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("jwt_secret must be at least 32 characters")
		}
	}
	if c.TokenDuration <= 0 {
		return errors.New("token_duration must be positive")
	}
	if c.BCryptCost < 4 || c.BCryptCost > 15 {
		return fmt.Errorf("bcrypt_cost %d out of range [4,15]", c.BCryptCost)
	}
	return nil
}

func (c *StoreConfig) Validate() error {
	switch c.Driver {
	case "memory":
		return nil
	case "sqlite", "postgres":
		if c.Source == "" {
			return fmt.Errorf("source is required for driver %s", c.Driver)
		}
		return nil
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q", c.Level)
	}
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid format %q", c.Format)
	}
	return nil
}
