package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Order    OrderConfig    `yaml:"order"`
	Payment  PaymentConfig  `yaml:"payment"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// GRPCConfig configures the health probe listener. Port 0 disables it.
type GRPCConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	Path            string        `yaml:"path"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// RedisConfig is optional. With an empty Addr the process falls back to
// in-process order locks and skips webhook event dedup.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LogConfig selects the zap level and encoder. Format is "json" or "console".
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type OrderConfig struct {
	DeliveryEstimate time.Duration `yaml:"deliveryEstimate"`
	TxTimeout        time.Duration `yaml:"txTimeout"`
}

type PaymentConfig struct {
	Verifier        string        `yaml:"verifier"`
	ApprovalRate    float64       `yaml:"approvalRate"`
	Currency        string        `yaml:"currency"`
	CheckoutBaseURL string        `yaml:"checkoutBaseUrl"`
	WebhookSecret   string        `yaml:"webhookSecret"`
	LockTTL         time.Duration `yaml:"lockTtl"`
}

type AuthConfig struct {
	Disabled     bool          `yaml:"disabled"`
	Username     string        `yaml:"username"`
	PasswordHash string        `yaml:"passwordHash"`
	SigningKey   string        `yaml:"signingKey"`
	TokenTTL     time.Duration `yaml:"tokenTtl"`
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"

	VerifierAlways    = "always"
	VerifierSimulated = "simulated"
)

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		GRPC: GRPCConfig{Port: 0},
		Database: DatabaseConfig{
			Driver:          DriverMySQL,
			Host:            "localhost",
			Port:            3306,
			User:            "kuku",
			Password:        "secret",
			Name:            "kuku",
			Path:            "kuku.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: LogFormatJSON},
		Order: OrderConfig{
			DeliveryEstimate: 45 * time.Minute,
			TxTimeout:        5 * time.Second,
		},
		Payment: PaymentConfig{
			Verifier:        VerifierAlways,
			ApprovalRate:    1.0,
			Currency:        "KES",
			CheckoutBaseURL: "https://checkout.kuku.local/pay",
			LockTTL:         10 * time.Second,
		},
		Auth: AuthConfig{
			Username: "admin",
			TokenTTL: 12 * time.Hour,
		},
	}
}

// Load builds the configuration from compiled defaults and the environment.
func Load() (*Config, error) {
	return FromEnv(Defaults())
}

// FromEnv overlays environment variables on base. Values present in the
// environment always win over base.
func FromEnv(base *Config) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", base.Server.Port)
	v.SetDefault("SERVER_READ_TIMEOUT", base.Server.ReadTimeout)
	v.SetDefault("SERVER_WRITE_TIMEOUT", base.Server.WriteTimeout)
	v.SetDefault("SERVER_IDLE_TIMEOUT", base.Server.IdleTimeout)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", base.Server.ShutdownTimeout)
	v.SetDefault("GRPC_PORT", base.GRPC.Port)
	v.SetDefault("DB_DRIVER", base.Database.Driver)
	v.SetDefault("DB_HOST", base.Database.Host)
	v.SetDefault("DB_PORT", base.Database.Port)
	v.SetDefault("DB_USER", base.Database.User)
	v.SetDefault("DB_PASSWORD", base.Database.Password)
	v.SetDefault("DB_NAME", base.Database.Name)
	v.SetDefault("DB_PATH", base.Database.Path)
	v.SetDefault("DB_MAX_OPEN_CONNS", base.Database.MaxOpenConns)
	v.SetDefault("DB_MAX_IDLE_CONNS", base.Database.MaxIdleConns)
	v.SetDefault("DB_CONN_MAX_LIFETIME", base.Database.ConnMaxLifetime)
	v.SetDefault("REDIS_ADDR", base.Redis.Addr)
	v.SetDefault("REDIS_PASSWORD", base.Redis.Password)
	v.SetDefault("REDIS_DB", base.Redis.DB)
	v.SetDefault("LOG_LEVEL", base.Log.Level)
	v.SetDefault("LOG_FORMAT", base.Log.Format)
	v.SetDefault("ORDER_DELIVERY_ESTIMATE", base.Order.DeliveryEstimate)
	v.SetDefault("ORDER_TX_TIMEOUT", base.Order.TxTimeout)
	v.SetDefault("PAYMENT_VERIFIER", base.Payment.Verifier)
	v.SetDefault("PAYMENT_APPROVAL_RATE", base.Payment.ApprovalRate)
	v.SetDefault("PAYMENT_CURRENCY", base.Payment.Currency)
	v.SetDefault("PAYMENT_CHECKOUT_BASE_URL", base.Payment.CheckoutBaseURL)
	v.SetDefault("PAYMENT_WEBHOOK_SECRET", base.Payment.WebhookSecret)
	v.SetDefault("PAYMENT_LOCK_TTL", base.Payment.LockTTL)
	v.SetDefault("AUTH_DISABLED", base.Auth.Disabled)
	v.SetDefault("ADMIN_USERNAME", base.Auth.Username)
	v.SetDefault("ADMIN_PASSWORD_HASH", base.Auth.PasswordHash)
	v.SetDefault("AUTH_SIGNING_KEY", base.Auth.SigningKey)
	v.SetDefault("AUTH_TOKEN_TTL", base.Auth.TokenTTL)

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		GRPC: GRPCConfig{
			Port: v.GetInt("GRPC_PORT"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("DB_DRIVER"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			Path:            v.GetString("DB_PATH"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Order: OrderConfig{
			DeliveryEstimate: v.GetDuration("ORDER_DELIVERY_ESTIMATE"),
			TxTimeout:        v.GetDuration("ORDER_TX_TIMEOUT"),
		},
		Payment: PaymentConfig{
			Verifier:        v.GetString("PAYMENT_VERIFIER"),
			ApprovalRate:    v.GetFloat64("PAYMENT_APPROVAL_RATE"),
			Currency:        v.GetString("PAYMENT_CURRENCY"),
			CheckoutBaseURL: v.GetString("PAYMENT_CHECKOUT_BASE_URL"),
			WebhookSecret:   v.GetString("PAYMENT_WEBHOOK_SECRET"),
			LockTTL:         v.GetDuration("PAYMENT_LOCK_TTL"),
		},
		Auth: AuthConfig{
			Disabled:     v.GetBool("AUTH_DISABLED"),
			Username:     v.GetString("ADMIN_USERNAME"),
			PasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
			SigningKey:   v.GetString("AUTH_SIGNING_KEY"),
			TokenTTL:     v.GetDuration("AUTH_TOKEN_TTL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Log.Format {
	case LogFormatJSON, LogFormatConsole:
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}

	switch c.Payment.Verifier {
	case VerifierAlways, VerifierSimulated:
	default:
		return fmt.Errorf("unsupported payment verifier %q", c.Payment.Verifier)
	}

	if c.Payment.ApprovalRate < 0 || c.Payment.ApprovalRate > 1 {
		return fmt.Errorf("payment approval rate must be within [0, 1], got %v", c.Payment.ApprovalRate)
	}

	if c.Order.DeliveryEstimate <= 0 {
		return fmt.Errorf("order delivery estimate must be positive")
	}

	if !c.Auth.Disabled && c.Auth.SigningKey == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY is required unless AUTH_DISABLED is set")
	}

	return nil
}
