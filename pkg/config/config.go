package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App      AppConfig
	Session  SessionConfig
	Store    StoreConfig
	AWS      AWSConfig
	Tables   TablesConfig
	Notify   NotifyConfig
	DB       DBConfig
	Redis    RedisConfig
	Policy   PolicyConfig
	Password PasswordConfig
	Pricing  PricingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PICKLE_APP_ENV" default:"dev"`
	Port         string `envconfig:"PICKLE_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"PICKLE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PICKLE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type SessionConfig struct {
	CookieName   string        `envconfig:"PICKLE_SESSION_COOKIE" default:"pickleshop_session"`
	TTL          time.Duration `envconfig:"PICKLE_SESSION_TTL" default:"24h"`
	SecureCookie bool          `envconfig:"PICKLE_SESSION_SECURE_COOKIE" default:"false"`
}

// StoreConfig selects the durable record backend.
type StoreConfig struct {
	Driver         string        `envconfig:"PICKLE_STORE_DRIVER" default:"dynamodb"`
	StartupTimeout time.Duration `envconfig:"PICKLE_STORE_STARTUP_TIMEOUT" default:"5s"`
}

type AWSConfig struct {
	Region   string `envconfig:"PICKLE_AWS_REGION" default:"ap-south-1"`
	Endpoint string `envconfig:"PICKLE_AWS_ENDPOINT"`
}

type TablesConfig struct {
	Orders    string `envconfig:"PICKLE_TABLE_ORDERS" default:"PickleOrders"`
	Contacts  string `envconfig:"PICKLE_TABLE_CONTACTS" default:"ContactMessages"`
	Users     string `envconfig:"PICKLE_TABLE_USERS" default:"Users"`
	CartItems string `envconfig:"PICKLE_TABLE_CART_ITEMS" default:"CartItems"`
}

type NotifyConfig struct {
	Driver   string `envconfig:"PICKLE_NOTIFY_DRIVER" default:"sns"`
	TopicARN string `envconfig:"PICKLE_SNS_TOPIC_ARN" default:"arn:aws:sns:ap-south-1:123456789012:OrderConfirmations"`
}

type DBConfig struct {
	DSN             string        `envconfig:"PICKLE_DB_DSN"`
	MaxOpenConns    int           `envconfig:"PICKLE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"PICKLE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"PICKLE_DB_CONN_MAX_LIFETIME" default:"1h"`
	AutoMigrate     bool          `envconfig:"PICKLE_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PICKLE_REDIS_URL"`
	Address      string        `envconfig:"PICKLE_REDIS_ADDR"`
	Password     string        `envconfig:"PICKLE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PICKLE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PICKLE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PICKLE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PICKLE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PICKLE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PICKLE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type PolicyConfig struct {
	WriteReporting string `envconfig:"PICKLE_WRITE_REPORTING" default:"lenient"`
	CartBackend    string `envconfig:"PICKLE_CART_BACKEND" default:"session"`
}

type PasswordConfig struct {
	Storage          string `envconfig:"PICKLE_PASSWORD_STORAGE" default:"plaintext"`
	ArgonMemoryKB    int    `envconfig:"PICKLE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int    `envconfig:"PICKLE_ARGON_TIME" default:"3"`
	ArgonParallelism int    `envconfig:"PICKLE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int    `envconfig:"PICKLE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int    `envconfig:"PICKLE_ARGON_KEY_LEN" default:"32"`
}

// Hashed reports whether signup passwords are stored as argon2id hashes.
func (p PasswordConfig) Hashed() bool {
	return strings.EqualFold(strings.TrimSpace(p.Storage), PasswordStorageArgon2id)
}

type PricingConfig struct {
	FreeDeliveryThreshold decimal.Decimal `envconfig:"PICKLE_FREE_DELIVERY_THRESHOLD" default:"500"`
	StandardDeliveryFee   decimal.Decimal `envconfig:"PICKLE_STANDARD_DELIVERY_FEE" default:"50"`
	TaxRate               decimal.Decimal `envconfig:"PICKLE_TAX_RATE" default:"0.05"`
}

func (c *Config) validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case StoreDriverDynamoDB, StoreDriverNone:
	case StoreDriverPostgres, StoreDriverSQLite:
		if c.DB.DSN == "" {
			return fmt.Errorf("%s is required for store driver %q", EnvDBDSN, c.Store.Driver)
		}
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}

	c.Notify.Driver = strings.ToLower(strings.TrimSpace(c.Notify.Driver))
	if c.Notify.Driver != NotifyDriverSNS && c.Notify.Driver != NotifyDriverNone {
		return fmt.Errorf("unsupported notify driver %q", c.Notify.Driver)
	}

	c.Policy.WriteReporting = strings.ToLower(strings.TrimSpace(c.Policy.WriteReporting))
	if c.Policy.WriteReporting != WriteReportingLenient && c.Policy.WriteReporting != WriteReportingStrict {
		return fmt.Errorf("unsupported write reporting mode %q", c.Policy.WriteReporting)
	}

	c.Policy.CartBackend = strings.ToLower(strings.TrimSpace(c.Policy.CartBackend))
	switch c.Policy.CartBackend {
	case CartBackendSession:
	case CartBackendStore:
		if !c.Redis.Enabled() {
			return fmt.Errorf("cart backend %q requires %s or %s", CartBackendStore, EnvRedisURL, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unsupported cart backend %q", c.Policy.CartBackend)
	}

	storage := strings.ToLower(strings.TrimSpace(c.Password.Storage))
	if storage != PasswordStoragePlaintext && storage != PasswordStorageArgon2id {
		return fmt.Errorf("unsupported password storage %q", c.Password.Storage)
	}

	if c.Pricing.TaxRate.IsNegative() || c.Pricing.StandardDeliveryFee.IsNegative() || c.Pricing.FreeDeliveryThreshold.IsNegative() {
		return fmt.Errorf("pricing values must be non-negative")
	}
	return nil
}
