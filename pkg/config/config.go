package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "SHOPQUILL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	OpenAI       OpenAIConfig
	Shopify      ShopifyConfig
	Usage        UsageConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPQUILL_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPQUILL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPQUILL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPQUILL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SHOPQUILL_DB_DSN"`

	Host     string `envconfig:"SHOPQUILL_DB_HOST"`
	Port     int    `envconfig:"SHOPQUILL_DB_PORT" default:"5432"`
	User     string `envconfig:"SHOPQUILL_DB_USER"`
	Password string `envconfig:"SHOPQUILL_DB_PASSWORD"`
	Name     string `envconfig:"SHOPQUILL_DB_NAME"`
	SSLMode  string `envconfig:"SHOPQUILL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPQUILL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPQUILL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPQUILL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPQUILL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	var missing []string
	for env, value := range map[string]string{
		"SHOPQUILL_DB_HOST": db.Host,
		"SHOPQUILL_DB_USER": db.User,
		"SHOPQUILL_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("database config incomplete: set SHOPQUILL_DB_DSN or %s", strings.Join(missing, ", "))
	}

	db.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPQUILL_REDIS_URL"`
	Address      string        `envconfig:"SHOPQUILL_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPQUILL_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPQUILL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPQUILL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPQUILL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPQUILL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPQUILL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPQUILL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type OpenAIConfig struct {
	APIKey  string        `envconfig:"SHOPQUILL_OPENAI_API_KEY"`
	Model   string        `envconfig:"SHOPQUILL_OPENAI_MODEL" default:"gpt-4"`
	BaseURL string        `envconfig:"SHOPQUILL_OPENAI_BASE_URL"`
	Timeout time.Duration `envconfig:"SHOPQUILL_OPENAI_TIMEOUT" default:"60s"`
}

type ShopifyConfig struct {
	APIKey        string        `envconfig:"SHOPQUILL_SHOPIFY_API_KEY"`
	APISecret     string        `envconfig:"SHOPQUILL_SHOPIFY_API_SECRET"`
	WebhookSecret string        `envconfig:"SHOPQUILL_SHOPIFY_WEBHOOK_SECRET"`
	APIVersion    string        `envconfig:"SHOPQUILL_SHOPIFY_API_VERSION" default:"2023-10"`
	Timeout       time.Duration `envconfig:"SHOPQUILL_SHOPIFY_TIMEOUT" default:"15s"`
}

type UsageConfig struct {
	// DefaultLimit is the monthly generation allowance assigned when a shop is
	// provisioned on first use. Zero means unlimited.
	DefaultLimit int `envconfig:"SHOPQUILL_USAGE_DEFAULT_LIMIT" default:"100"`
}

type RateLimitConfig struct {
	GenerationWindow    time.Duration `envconfig:"SHOPQUILL_RATE_LIMIT_GENERATION_WINDOW" default:"1m"`
	GenerationShopLimit int           `envconfig:"SHOPQUILL_RATE_LIMIT_GENERATION_SHOP_LIMIT" default:"10"`
	GenerationIPLimit   int           `envconfig:"SHOPQUILL_RATE_LIMIT_GENERATION_IP_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPQUILL_AUTO_MIGRATE" default:"false"`
}
