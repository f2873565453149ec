package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "REWEAR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv     = "REWEAR_APP_ENV"
	EnvPort       = "REWEAR_APP_PORT"
	EnvDBDSN      = "REWEAR_DB_DSN"
	EnvDBHost     = "REWEAR_DB_HOST"
	EnvDBUser     = "REWEAR_DB_USER"
	EnvDBName     = "REWEAR_DB_NAME"
	EnvRedisURL   = "REWEAR_REDIS_URL"
	EnvJWTSecret  = "REWEAR_JWT_SECRET"
	EnvJWTIssuer  = "REWEAR_JWT_ISSUER"
	EnvJWTExpMins = "REWEAR_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Rewards      RewardsConfig
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
	Env          string `envconfig:"REWEAR_APP_ENV" required:"true"`
	Port         string `envconfig:"REWEAR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"REWEAR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"REWEAR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"REWEAR_DB_DSN"`
	Driver string `envconfig:"REWEAR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"REWEAR_DB_HOST"`
	LegacyPort     int    `envconfig:"REWEAR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"REWEAR_DB_USER"`
	LegacyPassword string `envconfig:"REWEAR_DB_PASSWORD"`
	LegacyName     string `envconfig:"REWEAR_DB_NAME"`
	LegacySSLMode  string `envconfig:"REWEAR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"REWEAR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"REWEAR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"REWEAR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"REWEAR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REWEAR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"REWEAR_REDIS_ADDR"`
	Password     string        `envconfig:"REWEAR_REDIS_PASSWORD"`
	DB           int           `envconfig:"REWEAR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REWEAR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REWEAR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REWEAR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REWEAR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REWEAR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"REWEAR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"REWEAR_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"REWEAR_JWT_EXPIRATION_MINUTES" required:"true"`
}

// RewardsConfig holds the point amounts granted outside of item pricing.
type RewardsConfig struct {
	WelcomeBalance int `envconfig:"REWEAR_REWARDS_WELCOME_BALANCE" default:"50"`
	ListingBonus   int `envconfig:"REWEAR_REWARDS_LISTING_BONUS" default:"10"`
}

// RateLimitConfig throttles the open registration endpoint.
type RateLimitConfig struct {
	RegisterWindow     time.Duration `envconfig:"REWEAR_RATE_LIMIT_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"REWEAR_RATE_LIMIT_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"REWEAR_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"REWEAR_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
