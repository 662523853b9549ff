package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Share        ShareConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
		if cfg.DB.DSN == "" {
			cfg.DB.DSN = "file:bestia.db"
		}
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BESTIA_APP_ENV" required:"true"`
	Port         string `envconfig:"BESTIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BESTIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BESTIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BESTIA_DB_DSN"`
	Driver string `envconfig:"BESTIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BESTIA_DB_HOST"`
	LegacyPort     int    `envconfig:"BESTIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BESTIA_DB_USER"`
	LegacyPassword string `envconfig:"BESTIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"BESTIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"BESTIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BESTIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BESTIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BESTIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BESTIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BESTIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BESTIA_REDIS_ADDR"`
	Password     string        `envconfig:"BESTIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"BESTIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BESTIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BESTIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BESTIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BESTIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BESTIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ShareConfig drives the session share links.
type ShareConfig struct {
	BaseURL          string        `envconfig:"BESTIA_SHARE_BASE_URL" default:"https://bestia.app/join"`
	ShortenerURL     string        `envconfig:"BESTIA_SHARE_SHORTENER_URL"`
	ShortenerTimeout time.Duration `envconfig:"BESTIA_SHARE_SHORTENER_TIMEOUT" default:"5s"`
}

type RateLimitConfig struct {
	ShareWindow time.Duration `envconfig:"BESTIA_RATE_LIMIT_SHARE_WINDOW" default:"1m"`
	ShareLimit  int           `envconfig:"BESTIA_RATE_LIMIT_SHARE_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BESTIA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BESTIA_AUTO_MIGRATE" default:"false"`
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
