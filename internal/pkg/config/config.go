package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// User store backends.
const (
	UserStoreSQLite   = "sqlite"
	UserStorePostgres = "postgres"
	UserStoreMongo    = "mongo"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

const envProduction = "production"

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	UserStore    string `env:"USER_STORE,    default=sqlite"`
	SessionStore string `env:"SESSION_STORE, default=memory"`

	SQLite   SQLiteConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Session  SessionConfig
	Security SecurityConfig
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=domapp.db"`
}

type PostgresConfig struct {
	DSN string `env:"DATABASE_URL"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=domapp"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SessionConfig struct {
	CookieName string        `env:"SESSION_COOKIE, default=domapp_session"`
	TTL        time.Duration `env:"SESSION_TTL,    default=336h"`
}

type SecurityConfig struct {
	BcryptCost  int  `env:"BCRYPT_COST,  default=10"`
	CSRFEnabled bool `env:"CSRF_ENABLED, default=true"`
}

// IsProduction reports whether cookies must be marked Secure and logs
// emitted as JSON.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.UserStore {
	case UserStoreSQLite, UserStoreMongo:
	case UserStorePostgres:
		if c.Postgres.DSN == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when USER_STORE=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown USER_STORE %q", c.UserStore))
	}

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore))
	}

	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	return errors.Join(errs...)
}

// Load reads an optional .env file, then the environment, using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	cfg.UserStore = strings.ToLower(strings.TrimSpace(cfg.UserStore))
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
