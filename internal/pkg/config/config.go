package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development" validate:"oneof=development staging production test"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	BackendURL      string `env:"BACKEND_URL,      default=http://localhost:8000/api/" validate:"required,url"`
	DispatchWorkers int    `env:"DISPATCH_WORKERS, default=4" validate:"gte=1,lte=64"`
	DownloadDir     string `env:"DOWNLOAD_DIR,     default=."`

	Store   StoreConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=memory" validate:"oneof=memory file redis mongo"`
	// Path is the session file of the file driver. Empty means the user
	// config directory.
	Path string `env:"STORE_PATH"`
}

type SessionConfig struct {
	TTL          time.Duration `env:"SESSION_TTL,   default=12h"`
	CookieName   string        `env:"COOKIE_NAME,   default=portal_sid" validate:"required"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
	// SweepInterval paces the removal of expired sessions from the memory
	// and file drivers.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL, default=10m" validate:"gt=0"`
	// InFlightTTL bounds how long a crashed request can hold a control.
	InFlightTTL time.Duration `env:"INFLIGHT_TTL, default=2m" validate:"gt=0"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=school_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// IsDevelopment reports whether the process runs with developer defaults,
// which enables console logging.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads .env files when present, then the environment. Variables
// already set in the environment win over .env entries.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: invalid configuration: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for process entry points.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
