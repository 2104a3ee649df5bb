package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Console ConsoleConfig
	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type APIConfig struct {
	URL string `env:"HMS_API_URL, default=http://localhost:5000"`
	// Timeout bounds each API call. Zero waits indefinitely.
	Timeout time.Duration `env:"HMS_API_TIMEOUT, default=0s"`
}

type ConsoleConfig struct {
	Addr          string `env:"HMS_CONSOLE_ADDR,    default=:8080"`
	SecureCookies bool   `env:"HMS_SECURE_COOKIES,  default=false"`
}

type SessionConfig struct {
	// Backend is empty when the surface should pick its own default.
	Backend string        `env:"HMS_SESSION_BACKEND"`
	TTL     time.Duration `env:"HMS_SESSION_TTL,  default=24h"`
	File    string        `env:"HMS_SESSION_FILE"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hms_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// BackendOr returns the configured session backend, or def when none is set.
func (s SessionConfig) BackendOr(def string) string {
	if s.Backend == "" {
		return def
	}
	return s.Backend
}

func (c *Config) validate() error {
	switch c.Session.Backend {
	case "", BackendMemory, BackendFile, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("HMS_SESSION_BACKEND: unknown backend %q", c.Session.Backend)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("HMS_API_TIMEOUT: must not be negative")
	}
	return nil
}
