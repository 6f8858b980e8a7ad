package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=3030"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	Data  DataConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET,     default=practice-server-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,      default=24h"`
	Identity  string        `env:"IDENTITY_FIELD, default=email"`
}

// DataConfig points at the rule and seed files. Empty paths select the
// embedded defaults; an empty JSONStoreDir starts the JSON store empty.
type DataConfig struct {
	RulesFile         string `env:"RULES_FILE"`
	SeedDir           string `env:"SEED_DIR"`
	JSONStoreDir      string `env:"JSONSTORE_DIR"`
	ProtectedSeedFile string `env:"PROTECTED_SEED_FILE"`
	Throttle          bool   `env:"THROTTLE, default=false"`
}

// MongoConfig enables seeding the general namespace from MongoDB when URI is
// set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=practice"`
}

// RedisConfig moves sessions to Redis when Addr is set.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
