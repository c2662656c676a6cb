package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session backends for ClientConfig.SessionBackend.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Catalog stores for ServerConfig.Store.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// ClientConfig configures moviectl and any other consumer of the client core.
type ClientConfig struct {
	APIURL         string        `env:"REELNOTES_API_URL,         default=http://localhost:8000/api"`
	SessionBackend string        `env:"REELNOTES_SESSION_BACKEND, default=file"`
	SessionDir     string        `env:"REELNOTES_SESSION_DIR"`
	HTTPTimeout    time.Duration `env:"REELNOTES_HTTP_TIMEOUT,    default=15s"`
	LogLevel       string        `env:"LOG_LEVEL,                 default=warn"`
	LogPretty      bool          `env:"LOG_PRETTY,                default=true"`

	Redis RedisConfig
}

// ServerConfig configures the development backend.
type ServerConfig struct {
	Port          string        `env:"PORT,          default=8000"`
	Env           string        `env:"ENV,           default=development"`
	JWTSecret     string        `env:"JWT_SECRET"`
	AccessTTL     time.Duration `env:"ACCESS_TTL,    default=5m"`
	RefreshTTL    time.Duration `env:"REFRESH_TTL,   default=24h"`
	Store         string        `env:"STORE,         default=memory"`
	AdminUsername string        `env:"ADMIN_USERNAME"`
	AdminEmail    string        `env:"ADMIN_EMAIL"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`
	LogLevel      string        `env:"LOG_LEVEL,     default=info"`
	LogPretty     bool          `env:"LOG_PRETTY,    default=false"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=reelnotes"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// LoadClient reads ClientConfig from the environment.
func LoadClient(ctx context.Context) (*ClientConfig, error) {
	return load(ctx, &ClientConfig{}, envconfig.OsLookuper())
}

// LoadServer reads ServerConfig from the environment.
func LoadServer(ctx context.Context) (*ServerConfig, error) {
	cfg, err := load(ctx, &ServerConfig{}, envconfig.OsLookuper())
	if err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return cfg, nil
}

func load[T any](ctx context.Context, cfg *T, lookuper envconfig.Lookuper) (*T, error) {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return cfg, nil
}
