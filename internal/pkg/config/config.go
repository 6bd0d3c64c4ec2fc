package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	Version  string `env:"VERSION,   default=dev"`

	JWTSecret string        `env:"JWT_SECRET, default=fleetflow-dev-secret"`
	JWTTTL    time.Duration `env:"JWT_TTL,    default=8h"`

	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Session   SessionConfig
	Security  SecurityConfig
	CORS      CORSConfig

	StaticRoot string `env:"STATIC_ROOT, default=public"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=fleetflow"`
}

type RedisConfig struct {
	Addr        string `env:"REDIS_ADDR,        default=localhost:6379"`
	SessionDB   int    `env:"REDIS_SESSION_DB,  default=0"`
	RateLimitDB int    `env:"REDIS_RATELIMIT_DB, default=1"`
}

type RateLimitConfig struct {
	Window     time.Duration `env:"RATE_LIMIT_WINDOW,      default=60s"`
	Max        int64         `env:"RATE_LIMIT_MAX,         default=120"`
	AuthWindow time.Duration `env:"RATE_LIMIT_AUTH_WINDOW, default=60s"`
	AuthMax    int64         `env:"RATE_LIMIT_AUTH_MAX,    default=10"`
}

type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET, default=fleetflow-session-secret"`
	TTL        time.Duration `env:"SESSION_TTL,    default=8h"`
	CookieName string        `env:"SESSION_COOKIE, default=fleetflow_sid"`
}

type SecurityConfig struct {
	// BlockedIPs is a comma-separated list of client IPs to reject outright.
	BlockedIPs   []string `env:"BLOCKED_IPS"`
	MaxBodyBytes int64    `env:"MAX_BODY_BYTES, default=5242880"`
}

type CORSConfig struct {
	Origins []string `env:"CORS_ORIGINS, default=*"`
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool { return c.Env == "development" }

// IsProd reports whether the server runs in production mode.
func (c *Config) IsProd() bool { return c.Env == "production" }

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
