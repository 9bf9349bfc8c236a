package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port        string `yaml:"port"`
	CORSOrigins string `yaml:"corsOrigins"`
}

// MongoConfig configures the external content store
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// Enabled reports whether the content-store mirror should be used
func (m MongoConfig) Enabled() bool {
	return m.URI != ""
}

// RedisConfig configures the redis pattern store backend
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"-"`
	DB       int    `yaml:"db"`
}

// CacheConfig configures the pattern cache
type CacheConfig struct {
	Backend       string  `yaml:"backend"` // file, redis, sqlite, memory
	Path          string  `yaml:"path"`    // file or sqlite location
	HitThreshold  float64 `yaml:"hitThreshold"`
	NearThreshold float64 `yaml:"nearThreshold"`
	CleanupMaxAge string  `yaml:"cleanupMaxAge"`
	CleanupMinUse int     `yaml:"cleanupMinUsage"`
}

// MaxAge parses CleanupMaxAge
func (c CacheConfig) MaxAge() (time.Duration, error) {
	d, err := time.ParseDuration(c.CleanupMaxAge)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

// AuthConfig configures operator authentication
type AuthConfig struct {
	AdminUsername string `yaml:"adminUsername"`
	AdminPassword string `yaml:"-"`
	JWTSecret     string `yaml:"-"`
}

// LogConfig configures zap
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Config is the full service configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Mongo  MongoConfig  `yaml:"mongo"`
	Redis  RedisConfig  `yaml:"redis"`
	Cache  CacheConfig  `yaml:"cache"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
	AI     *AIConfig    `yaml:"ai"`
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", CORSOrigins: "*"},
		Mongo:  MongoConfig{Database: "hellosleep"},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Cache: CacheConfig{
			Backend:       "file",
			Path:          "data/pattern_cache.json",
			HitThreshold:  0.9,
			NearThreshold: 0.8,
			CleanupMaxAge: "720h",
			CleanupMinUse: 2,
		},
		Auth: AuthConfig{
			AdminUsername: "admin",
			AdminPassword: "password123",
			JWTSecret:     "super-secret-key-change-in-production",
		},
		Log: LogConfig{Level: "info"},
		AI:  DefaultAIConfig(),
	}
}

// Load reads .env (if present), then the optional YAML file, then environment overrides
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if cfg.AI == nil {
			cfg.AI = DefaultAIConfig()
		}
	}
	cfg.applyEnv()
	cfg.AI.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.CORSOrigins = getEnv("CORS_ALLOWED_ORIGINS", c.Server.CORSOrigins)

	c.Mongo.URI = getEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGO_DATABASE", c.Mongo.Database)

	// Remove redis:// prefix if present
	c.Redis.Addr = strings.TrimPrefix(getEnv("REDIS_URI", c.Redis.Addr), "redis://")
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	c.Cache.Backend = getEnv("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.Path = getEnv("CACHE_PATH", c.Cache.Path)
	c.Cache.HitThreshold = getEnvFloat("CACHE_HIT_THRESHOLD", c.Cache.HitThreshold)
	c.Cache.NearThreshold = getEnvFloat("CACHE_NEAR_THRESHOLD", c.Cache.NearThreshold)
	c.Cache.CleanupMaxAge = getEnv("CACHE_CLEANUP_MAX_AGE", c.Cache.CleanupMaxAge)
	c.Cache.CleanupMinUse = getEnvInt("CACHE_CLEANUP_MIN_USAGE", c.Cache.CleanupMinUse)

	c.Auth.AdminUsername = getEnv("ADMIN_USERNAME", c.Auth.AdminUsername)
	c.Auth.AdminPassword = getEnv("ADMIN_PASSWORD", c.Auth.AdminPassword)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Development = getEnvBool("LOG_DEVELOPMENT", c.Log.Development)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "sqlite":
		if c.Cache.Path == "" {
			return fmt.Errorf("%w: cache backend %s needs CACHE_PATH", ErrInvalidConfig, c.Cache.Backend)
		}
	case "redis", "memory":
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalidConfig, c.Cache.Backend)
	}
	if c.Cache.HitThreshold <= 0 || c.Cache.HitThreshold > 1 {
		return fmt.Errorf("%w: CACHE_HIT_THRESHOLD must be in (0,1]", ErrInvalidConfig)
	}
	if c.Cache.NearThreshold <= 0 || c.Cache.NearThreshold > c.Cache.HitThreshold {
		return fmt.Errorf("%w: CACHE_NEAR_THRESHOLD must be in (0, hit threshold]", ErrInvalidConfig)
	}
	if _, err := c.Cache.MaxAge(); err != nil {
		return fmt.Errorf("%w: CACHE_CLEANUP_MAX_AGE: %v", ErrInvalidConfig, err)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: JWT_SECRET is empty", ErrInvalidConfig)
	}
	return c.AI.Validate()
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvBool(key string, defaultVal bool) bool {
	val := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1" || val == "yes"
}
