package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shopledger/internal/logger"
	"shopledger/internal/model"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Persistence backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendS3       = "s3"
)

const devJWTSecret = "default_super_secret_key"

type Config struct {
	Server struct {
		Port               int           `mapstructure:"port"`
		GinMode            string        `mapstructure:"gin_mode"`
		CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
		ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Auth struct {
		Enabled   bool   `mapstructure:"enabled"`
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"auth"`

	Persistence struct {
		Backend       string        `mapstructure:"backend"` // memory, postgres, redis, s3
		Key           string        `mapstructure:"key"`
		FlushInterval time.Duration `mapstructure:"flush_interval"`
	} `mapstructure:"persistence"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	S3 struct {
		Bucket          string `mapstructure:"bucket"`
		Region          string `mapstructure:"region"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
	} `mapstructure:"s3"`

	Shop model.Shop `mapstructure:"shop"`

	Log logger.LogConfig `mapstructure:"log"`
}

// Load reads configs/.env, then the optional YAML file, then the environment.
// Environment keys are the upper-cased paths with dots replaced by underscores,
// e.g. SERVER_PORT or PERSISTENCE_BACKEND.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Debug().Msg("no configs/.env file found")
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				log.Warn().Err(err).Str("file", configFile).Msg("config file not loaded, using defaults")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	shop := model.DefaultShop()
	logs := logger.DefaultConfig()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:5173", "http://127.0.0.1:5173"})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("persistence.backend", BackendMemory)
	v.SetDefault("persistence.key", "persist:root")
	v.SetDefault("persistence.flush_interval", 2*time.Second)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("shop.name", shop.Name)
	v.SetDefault("shop.address", shop.Address)
	v.SetDefault("shop.phone", shop.Phone)
	v.SetDefault("shop.gst", shop.GST)
	v.SetDefault("log.level", logs.Level)
	v.SetDefault("log.format", logs.Format)
	v.SetDefault("log.time_format", logs.TimeFormat)
	v.SetDefault("log.output", logs.Output)
}

func (c *Config) validate() error {
	switch c.Persistence.Backend {
	case BackendMemory, BackendPostgres, BackendRedis:
	case BackendS3:
		if c.S3.Bucket == "" {
			return errors.New("s3 persistence requires s3.bucket")
		}
	default:
		return fmt.Errorf("unknown persistence backend %q", c.Persistence.Backend)
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		if c.Server.GinMode == "release" {
			return errors.New("auth.jwt_secret is required in release mode")
		}
		log.Warn().Msg("auth.jwt_secret not set, using development secret")
		c.Auth.JWTSecret = devJWTSecret
	}
	return nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	db := c.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", db.User, db.Password, db.Host, db.Port, db.Name, db.SSLMode)
}
