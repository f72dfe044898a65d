package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration. It is built once at startup and
// passed by pointer to every component.
type Config struct {
	Server  ServerConfig
	MongoDB MongoDBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Auth    AuthConfig
	Export  ExportConfig
	MinIO   MinIOConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret         string
	Algorithm      string
	AccessTokenTTL time.Duration
}

type AuthConfig struct {
	BcryptCost      int
	DenylistEnabled bool
}

type ExportConfig struct {
	Dir         string
	FileName    string
	BatchSize   int
	UniqueNames bool
	Timeout     time.Duration
	History     bool
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type LogConfig struct {
	Level string
	File  string
}

const insecureDefaultSecret = "change-me"

var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// LoadConfig loads configuration from environment variables and an optional .env file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	// legacy names used by earlier deployments
	for key, legacy := range map[string]string{
		"MONGODB_URI":   "DATABASE_URL",
		"JWT_SECRET":    "SECRET_KEY",
		"JWT_ALGORITHM": "ALGORITHM",
	} {
		if err := v.BindEnv(key, key, legacy); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	v.SetDefault("SERVER_PORT", "8008")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("MONGODB_DATABASE", "Graphers")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_SECRET", insecureDefaultSecret)
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 30)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("AUTH_DENYLIST_ENABLED", false)
	v.SetDefault("EXPORT_DIR", ".")
	v.SetDefault("EXPORT_FILE", "report.csv")
	v.SetDefault("EXPORT_BATCH_SIZE", 1000)
	v.SetDefault("EXPORT_UNIQUE_NAMES", false)
	v.SetDefault("EXPORT_TIMEOUT", 300)
	v.SetDefault("EXPORT_HISTORY", true)
	v.SetDefault("MINIO_BUCKET", "reports")
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("JWT_SECRET"),
			Algorithm:      strings.ToUpper(strings.TrimSpace(v.GetString("JWT_ALGORITHM"))),
			AccessTokenTTL: time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
		},
		Auth: AuthConfig{
			BcryptCost:      v.GetInt("BCRYPT_COST"),
			DenylistEnabled: v.GetBool("AUTH_DENYLIST_ENABLED"),
		},
		Export: ExportConfig{
			Dir:         v.GetString("EXPORT_DIR"),
			FileName:    v.GetString("EXPORT_FILE"),
			BatchSize:   v.GetInt("EXPORT_BATCH_SIZE"),
			UniqueNames: v.GetBool("EXPORT_UNIQUE_NAMES"),
			Timeout:     time.Duration(v.GetInt("EXPORT_TIMEOUT")) * time.Second,
			History:     v.GetBool("EXPORT_HISTORY"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI (or DATABASE_URL) is required")
	}
	if !supportedAlgorithms[c.JWT.Algorithm] {
		return fmt.Errorf("unsupported JWT_ALGORITHM %q (want HS256, HS384 or HS512)", c.JWT.Algorithm)
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction() && c.JWT.Secret == insecureDefaultSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.JWT.AccessTokenTTL <= 0 {
		return errors.New("JWT_ACCESS_TOKEN_TTL must be positive")
	}
	if c.Export.BatchSize <= 0 {
		return errors.New("EXPORT_BATCH_SIZE must be positive")
	}
	if c.Export.FileName == "" {
		return errors.New("EXPORT_FILE must not be empty")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}
