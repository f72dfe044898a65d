package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "graphers_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "mongodb://localhost:27017/testdb", cfg.MongoDB.URI)
	require.Equal(t, "graphers_test", cfg.MongoDB.Database)
	require.Equal(t, "localhost:6379", cfg.RedisAddr())
	require.Equal(t, "HS256", cfg.JWT.Algorithm)
	require.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	require.Equal(t, 1000, cfg.Export.BatchSize)
	require.Equal(t, "report.csv", cfg.Export.FileName)
	require.False(t, cfg.Auth.DenylistEnabled)
}

func TestLoadConfig_LegacyNames(t *testing.T) {
	t.Setenv("DATABASE_URL", "mongodb://legacy:27017")
	t.Setenv("SECRET_KEY", "legacy-secret")
	t.Setenv("ALGORITHM", "hs512")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "mongodb://legacy:27017", cfg.MongoDB.URI)
	require.Equal(t, "legacy-secret", cfg.JWT.Secret)
	require.Equal(t, "HS512", cfg.JWT.Algorithm)
}

func TestLoadConfig_MissingMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:  ServerConfig{Environment: "development"},
			MongoDB: MongoDBConfig{URI: "mongodb://x"},
			JWT:     JWTConfig{Secret: "s", Algorithm: "HS256", AccessTokenTTL: time.Minute},
			Export:  ExportConfig{BatchSize: 10, FileName: "report.csv"},
		}
	}
	require.NoError(t, base().Validate())

	c := base()
	c.JWT.Algorithm = "RS256"
	require.Error(t, c.Validate())

	c = base()
	c.Server.Environment = "production"
	c.JWT.Secret = insecureDefaultSecret
	require.Error(t, c.Validate())

	c = base()
	c.Export.BatchSize = 0
	require.Error(t, c.Validate())

	c = base()
	c.JWT.AccessTokenTTL = 0
	require.Error(t, c.Validate())
}
