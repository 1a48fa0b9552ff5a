package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "mysql", cfg.Database.Driver)
	require.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	require.Equal(t, "redis", cfg.Session.Store)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: "9000"
database:
  driver: sqlite
  path: /tmp/collabhub.db
jwt:
  secret: file-secret
  access_token_ttl: 30m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "env-secret", cfg.JWT.Secret)
	require.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.GinMode = "release"
	require.Error(t, cfg.Validate())

	cfg.JWT.Secret = "secret"
	require.NoError(t, cfg.Validate())

	cfg.Database.Driver = "oracle"
	require.Error(t, cfg.Validate())
}
