package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.toml"), []byte(body), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func clearEnv(t *testing.T) {
	for _, key := range []string{envConfigName, envJWTSecret, envRedisHost, envRedisPort, envMinIOEndpoint, "DATABASE_URL", "DB_HOST"} {
		t.Setenv(key, "")
	}
}

func TestNewConfigDefaults(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
ServicePort = 9090

[FormBuilder]
Transactional = true
`)

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ServiceHost)
	assert.Equal(t, 9090, cfg.ServicePort)
	assert.True(t, cfg.FormBuilder.Transactional)
	assert.Equal(t, 5*time.Minute, cfg.FormBuilder.CacheTTL)
	assert.Equal(t, time.Hour, cfg.JWT.ExpiresIn)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.MinIO.Enabled)
	assert.Equal(t, "form-builder", cfg.MinIO.Bucket)
	assert.Empty(t, cfg.DSN)
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestNewConfigFromEnv(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
[Log]
Level = "debug"

[Auth]
Enabled = true

[CORS]
AllowOrigins = ["http://localhost:5173"]
`)
	t.Setenv(envJWTSecret, "secret")
	t.Setenv(envRedisHost, "redis")
	t.Setenv(envRedisPort, "6379")
	t.Setenv(envMinIOEndpoint, "minio:9000")
	t.Setenv("DB_HOST", "db")
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Auth.Enabled)
	assert.Equal(t, "secret", cfg.JWT.Token)
	assert.NotNil(t, cfg.JWT.SigningMethod)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.True(t, cfg.MinIO.Enabled)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowOrigins)
	assert.Contains(t, cfg.DSN, "host=db")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestNewConfigErrors(t *testing.T) {
	clearEnv(t)
	writeConfig(t, "[Auth]\nEnabled = true\n")
	_, err := NewConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")

	clearEnv(t)
	writeConfig(t, "")
	t.Setenv(envRedisHost, "redis")
	t.Setenv(envRedisPort, "not-a-port")
	_, err = NewConfig()
	assert.ErrorContains(t, err, "redis port must be int value")
}
