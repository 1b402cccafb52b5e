package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "catalog")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	for _, key := range []string{"PORT", "ENV", "DB_PORT", "DB_SSLMODE", "REDIS_PORT", "REDIS_DB", "UPLOAD_DIR", "UPLOAD_PUBLIC_PATH", "S3_BUCKET", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, "6379", cfg.Redis.Port)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.Equal(t, "public/uploads", cfg.Upload.Dir)
	assert.Equal(t, "/uploads", cfg.Upload.PublicPath)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "catalog")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestS3Enabled(t *testing.T) {
	cfg := S3Config{Region: "ap-southeast-1"}
	assert.False(t, cfg.Enabled())

	cfg.Bucket = "catalog-images"
	assert.False(t, cfg.Enabled())

	cfg.AccessKeyID = "key"
	cfg.SecretAccessKey = "secret"
	assert.True(t, cfg.Enabled())
}
