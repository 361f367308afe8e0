package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	for _, key := range []string{"PORT", "DB_TYPE", "DB_DATABASE", "MEDIA_BACKEND", "SEED_SAMPLE_DATA", "MAX_UPLOAD_BYTES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "bluefin.db", cfg.DBDatabase)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, 300, cfg.ProfilePictureDim)
	assert.Equal(t, 85, cfg.ProfilePictureQual)
	assert.Equal(t, 24*time.Hour, cfg.SessionExpiration)
	assert.True(t, cfg.SeedSampleData)
	assert.Equal(t, 11<<20, cfg.RequestBodyLimit())
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("PORT=8088\nSEED_SAMPLE_DATA=false\n"), 0o600))
	t.Setenv("ENV_FILE", envFile)
	// godotenv never overrides variables that are already present
	for _, key := range []string{"PORT", "SEED_SAMPLE_DATA"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8088", cfg.Port)
	assert.False(t, cfg.SeedSampleData)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DBType:             "sqlite",
			DBDatabase:         "x.db",
			MaxUploadBytes:     1,
			ProfilePictureQual: 85,
			MediaBackend:       "local",
			UploadDir:          "uploads",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"unknown dialect", func(c *Config) { c.DBType = "oracle" }, "unsupported DB_TYPE"},
		{"network dialect needs user", func(c *Config) { c.DBType = "postgres" }, "DB_USER is required"},
		{"quality range", func(c *Config) { c.ProfilePictureQual = 101 }, "PROFILE_PICTURE_QUALITY"},
		{"s3 needs bucket", func(c *Config) {
			c.MediaBackend = "s3"
			c.S3Endpoint = "https://example.test"
			c.S3AccessKeyID = "a"
			c.S3SecretAccessKey = "b"
			c.S3PublicBaseURL = "https://cdn.example.test"
		}, "S3_BUCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
