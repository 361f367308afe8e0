package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Media backends
const (
	MediaLocal = "local"
	MediaS3    = "s3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Database configuration
	DBType            string // sqlite, mysql, postgres, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string

	// Logging
	LogLevel  string
	LogFormat string

	// Sessions
	SessionExpiration time.Duration
	RedisAddr         string
	RedisPassword     string
	RedisDB           int

	// Media
	UploadDir          string
	MaxUploadBytes     int64
	ProfilePictureDim  int
	ProfilePictureQual int
	MediaBackend       string // local, s3
	S3Endpoint         string
	S3Region           string
	S3Bucket           string
	S3AccessKeyID      string
	S3SecretAccessKey  string
	S3PublicBaseURL    string

	SeedSampleData bool
}

// Load loads configuration from the environment, after applying an optional .env file
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "5000"),
		DBType:             strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", ""),
		DBDatabase:         getEnv("DB_DATABASE", "bluefin.db"),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:  getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		DBLogLevel:         getEnv("DB_LOG_LEVEL", "warn"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		SessionExpiration:  time.Duration(getEnvAsInt("SESSION_EXPIRATION_HOURS", 24)) * time.Hour,
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		UploadDir:          getEnv("UPLOAD_DIR", "static/uploads/profile_pictures"),
		MaxUploadBytes:     int64(getEnvAsInt("MAX_UPLOAD_BYTES", 5*1024*1024)),
		ProfilePictureDim:  getEnvAsInt("PROFILE_PICTURE_MAX_DIM", 300),
		ProfilePictureQual: getEnvAsInt("PROFILE_PICTURE_QUALITY", 85),
		MediaBackend:       strings.ToLower(getEnv("MEDIA_BACKEND", MediaLocal)),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3Region:           getEnv("S3_REGION", "auto"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3AccessKeyID:      getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:  getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3PublicBaseURL:    getEnv("S3_PUBLIC_BASE_URL", ""),
		SeedSampleData:     getEnvAsBool("SEED_SAMPLE_DATA", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required fields and cross-field constraints
func (cfg *Config) Validate() error {
	if cfg.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	switch cfg.DBType {
	case "sqlite":
	case "mysql", "mariadb", "postgres", "postgresql", "sqlserver", "mssql":
		if cfg.DBUser == "" {
			return fmt.Errorf("DB_USER is required for %s", cfg.DBType)
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", cfg.DBType)
	}
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.ProfilePictureQual < 1 || cfg.ProfilePictureQual > 100 {
		return fmt.Errorf("PROFILE_PICTURE_QUALITY must be between 1 and 100")
	}
	switch cfg.MediaBackend {
	case MediaLocal:
		if cfg.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required")
		}
	case MediaS3:
		for key, value := range map[string]string{
			"S3_ENDPOINT":          cfg.S3Endpoint,
			"S3_BUCKET":            cfg.S3Bucket,
			"S3_ACCESS_KEY_ID":     cfg.S3AccessKeyID,
			"S3_SECRET_ACCESS_KEY": cfg.S3SecretAccessKey,
			"S3_PUBLIC_BASE_URL":   cfg.S3PublicBaseURL,
		} {
			if value == "" {
				return fmt.Errorf("%s is required when MEDIA_BACKEND=s3", key)
			}
		}
	default:
		return fmt.Errorf("unsupported MEDIA_BACKEND: %s", cfg.MediaBackend)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// RequestBodyLimit caps request bodies. Pictures up to twice MaxUploadBytes still
// reach the upload handler so its size check can answer with a page error.
func (c *Config) RequestBodyLimit() int {
	return int(2*c.MaxUploadBytes) + 1<<20
}
