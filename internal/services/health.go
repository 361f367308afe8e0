package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/localnerve/bluefin-crm/internal/config"
	"github.com/localnerve/bluefin-crm/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const pingTimeout = 1500 * time.Millisecond

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Sessions     string            `json:"sessions"`
	Media        string            `json:"media"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(component, detail string, err error) {
	r.Status = "unhealthy"
	r.Details[component+"_error"] = err.Error()
	msg := fmt.Sprintf("%s: %v", detail, err)
	if r.ErrorMessage == "" {
		r.ErrorMessage = msg
	} else {
		r.ErrorMessage += "; " + msg
	}
}

// HealthCheck checks the database and any configured session and media backends
func HealthCheck(cfg *config.Config, db *gorm.DB, log *zap.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:   "healthy",
		Sessions: "memory",
		Media:    cfg.MediaBackend,
		Details:  make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.fail("database", "Database connection error", err)
	} else if err := sqlDB.Ping(); err != nil {
		result.Database = "unreachable"
		result.fail("database", "Database ping failed", err)
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	if cfg.RedisAddr != "" {
		if err := utils.PingAddress(cfg.RedisAddr, pingTimeout); err != nil {
			result.Sessions = "unreachable"
			result.fail("redis", "Redis ping failed", err)
		} else {
			result.Sessions = "ok"
			result.Details["redis_addr"] = cfg.RedisAddr
		}
	}

	if cfg.MediaBackend == config.MediaS3 {
		if err := utils.PingService(cfg.S3Endpoint, pingTimeout); err != nil {
			result.Media = "unreachable"
			result.fail("s3", "Object storage ping failed", err)
		} else {
			result.Media = "ok"
			result.Details["s3_bucket"] = cfg.S3Bucket
		}
	}

	if result.Status == "healthy" {
		log.Debug("health check passed")
	} else {
		log.Warn("health check failed", zap.String("error", result.ErrorMessage),
			zap.String("failing", strings.Join(failing(result.Details), ",")))
	}
	return result
}

func failing(details map[string]string) []string {
	var out []string
	for _, component := range []string{"database", "redis", "s3"} {
		if _, ok := details[component+"_error"]; ok {
			out = append(out, component)
		}
	}
	return out
}
