// connection.go
//
// Bluefin CRM: contacts, opportunities, calendar and accounts for a single advisor
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of bluefin-crm.
// bluefin-crm is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// bluefin-crm is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with bluefin-crm.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package database

import (
	"fmt"
	"net"
	"strings"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"github.com/localnerve/bluefin-crm/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a database connection based on the configured DB_TYPE
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	limit := cfg.DBConnectionLimit

	switch cfg.DBType {
	case "mysql", "mariadb":
		dsn := driver.NewConfig()
		dsn.User = cfg.DBUser
		dsn.Passwd = cfg.DBPassword
		dsn.Net = "tcp"
		dsn.Addr = net.JoinHostPort(cfg.DBHost, portOr(cfg.DBPort, "3306"))
		dsn.DBName = cfg.DBDatabase
		dsn.ParseTime = true
		dsn.Loc = time.UTC
		dsn.Params = map[string]string{"charset": "utf8mb4"}
		dialector = mysql.Open(dsn.FormatDSN())

	case "postgres", "postgresql":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			cfg.DBHost,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBDatabase,
			portOr(cfg.DBPort, "5432"),
		)
		dialector = postgres.Open(dsn)

	case "sqlite":
		// DB_DATABASE is the file path; one connection serializes writers
		dialector = sqliteDialector(cfg.DBDatabase)
		limit = 1

	case "sqlserver", "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			portOr(cfg.DBPort, "1433"),
			cfg.DBDatabase,
		)
		dialector = sqlserver.Open(dsn)

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.DBType)
	}

	db, err := Open(dialector, cfg.DBLogLevel, limit)
	if err != nil {
		return nil, err
	}

	log.Info("connected to database",
		zap.String("type", cfg.DBType),
		zap.String("database", cfg.DBDatabase),
		zap.String("sqlite_driver", sqliteDriverName),
	)

	return db, nil
}

// OpenSQLite opens a SQLite file with foreign keys enforced. Used by tools and tests.
func OpenSQLite(path, logLevel string) (*gorm.DB, error) {
	return Open(sqliteDialector(path), logLevel, 1)
}

// Open applies the shared gorm configuration and pool limits to a dialector
func Open(dialector gorm.Dialector, logLevel string, connectionLimit int) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(logLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB for connection pool configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	if connectionLimit < 1 {
		connectionLimit = 1
	}
	sqlDB.SetMaxOpenConns(connectionLimit)
	sqlDB.SetMaxIdleConns(max(1, connectionLimit/2))

	return db, nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DateExpr wraps column so it compares as a calendar day on the active dialect.
func DateExpr(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlserver" {
		return "CAST(" + column + " AS DATE)"
	}
	return "DATE(" + column + ")"
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

func portOr(port, fallback string) string {
	if port == "" {
		return fallback
	}
	return port
}

// sqliteDSN appends driver parameters to a file path.
func sqliteDSN(path, params string) string {
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}
