//go:build cgo

package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sqliteDriverName = "mattn/go-sqlite3"

func sqliteDialector(path string) gorm.Dialector {
	return sqlite.Open(sqliteDSN(path, "_foreign_keys=1&_busy_timeout=5000"))
}
