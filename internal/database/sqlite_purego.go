//go:build !cgo

package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const sqliteDriverName = "modernc.org/sqlite"

func sqliteDialector(path string) gorm.Dialector {
	return sqlite.Open(sqliteDSN(path, "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"))
}
