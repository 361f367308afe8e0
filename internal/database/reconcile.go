// reconcile.go
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
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Strategy selects how an existing table with missing columns is brought up to shape.
type Strategy int

const (
	// AddColumns alters the table in place. Tables referenced by other tables use it,
	// since dropping them would cascade into their children.
	AddColumns Strategy = iota
	// Rebuild copies every row into a freshly created table and swaps it in.
	Rebuild
)

// Row is one stored row keyed by column name.
type Row map[string]interface{}

// Fill supplies the value of a column that the old table shape lacks.
type Fill func(old Row, env *FillEnv) (interface{}, error)

// FillEnv is what fills may consult besides the old row.
type FillEnv struct {
	Now          time.Time
	contactNames map[int64]string
}

// ContactName returns the name of the contact with the given id, if it exists.
func (env *FillEnv) ContactName(id interface{}) (string, bool) {
	key, ok := toInt64(id)
	if !ok {
		return "", false
	}
	name, ok := env.contactNames[key]
	return name, ok
}

// Shape declares the target form of one table.
type Shape struct {
	Model    interface{}
	Strategy Strategy
	// Fills are keyed by column name; columns without one become NULL.
	Fills map[string]Fill
}

// Outcome of reconciling one table.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeMigrated  Outcome = "migrated"
	OutcomeUnchanged Outcome = "unchanged"
)

// TableReport records what Reconcile did to a table.
type TableReport struct {
	Table   string
	Outcome Outcome
	Missing []string
	Rows    int
}

// Reconcile brings every table in shapes to its target column set, in order.
// It stops at the first failure; the failing table keeps its original shape.
func Reconcile(db *gorm.DB, shapes []Shape, now time.Time) ([]TableReport, error) {
	reports := make([]TableReport, 0, len(shapes))
	for _, shape := range shapes {
		report, err := reconcileTable(db, shape, now)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Inventory returns the live columns of table, lower-cased name to declared type.
func Inventory(db *gorm.DB, table string) (map[string]string, error) {
	columnTypes, err := db.Migrator().ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	columns := make(map[string]string, len(columnTypes))
	for _, ct := range columnTypes {
		columns[strings.ToLower(ct.Name())] = ct.DatabaseTypeName()
	}
	return columns, nil
}

// MissingColumns lists the target columns absent from the inventory, in target order.
func MissingColumns(target []string, inventory map[string]string) []string {
	var missing []string
	for _, column := range target {
		if _, ok := inventory[strings.ToLower(column)]; !ok {
			missing = append(missing, column)
		}
	}
	return missing
}

// MigrateRow maps an old-shape row onto the target columns. Present non-NULL values
// are copied; absent or NULL ones come from the shape's fills or stay NULL.
func MigrateRow(shape Shape, target []string, inventory map[string]string, old Row, env *FillEnv) (Row, error) {
	out := make(Row, len(target))
	lowered := make(Row, len(old))
	for k, v := range old {
		lowered[strings.ToLower(k)] = v
	}
	for _, column := range target {
		if _, ok := inventory[strings.ToLower(column)]; ok && lowered[column] != nil {
			out[column] = lowered[column]
			continue
		}
		fill, ok := shape.Fills[column]
		if !ok {
			out[column] = nil
			continue
		}
		value, err := fill(lowered, env)
		if err != nil {
			return nil, fmt.Errorf("fill %s: %w", column, err)
		}
		out[column] = value
	}
	return out, nil
}

func reconcileTable(db *gorm.DB, shape Shape, now time.Time) (TableReport, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(shape.Model); err != nil {
		return TableReport{}, fmt.Errorf("failed to parse model %T: %w", shape.Model, err)
	}
	table := stmt.Schema.Table
	target := stmt.Schema.DBNames
	report := TableReport{Table: table}

	if !db.Migrator().HasTable(table) {
		if err := db.Migrator().CreateTable(shape.Model); err != nil {
			return report, fmt.Errorf("failed to create %s: %w", table, err)
		}
		report.Outcome = OutcomeCreated
		return report, nil
	}

	inventory, err := Inventory(db, table)
	if err != nil {
		return report, err
	}
	report.Missing = MissingColumns(target, inventory)
	if len(report.Missing) == 0 {
		report.Outcome = OutcomeUnchanged
		return report, nil
	}

	env := &FillEnv{Now: now}
	if _, ok := inventory["contact_id"]; ok && table != "contacts" {
		if env.contactNames, err = loadContactNames(db); err != nil {
			return report, err
		}
	}

	switch shape.Strategy {
	case AddColumns:
		report.Rows, err = addColumns(db, shape, table, target, inventory, report.Missing, env)
	default:
		report.Rows, err = rebuild(db, shape, table, target, inventory, env)
	}
	if err != nil {
		return report, err
	}
	report.Outcome = OutcomeMigrated
	return report, nil
}

func addColumns(db *gorm.DB, shape Shape, table string, target []string, inventory map[string]string, missing []string, env *FillEnv) (int, error) {
	var touched int
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, column := range missing {
			if err := tx.Migrator().AddColumn(shape.Model, column); err != nil {
				return fmt.Errorf("failed to add %s.%s: %w", table, column, err)
			}
		}

		var rows []map[string]interface{}
		if err := tx.Table(table).Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to read %s: %w", table, err)
		}
		for _, old := range rows {
			migrated, err := MigrateRow(shape, target, inventory, old, env)
			if err != nil {
				return err
			}
			updates := map[string]interface{}{}
			for _, column := range missing {
				if _, ok := shape.Fills[column]; ok {
					updates[column] = migrated[column]
				}
			}
			if len(updates) == 0 {
				continue
			}
			if err := tx.Table(table).Where("id = ?", old["id"]).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to backfill %s: %w", table, err)
			}
			touched++
		}
		return nil
	})
	return touched, err
}

func rebuild(db *gorm.DB, shape Shape, table string, target []string, inventory map[string]string, env *FillEnv) (int, error) {
	scratch := table + "_new"
	var copied int

	err := db.Transaction(func(tx *gorm.DB) error {
		if tx.Migrator().HasTable(scratch) {
			if err := tx.Migrator().DropTable(scratch); err != nil {
				return fmt.Errorf("failed to drop stale %s: %w", scratch, err)
			}
		}
		if err := tx.Table(scratch).Migrator().CreateTable(shape.Model); err != nil {
			return fmt.Errorf("failed to create %s: %w", scratch, err)
		}

		var rows []map[string]interface{}
		if err := tx.Table(table).Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to read %s: %w", table, err)
		}
		migrated := make([]map[string]interface{}, 0, len(rows))
		for _, old := range rows {
			row, err := MigrateRow(shape, target, inventory, old, env)
			if err != nil {
				return err
			}
			migrated = append(migrated, row)
		}

		if len(migrated) > 0 {
			if err := copyRows(tx, scratch, migrated); err != nil {
				return fmt.Errorf("failed to copy %s: %w", table, err)
			}
		}
		copied = len(migrated)

		if err := tx.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("failed to drop %s: %w", table, err)
		}
		if err := tx.Migrator().RenameTable(scratch, table); err != nil {
			return fmt.Errorf("failed to rename %s: %w", scratch, err)
		}
		return nil
	})
	if err != nil {
		// dialects without transactional DDL may have left the scratch table behind
		if db.Migrator().HasTable(scratch) {
			_ = db.Migrator().DropTable(scratch)
		}
		return 0, err
	}
	return copied, nil
}

// copyRows inserts rows with their original ids and keeps the id generator ahead of them.
func copyRows(tx *gorm.DB, table string, rows []map[string]interface{}) error {
	switch tx.Dialector.Name() {
	case "sqlserver":
		if err := tx.Exec("SET IDENTITY_INSERT ? ON", clause.Table{Name: table}).Error; err != nil {
			return err
		}
		defer tx.Exec("SET IDENTITY_INSERT ? OFF", clause.Table{Name: table})
	}

	if err := tx.Table(table).CreateInBatches(rows, 100).Error; err != nil {
		return err
	}

	if tx.Dialector.Name() == "postgres" {
		return tx.Exec("SELECT setval(pg_get_serial_sequence(?, 'id'), COALESCE((SELECT MAX(id) FROM ?), 0) + 1, false)",
			table, clause.Table{Name: table}).Error
	}
	return nil
}

func loadContactNames(db *gorm.DB) (map[int64]string, error) {
	names := map[int64]string{}
	if !db.Migrator().HasTable("contacts") {
		return names, nil
	}
	var rows []map[string]interface{}
	if err := db.Table("contacts").Select("id", "name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to read contact names: %w", err)
	}
	for _, row := range rows {
		if id, ok := toInt64(row["id"]); ok {
			names[id] = toString(row["name"])
		}
	}
	return names, nil
}

// SortedReports orders reports by table name, for stable output.
func SortedReports(reports []TableReport) []TableReport {
	out := append([]TableReport(nil), reports...)
	sort.Slice(out, func(i, j int) bool { return out[i].Table < out[j].Table })
	return out
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	case []byte:
		i, err := strconv.ParseInt(string(n), 10, 64)
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	}
	return fmt.Sprint(v)
}
