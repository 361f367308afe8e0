package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/localnerve/bluefin-crm/internal/database"
)

// Reconciles a SQLite file (an in-memory store by default) and prints what
// each table looks like afterwards.
func main() {
	path := flag.String("db", ":memory:", "SQLite file to inspect; it is reconciled in place")
	flag.Parse()

	db, err := database.OpenSQLite(*path, "silent")
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	reports, err := database.Reconcile(db, database.Shapes, time.Now())
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range database.SortedReports(reports) {
		fmt.Printf("\n=== Table: %s (%s", r.Table, r.Outcome)
		if len(r.Missing) > 0 {
			fmt.Printf(", added %v to %d rows", r.Missing, r.Rows)
		}
		fmt.Println(") ===")

		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", r.Table).Scan(&schema)
		fmt.Println(schema)

		columns, err := database.Inventory(db, r.Table)
		if err != nil {
			log.Fatal(err)
		}
		names := make([]string, 0, len(columns))
		for name := range columns {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-16s %s\n", name, columns[name])
		}
	}
}
