package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var reconcileTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func exec(t *testing.T, db *gorm.DB, statements ...string) {
	t.Helper()
	for _, sql := range statements {
		require.NoError(t, db.Exec(sql).Error, sql)
	}
}

// legacyStore builds the oldest table shapes with a few rows in them.
func legacyStore(t *testing.T, db *gorm.DB) {
	exec(t, db,
		`CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, email TEXT UNIQUE NOT NULL, password TEXT NOT NULL, name TEXT NOT NULL)`,
		`CREATE TABLE contacts (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER, name TEXT NOT NULL, email TEXT, phone TEXT, firm TEXT, address TEXT)`,
		`CREATE TABLE opportunities (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER NOT NULL, title TEXT NOT NULL, contact_id INTEGER, amount REAL, close_date DATE, notes TEXT)`,
		`INSERT INTO users (id, email, password, name) VALUES (1, 'a@example.com', 'secret1', 'Advisor A')`,
		`INSERT INTO contacts (id, user_id, name, firm) VALUES (1, 1, 'John Smith', 'Morgan Stanley')`,
		`INSERT INTO opportunities (id, user_id, title, contact_id, amount, close_date, notes) VALUES (1, 1, 'Portfolio Review', 1, 75000, '2024-02-15', 'ESG')`,
		`INSERT INTO opportunities (id, user_id, title, contact_id, amount, close_date, notes) VALUES (2, 1, 'Orphaned Deal', 99, NULL, NULL, NULL)`,
	)
}

func TestReconcileCreatesEmptyStore(t *testing.T) {
	db := newTestDB(t)

	reports, err := Reconcile(db, Shapes, reconcileTime)
	require.NoError(t, err)
	require.Len(t, reports, len(Shapes))
	for _, r := range reports {
		assert.Equal(t, OutcomeCreated, r.Outcome, r.Table)
	}

	for _, table := range []string{"users", "contacts", "contact_notes", "calendar_notes", "registered_accounts", "opportunities", "notes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	legacyStore(t, db)

	_, err := Reconcile(db, Shapes, reconcileTime)
	require.NoError(t, err)

	before := map[string]map[string]string{}
	for _, shape := range Shapes {
		table := tableOf(t, db, shape)
		before[table], err = Inventory(db, table)
		require.NoError(t, err)
	}

	reports, err := Reconcile(db, Shapes, reconcileTime.Add(time.Hour))
	require.NoError(t, err)
	for _, r := range reports {
		assert.Equal(t, OutcomeUnchanged, r.Outcome, r.Table)
		assert.Empty(t, r.Missing, r.Table)

		after, err := Inventory(db, r.Table)
		require.NoError(t, err)
		assert.Equal(t, before[r.Table], after, r.Table)
	}
}

func TestReconcileMigratesLegacyOpportunities(t *testing.T) {
	db := newTestDB(t)
	legacyStore(t, db)

	reports, err := Reconcile(db, Shapes, reconcileTime)
	require.NoError(t, err)

	byTable := map[string]TableReport{}
	for _, r := range reports {
		byTable[r.Table] = r
	}
	assert.Equal(t, OutcomeUnchanged, byTable["users"].Outcome)
	assert.Equal(t, OutcomeMigrated, byTable["contacts"].Outcome)
	assert.Equal(t, OutcomeMigrated, byTable["opportunities"].Outcome)
	assert.Contains(t, byTable["opportunities"].Missing, "stage")
	assert.Contains(t, byTable["opportunities"].Missing, "contact")
	assert.Equal(t, 2, byTable["opportunities"].Rows)
	assert.False(t, db.Migrator().HasTable("opportunities_new"))

	var opps []models.Opportunity
	require.NoError(t, db.Order("id").Find(&opps).Error)
	require.Len(t, opps, 2)

	assert.Equal(t, "Portfolio Review", opps[0].Title)
	assert.Equal(t, "John Smith", opps[0].Contact)
	assert.Equal(t, 75000.0, opps[0].Amount)
	assert.Equal(t, 50, opps[0].Probability)
	assert.Equal(t, models.StageProspecting, opps[0].Stage)
	assert.Equal(t, "2024-02-15", opps[0].CloseDate.String())
	assert.Equal(t, "ESG", opps[0].Notes)
	assert.Nil(t, opps[0].Reminder)
	assert.True(t, opps[0].CreatedAt.Equal(reconcileTime))

	assert.Equal(t, UnknownContact, opps[1].Contact)
	assert.Equal(t, 0.0, opps[1].Amount)
	assert.Equal(t, models.StageProspecting, opps[1].Stage)
	assert.False(t, opps[1].CloseDate.Valid)

	// ids survive, so new rows continue after them
	next := models.Opportunity{UserID: 1, Title: "Next", Contact: "Someone", Stage: models.StageProspecting}
	require.NoError(t, db.Create(&next).Error)
	assert.Equal(t, uint(3), next.ID)
}

func TestReconcileAddsContactColumnsInPlace(t *testing.T) {
	db := newTestDB(t)
	legacyStore(t, db)

	_, err := Reconcile(db, Shapes, reconcileTime)
	require.NoError(t, err)

	var contact models.Contact
	require.NoError(t, db.First(&contact, 1).Error)
	assert.Equal(t, "John Smith", contact.Name)
	assert.Equal(t, "Morgan Stanley", contact.Firm)
	assert.Empty(t, contact.CRDNumber)
	assert.True(t, contact.CreatedAt.Equal(reconcileTime))
	assert.True(t, contact.UpdatedAt.Equal(reconcileTime))
}

func TestReconcileFailureKeepsOriginalTable(t *testing.T) {
	db := newTestDB(t)
	legacyStore(t, db)
	// user 7 does not exist, so copying into the new table violates its foreign key
	exec(t, db, `INSERT INTO opportunities (id, user_id, title, contact_id) VALUES (3, 7, 'Bad Owner', 1)`)

	_, err := Reconcile(db, Shapes, reconcileTime)
	require.Error(t, err)

	assert.False(t, db.Migrator().HasTable("opportunities_new"))
	inventory, err := Inventory(db, "opportunities")
	require.NoError(t, err)
	assert.NotContains(t, inventory, "stage")
	assert.Contains(t, inventory, "contact_id")

	var count int64
	require.NoError(t, db.Table("opportunities").Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestMigrateRowFills(t *testing.T) {
	shape := Shape{
		Model: &models.Opportunity{},
		Fills: map[string]Fill{
			"stage":   Constant("prospecting"),
			"contact": ContactName(UnknownContact),
		},
	}
	env := &FillEnv{Now: reconcileTime, contactNames: map[int64]string{4: "Emily Davis"}}
	inventory := map[string]string{"id": "INTEGER", "title": "TEXT", "contact_id": "INTEGER"}

	row, err := MigrateRow(shape, []string{"id", "title", "contact", "stage", "salesperson"}, inventory,
		Row{"ID": int64(9), "title": "Wealth", "contact_id": []byte("4")}, env)
	require.NoError(t, err)
	assert.Equal(t, Row{
		"id":          int64(9),
		"title":       "Wealth",
		"contact":     "Emily Davis",
		"stage":       "prospecting",
		"salesperson": nil,
	}, row)
}

func TestMissingColumns(t *testing.T) {
	inventory := map[string]string{"id": "INTEGER", "title": "TEXT"}
	assert.Equal(t, []string{"stage"}, MissingColumns([]string{"id", "Title", "stage"}, inventory))
	assert.Empty(t, MissingColumns([]string{"id"}, inventory))
}

func tableOf(t *testing.T, db *gorm.DB, shape Shape) string {
	stmt := &gorm.Statement{DB: db}
	require.NoError(t, stmt.Parse(shape.Model))
	return stmt.Schema.Table
}
