package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/localnerve/bluefin-crm/internal/database"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStore(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "crm.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = database.Reconcile(db, database.Shapes, time.Now())
	require.NoError(t, err)
	return db
}

func newUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "x", Name: email}
	require.NoError(t, db.Create(user).Error)
	return user
}

func str(s string) *string {
	return &s
}
