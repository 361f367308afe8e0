//go:build integration

package database_test

import (
	"testing"
	"time"

	"github.com/localnerve/bluefin-crm/data"
	"github.com/localnerve/bluefin-crm/internal/config"
	"github.com/localnerve/bluefin-crm/internal/database"
	"github.com/localnerve/bluefin-crm/internal/services"
	"github.com/localnerve/bluefin-crm/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestServerDatabase reconciles, seeds and queries a containerized server database.
func TestServerDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	opts := testdb.OptionsFromEnv()
	opts.WithRedis = false
	containers, err := testdb.Start(t, opts)
	require.NoError(t, err)
	t.Cleanup(func() { containers.Terminate(t) })

	for k, v := range containers.Env {
		t.Setenv(k, v)
	}
	t.Setenv("ENV_FILE", t.TempDir()+"/absent.env")
	cfg, err := config.Load()
	require.NoError(t, err)

	db, err := database.Connect(cfg, zap.NewNop())
	require.NoError(t, err)
	defer database.Close(db)

	reports, err := database.Reconcile(db, database.Shapes, time.Now())
	require.NoError(t, err)
	for _, r := range reports {
		assert.Equal(t, database.OutcomeCreated, r.Outcome, r.Table)
	}
	reports, err = database.Reconcile(db, database.Shapes, time.Now())
	require.NoError(t, err)
	for _, r := range reports {
		assert.Equal(t, database.OutcomeUnchanged, r.Outcome, r.Table)
	}

	fixtures, err := database.ParseFixtures(data.SampleData)
	require.NoError(t, err)
	seeded, err := database.Seed(db, fixtures)
	require.NoError(t, err)
	assert.Equal(t, 8, seeded.Opportunities)

	user, err := services.Authenticate(db, "demo@bluefin.com", "demo123")
	require.NoError(t, err)
	assert.Equal(t, seeded.UserID, user.ID)

	result, err := services.GetAnalytics(db, user.ID, services.AnalyticsFilter{StartDate: "2024-01-01", EndDate: "2024-12-31"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), result.TotalContacts)
	assert.NotZero(t, result.TotalOpportunities)

	cal, err := services.Calendar(db, user.ID, 2024, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, cal.RemindersByDate)
}
