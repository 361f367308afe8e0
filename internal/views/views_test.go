package views

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineRendersPageInLayout(t *testing.T) {
	e := New()
	require.NoError(t, e.Load())

	var buf bytes.Buffer
	err := e.Render(&buf, "seminars", map[string]interface{}{
		"Title":   "Seminars",
		"User":    &models.User{Name: "Ann"},
		"Flashes": []map[string]string{{"Category": "success", "Message": "Saved <ok>"}},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "<title>Seminars · Bluefin CRM</title>")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "Saved &lt;ok&gt;")
	assert.Contains(t, out, "<h1>Seminars</h1>")

	assert.Error(t, e.Render(&buf, "missing", nil))
}

func TestEveryPageParses(t *testing.T) {
	e := New()
	require.NoError(t, e.Load())
	for _, name := range []string{"home", "login", "signup", "contacts", "contact_card", "spreadsheet", "analytics", "calendar", "opportunities", "seminars", "upload"} {
		assert.Contains(t, e.pages, name)
	}
}

func TestStaticAssets(t *testing.T) {
	for _, name := range []string{"css/app.css", "js/app.js"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "$1,234,567", Money(1234567.4))
	assert.Equal(t, "$950", Money(950.0))
	assert.Equal(t, "-$1,000", Money(-1000.0))
	assert.Equal(t, "", Money((*float64)(nil)))
	assert.Equal(t, "$12", Money(int64(12)))

	day := models.NewDate(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-02-15", Day(day))
	assert.Equal(t, "", Day(models.Date{}))
	assert.Equal(t, "", Day((*time.Time)(nil)))
	reminder := time.Date(2024, 2, 20, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-20 10:00", Stamp(&reminder))

	num := Funcs()["num"].(func(*float64) string)
	amount := 250000.5
	assert.Equal(t, "250000.5", num(&amount))
	assert.Equal(t, "", num(nil))

	assert.Equal(t, "Closed Won", StageTitle("closed-won"))
	assert.Equal(t, "Prospecting", StageTitle("prospecting"))
}
