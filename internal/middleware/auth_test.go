package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/bluefin-crm/internal/database"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "crm.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	_, err = database.Reconcile(db, database.Shapes, time.Now())
	require.NoError(t, err)

	store := session.New()
	app := fiber.New()
	app.Get("/login-as/:id", func(c *fiber.Ctx) error {
		id, _ := c.ParamsInt("id")
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		sess.Set(SessionUserKey, uint(id))
		return sess.Save()
	})
	app.Get("/page", RequireUser(store, db), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Name)
	})
	app.Get("/api/thing", RequireAPIUser(store, db), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": CurrentUser(c).Email})
	})
	return app, db
}

func TestGuardsWithoutSession(t *testing.T) {
	app, _ := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/page", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, err = app.Test(httptest.NewRequest("GET", "/api/thing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Authentication required", body["error"])
}

func TestGuardsWithSession(t *testing.T) {
	app, db := newApp(t)
	user := &models.User{Email: "ann@example.com", Password: "x", Name: "Ann"}
	require.NoError(t, db.Create(user).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/login-as/1", nil))
	require.NoError(t, err)
	cookie := resp.Header.Get("Set-Cookie")
	require.NotEmpty(t, cookie)

	req := httptest.NewRequest("GET", "/page", nil)
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "Ann", string(body))

	req = httptest.NewRequest("GET", "/api/thing", nil)
	req.Header.Set("Cookie", cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSessionForDeletedUserIsDropped(t *testing.T) {
	app, _ := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/login-as/42", nil))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/thing", nil)
	req.Header.Set("Cookie", resp.Header.Get("Set-Cookie"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
