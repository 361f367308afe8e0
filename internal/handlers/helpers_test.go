package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/bluefin-crm/internal/config"
	"github.com/localnerve/bluefin-crm/internal/database"
	"github.com/localnerve/bluefin-crm/internal/media"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/views"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

const testBodyLimit = 1 << 20

type harness struct {
	t      *testing.T
	app    *fiber.App
	crm    *App
	store  *media.LocalStore
	cookie string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	db, err := database.OpenSQLite(filepath.Join(dir, "crm.db"), "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	_, err = database.Reconcile(db, database.Shapes, testNow)
	require.NoError(t, err)

	store, err := media.NewLocalStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	log := zap.NewNop()
	crm := &App{
		DB:       db,
		Sessions: session.New(),
		Pictures: &media.ProfilePictures{Store: store, MaxBytes: 5 << 20, MaxDim: 300, Quality: 85, Log: log},
		Log:      log,
		Cfg:      &config.Config{DBType: "sqlite", MediaBackend: "local"},
		Now:      func() time.Time { return testNow },
	}
	app := fiber.New(fiber.Config{Views: views.New(), ErrorHandler: crm.ErrorHandler, BodyLimit: testBodyLimit})
	crm.Register(app)
	app.Use(NotFound)

	return &harness{t: t, app: app, crm: crm, store: store}
}

func (h *harness) do(req *http.Request) *http.Response {
	h.t.Helper()
	if h.cookie != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: h.cookie})
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	for _, c := range resp.Cookies() {
		if c.Name == "session_id" {
			h.cookie = c.Value
		}
	}
	return resp
}

func (h *harness) get(path string) *http.Response {
	return h.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (h *harness) form(path string, values url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

func (h *harness) json(method, path, body string) *http.Response {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return h.do(req)
}

// login signs up a user and starts a session for it.
func (h *harness) login(email, name string) *models.User {
	h.t.Helper()
	resp := h.form("/signup", url.Values{
		"name":             {name},
		"email":            {email},
		"password":         {"secret1"},
		"confirm_password": {"secret1"},
	})
	require.Equal(h.t, fiber.StatusFound, resp.StatusCode)
	require.Equal(h.t, "/login", resp.Header.Get("Location"))

	resp = h.form("/login", url.Values{"email": {email}, "password": {"secret1"}})
	require.Equal(h.t, fiber.StatusFound, resp.StatusCode)
	require.Equal(h.t, "/contacts", resp.Header.Get("Location"))

	var user models.User
	require.NoError(h.t, h.crm.DB.Where("email = ?", email).First(&user).Error)
	return &user
}

func (h *harness) logout() {
	h.get("/logout")
	h.cookie = ""
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
