package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/services"
	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/localnerve/bluefin-crm/internal/utils"
	"gorm.io/gorm"
)

// Session and context keys
const (
	SessionUserKey = "uid"
	LocalsUser     = "user"
)

// RequireUser guards pages: visitors without a session are sent to /login.
func RequireUser(store *session.Store, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, store, db, func(c *fiber.Ctx) error {
			return c.Redirect("/login")
		})
	}
}

// RequireAPIUser guards JSON routes: visitors without a session get a 401 envelope.
func RequireAPIUser(store *session.Store, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, store, db, func(c *fiber.Ctx) error {
			return utils.ErrorResponse(c, "Authentication required", fiber.StatusUnauthorized, "auth")
		})
	}
}

// LoadUser sets the current user when there is one, without requiring it.
func LoadUser(store *session.Store, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := sessionUser(c, store, db); err == nil && user != nil {
			c.Locals(LocalsUser, user)
		}
		return c.Next()
	}
}

// CurrentUser returns the user set by the guards, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(LocalsUser).(*models.User)
	return user
}

func authorize(c *fiber.Ctx, store *session.Store, db *gorm.DB, deny fiber.Handler) error {
	if CurrentUser(c) != nil {
		return c.Next()
	}
	user, err := sessionUser(c, store, db)
	if err != nil {
		return err
	}
	if user == nil {
		return deny(c)
	}
	c.Locals(LocalsUser, user)
	return c.Next()
}

// sessionUser resolves the session's user id. A session naming a user that no
// longer exists is destroyed.
func sessionUser(c *fiber.Ctx, store *session.Store, db *gorm.DB) (*models.User, error) {
	sess, err := store.Get(c)
	if err != nil {
		return nil, err
	}
	uid, ok := sess.Get(SessionUserKey).(uint)
	if !ok || uid == 0 {
		return nil, nil
	}
	user, err := services.GetUser(db, uid)
	if types.IsNotFound(err) {
		return nil, sess.Destroy()
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
