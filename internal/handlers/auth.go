package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/middleware"
	"github.com/localnerve/bluefin-crm/internal/models"
	"github.com/localnerve/bluefin-crm/internal/services"
	"go.uber.org/zap"
)

// LoginPage shows the login form.
func (a *App) LoginPage(c *fiber.Ctx) error {
	return a.render(c, "login", "Log in", nil)
}

// Login checks credentials and starts a session.
func (a *App) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(formText(c, "email"))
	password := formText(c, "password")
	if email == "" || password == "" {
		a.flash(c, FlashError, "Email and password are required")
		return c.Redirect("/login")
	}

	user, err := services.Authenticate(a.DB, email, password)
	if err != nil {
		return a.redirectWithError(c, err, "/login")
	}
	if err := a.startSession(c, user); err != nil {
		return a.redirectWithError(c, err, "/login")
	}
	a.Log.Info("user logged in", zap.Uint("user", user.ID))
	return c.Redirect("/contacts")
}

// SignupPage shows the signup form.
func (a *App) SignupPage(c *fiber.Ctx) error {
	return a.render(c, "signup", "Sign up", nil)
}

// Signup registers a user and sends them to log in.
func (a *App) Signup(c *fiber.Ctx) error {
	in := services.SignupInput{
		Name:            formText(c, "name"),
		Email:           formText(c, "email"),
		Password:        formText(c, "password"),
		ConfirmPassword: formText(c, "confirm_password"),
	}
	user, err := services.Signup(a.DB, in)
	if err != nil {
		return a.redirectWithError(c, err, "/signup")
	}
	a.Log.Info("user signed up", zap.Uint("user", user.ID))
	a.flash(c, FlashSuccess, "Account created. Please log in.")
	return c.Redirect("/login")
}

// Logout ends the session.
func (a *App) Logout(c *fiber.Ctx) error {
	sess, err := a.Sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return c.Redirect("/login")
}

func (a *App) startSession(c *fiber.Ctx, user *models.User) error {
	sess, err := a.Sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(middleware.SessionUserKey, user.ID)
	return sess.Save()
}
