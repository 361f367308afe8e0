package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/middleware"
	"github.com/localnerve/bluefin-crm/internal/services"
)

// Home is the landing page.
func (a *App) Home(c *fiber.Ctx) error {
	return a.render(c, "home", "Bluefin CRM", nil)
}

// Seminars is a static page.
func (a *App) Seminars(c *fiber.Ctx) error {
	return a.render(c, "seminars", "Seminars", nil)
}

// Upload explains where profile pictures are uploaded.
func (a *App) Upload(c *fiber.Ctx) error {
	return a.render(c, "upload", "Upload", fiber.Map{
		"MaxUploadMB": a.Pictures.MaxBytes >> 20,
	})
}

// OpportunitiesPage shows the pipeline board and the shared scratchpad.
func (a *App) OpportunitiesPage(c *fiber.Ctx) error {
	owner := ownerID(c)
	opps, err := services.ListOpportunities(a.DB, owner)
	if err != nil {
		return err
	}
	contacts, err := services.ListContacts(a.DB, owner, services.ContactFilter{})
	if err != nil {
		return err
	}
	names := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		names = append(names, contact.Name)
	}
	notes, err := services.ListNotes(a.DB)
	if err != nil {
		return err
	}
	return a.render(c, "opportunities", "Opportunities", fiber.Map{
		"Opportunities": opps,
		"ContactNames":  names,
		"Notes":         notes,
	})
}

// PostNote adds to the scratchpad under the user's name.
func (a *App) PostNote(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if _, err := services.CreateNote(a.DB, user.Name, formString(c, "content"), a.now()); err != nil {
		return a.redirectWithError(c, err, "/opportunities")
	}
	a.flash(c, FlashSuccess, "Note added")
	return c.Redirect("/opportunities")
}
