package handlers

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/localnerve/bluefin-crm/internal/config"
	"github.com/localnerve/bluefin-crm/internal/media"
	"github.com/localnerve/bluefin-crm/internal/middleware"
	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/localnerve/bluefin-crm/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const uploadPath = "/upload_profile_picture"

// App is the application context shared by every handler.
type App struct {
	DB       *gorm.DB
	Sessions *session.Store
	Pictures *media.ProfilePictures
	Log      *zap.Logger
	Cfg      *config.Config
	Now      func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Register mounts every page and JSON route.
func (a *App) Register(r fiber.Router) {
	pages := middleware.RequireUser(a.Sessions, a.DB)
	api := middleware.RequireAPIUser(a.Sessions, a.DB)

	r.Get("/healthz", a.Health)
	r.Get("/", middleware.LoadUser(a.Sessions, a.DB), a.Home)
	r.Get("/login", a.LoginPage)
	r.Post("/login", a.Login)
	r.Get("/signup", a.SignupPage)
	r.Post("/signup", a.Signup)
	r.Get("/logout", a.Logout)

	r.Get("/contacts", pages, a.Contacts)
	r.Get("/contact_card", pages, a.ContactCard)
	r.Post("/add_contact", pages, a.AddContact)
	r.Post("/update_contact", pages, a.UpdateContact)
	r.Post("/add_contact_note", pages, a.AddContactNote)
	r.Post("/add_registered_account", pages, a.AddRegisteredAccount)
	r.Post("/update_registered_account/:id", pages, a.UpdateRegisteredAccount)
	r.Post(uploadPath, pages, a.UploadProfilePicture)
	r.Get("/spreadsheet", pages, a.Spreadsheet)
	r.Get("/spreadsheet/export", pages, a.SpreadsheetExport)
	r.Get("/analytics", pages, a.AnalyticsPage)
	r.Get("/analytics&reports", pages, a.AnalyticsPage)
	r.Get("/calendar", pages, a.CalendarPage)
	r.Get("/opportunities", pages, a.OpportunitiesPage)
	r.Post("/opportunities", pages, a.PostNote)
	r.Get("/seminars", pages, a.Seminars)
	r.Get("/upload", pages, a.Upload)

	// JSON endpoints reached from page scripts
	r.Post("/delete_contact/:id", api, a.DeleteContact)
	r.Post("/delete_contact_note/:id", api, a.DeleteContactNote)
	r.Get("/get_registered_account/:id", api, a.GetRegisteredAccount)
	r.Post("/delete_registered_account/:id", api, a.DeleteRegisteredAccount)

	g := r.Group("/api", api)
	g.Get("/opportunities", a.ListOpportunities)
	g.Post("/opportunities", a.CreateOpportunity)
	g.Get("/opportunities/:id", a.GetOpportunity)
	g.Put("/opportunities/:id", a.UpdateOpportunity)
	g.Delete("/opportunities/:id", a.DeleteOpportunity)
	g.Put("/opportunities/:id/stage", a.UpdateOpportunityStage)
	g.Delete("/opportunities/:id/reminder", a.ClearOpportunityReminder)
	g.Get("/calendar_notes", a.ListCalendarNotes)
	g.Post("/calendar_notes", a.CreateCalendarNote)
	g.Put("/calendar_notes/:id", a.UpdateCalendarNote)
	g.Delete("/calendar_notes/:id", a.DeleteCalendarNote)
	g.Put("/contact_notes/:id", a.UpdateContactNote)
	g.Get("/analytics", a.Analytics)
}

// NotFound is the catch-all for unknown routes.
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}

// ErrorHandler handles errors that escape the handlers, including bodies the
// server rejected before routing.
func (a *App) ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code == fiber.StatusRequestEntityTooLarge && c.Path() == uploadPath {
			return a.redirectWithError(c, media.ErrFileTooLarge, refererPath(c, "/contacts"))
		}
	} else if types.AsCustomError(err).Type == types.TypeUnexpected {
		a.Log.Error("unhandled error", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
	}
	return utils.FromError(c, err)
}

// refererPath keeps only the path and query of the Referer so the redirect stays on this site.
func refererPath(c *fiber.Ctx, fallback string) string {
	u, err := url.Parse(c.Get(fiber.HeaderReferer))
	if err != nil || u.Path == "" || u.Path[0] != '/' {
		return fallback
	}
	return u.RequestURI()
}
