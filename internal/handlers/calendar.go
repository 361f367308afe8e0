package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/services"
	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/localnerve/bluefin-crm/internal/utils"
)

// CalendarPage shows a month. Missing or unreadable year and month fall back to today.
func (a *App) CalendarPage(c *fiber.Ctx) error {
	now := a.now()
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		year = now.Year()
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		month = int(now.Month())
	}
	cal, err := services.Calendar(a.DB, ownerID(c), year, month)
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}
	return a.render(c, "calendar", "Calendar", fiber.Map{"Calendar": cal})
}

// ListCalendarNotes handles GET /api/calendar_notes
// @Summary List calendar notes
// @Description Notes dated from start through end inclusive. Either bound defaults to the current month.
// @Tags Calendar
// @Produce json
// @Param start query string false "First day, YYYY-MM-DD"
// @Param end query string false "Last day, YYYY-MM-DD"
// @Success 200 {array} models.CalendarNote
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /api/calendar_notes [get]
func (a *App) ListCalendarNotes(c *fiber.Ctx) error {
	now := a.now()
	month := services.NormalizeMonth(now.Year(), int(now.Month())).First()
	from, to := month, month.AddDate(0, 1, 0)

	start, err := types.ParseOptionalDate(c.Query("start"))
	if err != nil {
		return a.fail(c, err)
	}
	if start.Set {
		from = start.Value
	}
	end, err := types.ParseOptionalDate(c.Query("end"))
	if err != nil {
		return a.fail(c, err)
	}
	if end.Set {
		to = end.Value.AddDate(0, 0, 1)
	}

	notes, err := services.ListCalendarNotes(a.DB, ownerID(c), from, to)
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, notes, fiber.StatusOK)
}

// CreateCalendarNote handles POST /api/calendar_notes
// @Summary Add a calendar note
// @Tags Calendar
// @Accept json
// @Produce json
// @Param note body services.CalendarNoteInput true "Date and content"
// @Success 201 {object} models.CalendarNote
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /api/calendar_notes [post]
func (a *App) CreateCalendarNote(c *fiber.Ctx) error {
	var in services.CalendarNoteInput
	if err := decodeJSON(c, &in); err != nil {
		return a.fail(c, err)
	}
	note, err := services.CreateCalendarNote(a.DB, ownerID(c), in)
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, note, fiber.StatusCreated)
}

// UpdateCalendarNote handles PUT /api/calendar_notes/:id
// @Summary Edit a calendar note
// @Tags Calendar
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param note body services.CalendarNoteInput true "Fields to change"
// @Success 200 {object} models.CalendarNote
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /api/calendar_notes/{id} [put]
func (a *App) UpdateCalendarNote(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	var in services.CalendarNoteInput
	if err := decodeJSON(c, &in); err != nil {
		return a.fail(c, err)
	}
	note, err := services.UpdateCalendarNote(a.DB, ownerID(c), id, in)
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, note, fiber.StatusOK)
}

// DeleteCalendarNote handles DELETE /api/calendar_notes/:id
// @Summary Delete a calendar note
// @Tags Calendar
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /api/calendar_notes/{id} [delete]
func (a *App) DeleteCalendarNote(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	if err := services.DeleteCalendarNote(a.DB, ownerID(c), id); err != nil {
		return a.fail(c, err)
	}
	return utils.MessageResponse(c, "Note deleted successfully", fiber.StatusOK)
}
