// common.go
//
// Bluefin CRM: contacts, opportunities, calendar and accounts for a single advisor
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of bluefin-crm.
// bluefin-crm is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// bluefin-crm is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with bluefin-crm.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/middleware"
	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/localnerve/bluefin-crm/internal/utils"
	"go.uber.org/zap"
)

const flashKey = "flashes"

// Flash categories
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next page.
type Flash struct {
	Category string
	Message  string
}

// formString returns a submitted form field, or nil when the field was not sent at all.
func formString(c *fiber.Ctx, key string) *string {
	if form, err := c.MultipartForm(); err == nil {
		values, ok := form.Value[key]
		if !ok || len(values) == 0 {
			return nil
		}
		return &values[0]
	}
	args := c.Context().PostArgs()
	if !args.Has(key) {
		return nil
	}
	value := string(args.Peek(key))
	return &value
}

// formText is formString without the presence distinction.
func formText(c *fiber.Ctx, key string) string {
	if v := formString(c, key); v != nil {
		return *v
	}
	return ""
}

// parseID reads a positive integer id from text.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, types.Validation("Invalid id")
	}
	return uint(id), nil
}

// paramID reads the :id route parameter.
func paramID(c *fiber.Ctx) (uint, error) {
	return parseID(c.Params("id"))
}

// decodeJSON reads a JSON body into out. An empty body decodes as {}.
func decodeJSON(c *fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		if types.IsValidation(err) {
			return err
		}
		return types.ErrInvalidInput
	}
	return nil
}

// ownerID is the id of the signed in user. Guarded routes always have one.
func ownerID(c *fiber.Ctx) uint {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

// fail writes the JSON error envelope, logging errors the client did not cause.
func (a *App) fail(c *fiber.Ctx, err error) error {
	ce := types.AsCustomError(err)
	if ce.Type == types.TypeUnexpected {
		a.Log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return utils.FromError(c, err)
}

// flash queues a message for the next rendered page.
func (a *App) flash(c *fiber.Ctx, category, message string) {
	sess, err := a.Sessions.Get(c)
	if err != nil {
		a.Log.Warn("failed to load session for flash", zap.Error(err))
		return
	}
	queued, _ := sess.Get(flashKey).([]string)
	sess.Set(flashKey, append(queued, category+"\x00"+message))
	if err := sess.Save(); err != nil {
		a.Log.Warn("failed to save flash", zap.Error(err))
	}
}

// takeFlashes pops every queued message.
func (a *App) takeFlashes(c *fiber.Ctx) []Flash {
	sess, err := a.Sessions.Get(c)
	if err != nil {
		return nil
	}
	queued, _ := sess.Get(flashKey).([]string)
	if len(queued) == 0 {
		return nil
	}
	sess.Delete(flashKey)
	if err := sess.Save(); err != nil {
		a.Log.Warn("failed to clear flashes", zap.Error(err))
	}
	flashes := make([]Flash, 0, len(queued))
	for _, q := range queued {
		category, message, _ := strings.Cut(q, "\x00")
		flashes = append(flashes, Flash{Category: category, Message: message})
	}
	return flashes
}

// redirectWithError flashes err and redirects. Unexpected errors are logged and shown generically.
func (a *App) redirectWithError(c *fiber.Ctx, err error, location string) error {
	ce := types.AsCustomError(err)
	if ce.Type == types.TypeUnexpected {
		a.Log.Error("form failed", zap.String("path", c.Path()), zap.Error(err))
	}
	a.flash(c, FlashError, ce.Message)
	return c.Redirect(location)
}

// render executes a page with the common layout bindings.
func (a *App) render(c *fiber.Ctx, page, title string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Title"] = title
	data["User"] = middleware.CurrentUser(c)
	data["Flashes"] = a.takeFlashes(c)
	return c.Render(page, data)
}
