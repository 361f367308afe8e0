// contacts.go
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
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/media"
	"github.com/localnerve/bluefin-crm/internal/services"
	"github.com/localnerve/bluefin-crm/internal/utils"
	"go.uber.org/zap"
)

var accountBuckets = []string{
	services.AccountsNone,
	services.AccountsFew,
	services.AccountsSeveral,
	services.AccountsMoreThan,
}

func cardURL(id uint) string {
	return fmt.Sprintf("/contact_card?id=%d", id)
}

func contactForm(c *fiber.Ctx) services.ContactInput {
	return services.ContactInput{
		Name:      formString(c, "name"),
		Email:     formString(c, "email"),
		Phone:     formString(c, "phone"),
		Firm:      formString(c, "firm"),
		Address:   formString(c, "address"),
		CRDNumber: formString(c, "crd_number"),
		Title:     formString(c, "title"),
	}
}

// Contacts lists the user's contacts with the firm, accounts and created filters.
func (a *App) Contacts(c *fiber.Ctx) error {
	filter := services.ContactFilter{
		Firm:      c.Query("firm"),
		Accounts:  c.Query("accounts"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
	owner := ownerID(c)

	contacts, err := services.ListContacts(a.DB, owner, filter)
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}
	firms, err := services.Firms(a.DB, owner)
	if err != nil {
		return err
	}
	return a.render(c, "contacts", "Contacts", fiber.Map{
		"Contacts": contacts,
		"Firms":    firms,
		"Buckets":  accountBuckets,
		"Filter":   filter,
	})
}

// ContactCard shows one contact with its notes and accounts.
func (a *App) ContactCard(c *fiber.Ctx) error {
	id, err := parseID(c.Query("id"))
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}
	card, err := services.GetContactCard(a.DB, ownerID(c), id)
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}
	return a.render(c, "contact_card", card.Contact.Name, fiber.Map{"Card": card})
}

// AddContact creates a contact from the add form.
func (a *App) AddContact(c *fiber.Ctx) error {
	contact, err := services.CreateContact(a.DB, ownerID(c), contactForm(c))
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}
	a.flash(c, FlashSuccess, "Contact added successfully")
	return c.Redirect(cardURL(contact.ID))
}

// UpdateContact saves the edit form of a contact card.
func (a *App) UpdateContact(c *fiber.Ctx) error {
	id, err := parseID(formText(c, "contact_id"))
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}
	if _, err := services.UpdateContact(a.DB, ownerID(c), id, contactForm(c)); err != nil {
		return a.redirectWithError(c, err, cardURL(id))
	}
	a.flash(c, FlashSuccess, "Contact updated successfully")
	return c.Redirect(cardURL(id))
}

// DeleteContact handles POST /delete_contact/:id
// @Summary Delete a contact
// @Description Delete a contact with its notes and registered accounts
// @Tags Contacts
// @Produce json
// @Param id path int true "Contact ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /delete_contact/{id} [post]
func (a *App) DeleteContact(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	contact, err := services.DeleteContact(a.DB, ownerID(c), id)
	if err != nil {
		return a.fail(c, err)
	}
	a.Pictures.Release(c.UserContext(), contact.ProfilePicture)
	return utils.MessageResponse(c, "Contact deleted successfully", fiber.StatusOK)
}

// AddContactNote attaches a note from the contact card form.
func (a *App) AddContactNote(c *fiber.Ctx) error {
	id, err := parseID(formText(c, "contact_id"))
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}
	if _, err := services.CreateContactNote(a.DB, ownerID(c), id, formString(c, "content")); err != nil {
		return a.redirectWithError(c, err, cardURL(id))
	}
	a.flash(c, FlashSuccess, "Note added successfully")
	return c.Redirect(cardURL(id))
}

type contactNoteBody struct {
	Content *string `json:"content"`
}

// UpdateContactNote handles PUT /api/contact_notes/:id
// @Summary Edit a contact note
// @Tags Contacts
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param note body contactNoteBody true "New content"
// @Success 200 {object} models.ContactNote
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /api/contact_notes/{id} [put]
func (a *App) UpdateContactNote(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	var body contactNoteBody
	if err := decodeJSON(c, &body); err != nil {
		return a.fail(c, err)
	}
	note, err := services.UpdateContactNote(a.DB, ownerID(c), id, body.Content)
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, note, fiber.StatusOK)
}

// DeleteContactNote handles POST /delete_contact_note/:id
// @Summary Delete a contact note
// @Tags Contacts
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /delete_contact_note/{id} [post]
func (a *App) DeleteContactNote(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	if err := services.DeleteContactNote(a.DB, ownerID(c), id); err != nil {
		return a.fail(c, err)
	}
	return utils.MessageResponse(c, "Note deleted successfully", fiber.StatusOK)
}

// UploadProfilePicture replaces a contact's picture from the multipart form.
func (a *App) UploadProfilePicture(c *fiber.Ctx) error {
	id, err := parseID(formText(c, "contact_id"))
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}

	up := media.Upload{}
	if fh, err := c.FormFile("profile_picture"); err == nil {
		file, err := fh.Open()
		if err != nil {
			return a.redirectWithError(c, err, cardURL(id))
		}
		defer file.Close()
		up = media.Upload{Filename: fh.Filename, Size: fh.Size, Body: file}
	}

	reference, err := a.Pictures.Replace(c.UserContext(), a.DB, ownerID(c), id, up)
	if err != nil {
		return a.redirectWithError(c, err, cardURL(id))
	}
	a.Log.Debug("profile picture stored", zap.Uint("contact_id", id), zap.String("reference", reference))
	a.flash(c, FlashSuccess, "Profile picture updated")
	return c.Redirect(cardURL(id))
}
