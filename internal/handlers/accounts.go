package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/services"
	"github.com/localnerve/bluefin-crm/internal/types"
	"github.com/localnerve/bluefin-crm/internal/utils"
)

// accountForm reads the registered account form. Blank numbers and dates are not
// supplied; the clear_* checkboxes null them out.
func accountForm(c *fiber.Ctx) (services.AccountInput, error) {
	in := services.AccountInput{
		AccountNumber:       formString(c, "account_number"),
		ClientName:          formString(c, "client_name"),
		Strategy:            formString(c, "strategy"),
		Status:              formString(c, "status"),
		ClearInceptionValue: formText(c, "clear_inception_value") != "",
		ClearFeePercent:     formText(c, "clear_fee_percent") != "",
		ClearOpenDate:       formText(c, "clear_open_date") != "",
	}
	var err error
	if in.InceptionValue, err = types.ParseOptionalFloat(formText(c, "inception_value")); err != nil {
		return in, err
	}
	if in.FeePercent, err = types.ParseOptionalFloat(formText(c, "fee_percent")); err != nil {
		return in, err
	}
	if in.OpenDate, err = types.ParseOptionalDate(formText(c, "open_date")); err != nil {
		return in, err
	}
	return in, nil
}

// AddRegisteredAccount opens an account from the contact card form.
func (a *App) AddRegisteredAccount(c *fiber.Ctx) error {
	contactID, err := parseID(formText(c, "contact_id"))
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}
	in, err := accountForm(c)
	if err != nil {
		return a.redirectWithError(c, err, cardURL(contactID))
	}
	if _, err := services.CreateAccount(a.DB, ownerID(c), contactID, in); err != nil {
		return a.redirectWithError(c, err, cardURL(contactID))
	}
	a.flash(c, FlashSuccess, "Registered account added successfully")
	return c.Redirect(cardURL(contactID))
}

// UpdateRegisteredAccount saves the account edit form.
func (a *App) UpdateRegisteredAccount(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.redirectWithError(c, err, "/contacts")
	}
	back := "/contacts"
	if contactID, err := parseID(formText(c, "contact_id")); err == nil {
		back = cardURL(contactID)
	}
	in, err := accountForm(c)
	if err != nil {
		return a.redirectWithError(c, err, back)
	}
	account, err := services.UpdateAccount(a.DB, ownerID(c), id, in)
	if err != nil {
		return a.redirectWithError(c, err, back)
	}
	a.flash(c, FlashSuccess, "Registered account updated successfully")
	return c.Redirect(cardURL(account.ContactID))
}

// GetRegisteredAccount handles GET /get_registered_account/:id
// @Summary Get a registered account
// @Tags Accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} models.RegisteredAccount
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /get_registered_account/{id} [get]
func (a *App) GetRegisteredAccount(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	account, err := services.GetAccount(a.DB, ownerID(c), id)
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, account, fiber.StatusOK)
}

// DeleteRegisteredAccount handles POST /delete_registered_account/:id
// @Summary Delete a registered account
// @Tags Accounts
// @Produce json
// @Param id path int true "Account ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /delete_registered_account/{id} [post]
func (a *App) DeleteRegisteredAccount(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	if err := services.DeleteAccount(a.DB, ownerID(c), id); err != nil {
		return a.fail(c, err)
	}
	return utils.MessageResponse(c, "Registered account deleted successfully", fiber.StatusOK)
}
