package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/services"
	"github.com/localnerve/bluefin-crm/internal/utils"
)

type stageBody struct {
	Stage *string `json:"stage"`
}

// StageResponse is returned after a stage move.
type StageResponse struct {
	Message string `json:"message"`
	Stage   string `json:"stage"`
}

// ListOpportunities handles GET /api/opportunities
// @Summary List opportunities
// @Description List the user's opportunities, newest first
// @Tags Opportunities
// @Produce json
// @Success 200 {array} models.Opportunity
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /api/opportunities [get]
func (a *App) ListOpportunities(c *fiber.Ctx) error {
	opps, err := services.ListOpportunities(a.DB, ownerID(c))
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, opps, fiber.StatusOK)
}

// GetOpportunity handles GET /api/opportunities/:id
// @Summary Get an opportunity
// @Tags Opportunities
// @Produce json
// @Param id path int true "Opportunity ID"
// @Success 200 {object} models.Opportunity
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /api/opportunities/{id} [get]
func (a *App) GetOpportunity(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	opp, err := services.GetOpportunity(a.DB, ownerID(c), id)
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, opp, fiber.StatusOK)
}

// CreateOpportunity handles POST /api/opportunities
// @Summary Create an opportunity
// @Description Title and contact are required. Amount defaults to 0, probability to 50 and stage to prospecting.
// @Tags Opportunities
// @Accept json
// @Produce json
// @Param opportunity body services.OpportunityInput true "Opportunity"
// @Success 201 {object} models.Opportunity
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /api/opportunities [post]
func (a *App) CreateOpportunity(c *fiber.Ctx) error {
	var in services.OpportunityInput
	if err := decodeJSON(c, &in); err != nil {
		return a.fail(c, err)
	}
	opp, err := services.CreateOpportunity(a.DB, ownerID(c), in)
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, opp, fiber.StatusCreated)
}

// UpdateOpportunity handles PUT /api/opportunities/:id
// @Summary Update an opportunity
// @Description Supplied fields are overwritten, the rest are kept
// @Tags Opportunities
// @Accept json
// @Produce json
// @Param id path int true "Opportunity ID"
// @Param opportunity body services.OpportunityInput true "Fields to change"
// @Success 200 {object} models.Opportunity
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /api/opportunities/{id} [put]
func (a *App) UpdateOpportunity(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	var in services.OpportunityInput
	if err := decodeJSON(c, &in); err != nil {
		return a.fail(c, err)
	}
	opp, err := services.UpdateOpportunity(a.DB, ownerID(c), id, in)
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, opp, fiber.StatusOK)
}

// UpdateOpportunityStage handles PUT /api/opportunities/:id/stage
// @Summary Move an opportunity to another stage
// @Tags Opportunities
// @Accept json
// @Produce json
// @Param id path int true "Opportunity ID"
// @Param stage body stageBody true "Target stage"
// @Success 200 {object} StageResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /api/opportunities/{id}/stage [put]
func (a *App) UpdateOpportunityStage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	var body stageBody
	if err := decodeJSON(c, &body); err != nil {
		return a.fail(c, err)
	}
	opp, err := services.UpdateOpportunityStage(a.DB, ownerID(c), id, body.Stage)
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, StageResponse{Message: "Stage updated successfully", Stage: opp.Stage}, fiber.StatusOK)
}

// ClearOpportunityReminder handles DELETE /api/opportunities/:id/reminder
// @Summary Clear an opportunity reminder
// @Tags Opportunities
// @Produce json
// @Param id path int true "Opportunity ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /api/opportunities/{id}/reminder [delete]
func (a *App) ClearOpportunityReminder(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	if err := services.ClearOpportunityReminder(a.DB, ownerID(c), id); err != nil {
		return a.fail(c, err)
	}
	return utils.MessageResponse(c, "Reminder deleted successfully", fiber.StatusOK)
}

// DeleteOpportunity handles DELETE /api/opportunities/:id
// @Summary Delete an opportunity
// @Tags Opportunities
// @Produce json
// @Param id path int true "Opportunity ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /api/opportunities/{id} [delete]
func (a *App) DeleteOpportunity(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return a.fail(c, err)
	}
	if err := services.DeleteOpportunity(a.DB, ownerID(c), id); err != nil {
		return a.fail(c, err)
	}
	return utils.MessageResponse(c, "Opportunity deleted successfully", fiber.StatusOK)
}
