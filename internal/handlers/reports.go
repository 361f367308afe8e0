package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/bluefin-crm/internal/services"
	"github.com/localnerve/bluefin-crm/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func analyticsFilter(c *fiber.Ctx) services.AnalyticsFilter {
	return services.AnalyticsFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}
}

// AnalyticsPage shows the stage and firm breakdowns.
func (a *App) AnalyticsPage(c *fiber.Ctx) error {
	result, err := services.GetAnalytics(a.DB, ownerID(c), analyticsFilter(c))
	if err != nil {
		return a.redirectWithError(c, err, "/analytics")
	}
	return a.render(c, "analytics", "Analytics & Reports", fiber.Map{"Analytics": result})
}

// Analytics handles GET /api/analytics
// @Summary Pipeline analytics
// @Description Opportunities by stage, optionally bounded by close date, and contacts by firm
// @Tags Analytics
// @Produce json
// @Param start_date query string false "Earliest close date, YYYY-MM-DD"
// @Param end_date query string false "Latest close date, YYYY-MM-DD"
// @Success 200 {object} services.Analytics
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /api/analytics [get]
func (a *App) Analytics(c *fiber.Ctx) error {
	result, err := services.GetAnalytics(a.DB, ownerID(c), analyticsFilter(c))
	if err != nil {
		return a.fail(c, err)
	}
	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

// Spreadsheet shows every contact in a table.
func (a *App) Spreadsheet(c *fiber.Ctx) error {
	rows, err := services.SpreadsheetRows(a.DB, ownerID(c))
	if err != nil {
		return err
	}
	return a.render(c, "spreadsheet", "Spreadsheet", fiber.Map{
		"Header": services.SpreadsheetHeader,
		"Rows":   rows,
	})
}

// SpreadsheetExport downloads the spreadsheet as xlsx.
func (a *App) SpreadsheetExport(c *fiber.Ctx) error {
	body, err := services.ExportSpreadsheet(a.DB, ownerID(c))
	if err != nil {
		return a.redirectWithError(c, err, "/spreadsheet")
	}
	name := fmt.Sprintf("contacts-%s.xlsx", a.now().Format("20060102"))
	c.Attachment(name)
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(body)
}
