package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// SpreadsheetSheet names the exported worksheet.
const SpreadsheetSheet = "Contacts"

// SpreadsheetHeader is the column order of the spreadsheet page and its export.
var SpreadsheetHeader = []string{
	"Name",
	"Email",
	"Phone",
	"Firm",
	"Title",
	"CRD Number",
	"Address",
	"Accounts",
	"Created",
}

var spreadsheetWidths = []float64{24, 30, 16, 24, 20, 14, 36, 10, 12}

// SpreadsheetRows returns every contact of the owner, by name.
func SpreadsheetRows(db *gorm.DB, ownerID uint) ([]ContactSummary, error) {
	return ListContacts(db, ownerID, ContactFilter{})
}

// ExportSpreadsheet renders the owner's contacts as an xlsx workbook.
func ExportSpreadsheet(db *gorm.DB, ownerID uint) ([]byte, error) {
	rows, err := SpreadsheetRows(db, ownerID)
	if err != nil {
		return nil, err
	}
	return buildWorkbook(rows)
}

func buildWorkbook(rows []ContactSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SpreadsheetSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(SpreadsheetHeader))
	for i, h := range SpreadsheetHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SpreadsheetSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(SpreadsheetHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SpreadsheetSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for col, width := range spreadsheetWidths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SpreadsheetSheet, name, name, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{
			r.Name,
			r.Email,
			r.Phone,
			r.Firm,
			r.Title,
			r.CRDNumber,
			r.Address,
			r.AccountCount,
			r.CreatedAt.Format("2006-01-02"),
		}
		if err := f.SetSheetRow(SpreadsheetSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
