// Package export renders a scan report to the supported output formats:
// an Excel workbook, a console table, or JSON.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/secinv/cpescan/model"
)

const inventorySheet = "CPE Inventory"

var inventoryHeader = []interface{}{
	"Category", "Name", "Vendor", "Product", "Version", "CPE String", "PURL",
}

// WriteExcel writes the report to an xlsx workbook at path. Detailed mode
// adds a per-category summary sheet alongside the inventory.
func WriteExcel(report *model.ScanReport, path string, detailed bool) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(inventorySheet, "A1", &inventoryHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(inventorySheet, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range report.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			rec.Category, rec.DisplayName, rec.Vendor, rec.Product,
			rec.Version, rec.CPEString, rec.Purl,
		}
		if err := f.SetSheetRow(inventorySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	// Readable column widths and a frozen header row
	_ = f.SetColWidth(inventorySheet, "A", "B", 32)
	_ = f.SetColWidth(inventorySheet, "C", "E", 18)
	_ = f.SetColWidth(inventorySheet, "F", "G", 52)
	_ = f.SetPanes(inventorySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	if detailed {
		if err := writeSummarySheet(f, report, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report *model.ScanReport, headerStyle int) error {
	const sheet = "Summary"

	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	info := [][]interface{}{
		{"Hostname", report.Hostname},
		{"Report ID", report.ReportID},
		{"Scan Time", report.ScanTime.Format("2006-01-02 15:04:05 MST")},
		{"Total Entries", len(report.Records)},
	}
	for i, row := range info {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	countsHeader := []interface{}{"Category", "Entries"}
	if err := f.SetSheetRow(sheet, "A6", &countsHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A6", "B6", headerStyle); err != nil {
		return err
	}

	// Count per category, preserving first-seen order
	var order []string
	counts := map[string]int{}
	for _, rec := range report.Records {
		if _, seen := counts[rec.Category]; !seen {
			order = append(order, rec.Category)
		}
		counts[rec.Category]++
	}

	for i, category := range order {
		cell, _ := excelize.CoordinatesToCellName(1, i+7)
		row := []interface{}{category, counts[category]}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 36)
	return nil
}
