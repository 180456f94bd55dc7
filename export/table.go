package export

import (
	"encoding/json"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/secinv/cpescan/model"
)

// WriteTable renders the report as a borderless console table.
func WriteTable(w io.Writer, report *model.ScanReport) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"CATEGORY", "NAME", "VENDOR", "VERSION", "CPE"})

	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	for _, rec := range report.Records {
		table.Append([]string{rec.Category, rec.DisplayName, rec.Vendor, rec.Version, rec.CPEString})
	}

	table.Render()
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report *model.ScanReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
