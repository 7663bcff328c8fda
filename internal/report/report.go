// Package report renders the dashboard as a one-page PDF summary.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"healthportal/m/domain"
)

// Render writes the summary for profile to w.
func Render(w io.Writer, profile domain.Profile, stats domain.Stats, items []domain.ActivityItem, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Health summary", false)
	pdf.SetCreationDate(generated)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Health summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	name := profile.FullName
	if name == "" {
		name = profile.Email
	}
	pdf.CellFormat(0, 6, name, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+generated.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Overview", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range []struct {
		label string
		value int
	}{
		{"Symptom checks", stats.SymptomChecks},
		{"Appointments", stats.Appointments},
		{"Orders", stats.Orders},
		{"Health records", stats.HealthRecords},
	} {
		pdf.CellFormat(60, 7, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, strconv.Itoa(row.value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Recent activity", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if len(items) == 0 {
		pdf.CellFormat(0, 6, "No activity yet.", "", 1, "L", false, 0, "")
	}
	for _, item := range items {
		line := fmt.Sprintf("%s  %s: %s", item.Date.Format("2006-01-02"), item.Title, item.Description)
		switch {
		case item.Severity != "":
			line += " (" + string(item.Severity) + ")"
		case item.Status != "":
			line += " (" + item.Status + ")"
		}
		pdf.MultiCell(0, 6, line, "", "L", false)
	}

	return pdf.Output(w)
}
