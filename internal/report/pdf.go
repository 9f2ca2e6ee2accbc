package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"welux-admin/internal/domain"
)

// LeadsPDF writes a printable list of leads, one section per lead.
func LeadsPDF(w io.Writer, leads []domain.Lead, filter string, now time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Welux leads", false)
	pdf.SetAuthor("Welux Events", false)
	pdf.SetCreationDate(now)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Event inquiries")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if filter == "" {
		filter = domain.FilterAll
	}
	pdf.Cell(0, 6, fmt.Sprintf("Filter: %s    Leads: %d    Exported: %s",
		filter, len(leads), now.UTC().Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	if len(leads) == 0 {
		pdf.MultiCell(0, 6, "No leads match this filter.", "", "L", false)
	}
	for _, l := range leads {
		writeLead(pdf, tr, l)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func writeLead(pdf *fpdf.Fpdf, tr func(string) string, l domain.Lead) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s (%s)", l.FullName, strings.ToUpper(l.Status))))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	lines := []string{"Email: " + l.Email}
	if l.Phone != "" {
		lines = append(lines, "Phone: "+l.Phone)
	}
	event := l.EventType
	if l.EventDate != "" {
		event += " on " + l.EventDate
	}
	if l.GuestCount > 0 {
		event += fmt.Sprintf(", %d guests", l.GuestCount)
	}
	if event != "" {
		lines = append(lines, "Event: "+event)
	}
	if l.CreatedAt != "" {
		lines = append(lines, "Received: "+l.CreatedAt)
	}
	for _, line := range lines {
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}
	if msg := strings.TrimSpace(l.Message); msg != "" {
		pdf.Ln(1)
		pdf.MultiCell(0, 5, tr(msg), "", "L", false)
	}
	pdf.Ln(5)
}
