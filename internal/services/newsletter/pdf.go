package services

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// RenderPDF формирует печатную версию дайджеста для архива ассоциации.
func (s *NewsletterService) RenderPDF(digest *Digest) ([]byte, error) {
	const op = "services.newsletter.RenderPDF"

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, tr(digest.Subject), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if len(digest.Links) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, tr("À ne pas manquer"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, l := range digest.Links {
			pdf.CellFormat(0, 6, tr("- "+l.Title), "", 1, "L", false, 0, l.URL)
		}
		pdf.Ln(4)
	}

	if len(digest.Events) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, tr("Événements à venir"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, e := range digest.Events {
			line := fmt.Sprintf("- %s, %s, %s", e.Title, e.EventDate.Format("02/01/2006"), e.Location)
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
		}
		pdf.Ln(4)
	}

	if len(digest.Articles) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, tr("La vie de l'association"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for _, a := range digest.Articles {
			pdf.MultiCell(0, 6, tr(fmt.Sprintf("- %s (%s)", a.Title, a.AuthorName)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
