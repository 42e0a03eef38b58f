package reports

import (
	"io"

	"github.com/phpdave11/gofpdf"
)

// WritePDF renders the same lines as WriteCSV on a single A4 page.
func WritePDF(w io.Writer, r *Report, siteName string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 15, tr("Relatório Financeiro"), "", 1, "C", false, 0, "")
	if siteName != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 8, tr(siteName), "", 1, "C", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFillColor(245, 245, 255)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(90, 10, "Campo", "1", 0, "L", true, 0, "")
	pdf.CellFormat(0, 10, "Valor", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 12)
	for _, l := range r.Lines() {
		pdf.CellFormat(90, 9, tr(l.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 9, tr(l.Value), "1", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
