package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

const pdfTitle = "Health Analytics Report"

// Lab sources use the Greek mu in units; the cp1252 core fonts only carry the
// micro sign.
var pdfUnitReplacer = strings.NewReplacer("μ", "µ")

// PDFRenderer produces the primary paginated report document.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (r *PDFRenderer) Render(result *domain.ReportResult) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(pdfTitle, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(pdfUnitReplacer.Replace(s)) }

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, pdfTitle, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, text(metadataLine(result)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(result.Parameters) > 0 {
		r.resultsTable(pdf, text, result.Parameters)
	}
	if len(result.Insights) > 0 {
		r.insightsSection(pdf, text, result.Insights)
	}

	if result.Risk.Source != "" {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, riskLine(result.Risk), "", 1, "", false, 0, "")
		if note := riskNote(result.Risk); note != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 6, note, "", 1, "", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PDFRenderer) resultsTable(pdf *fpdf.Fpdf, text func(string) string, parameters []domain.ClassifiedParameter) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Test Results", "", 1, "", false, 0, "")

	headers := []string{"Parameter", "Value", "Unit", "Range", "Classification"}
	widths := []float64{50, 25, 32, 38, 35}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, p := range parameters {
		pdf.CellFormat(widths[0], 7, text(p.Parameter), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[1], 7, formatValue(p.Value), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, text(p.Unit), "1", 0, "", false, 0, "")
		pdf.CellFormat(widths[3], 7, formatRange(p.RangeMin, p.RangeMax), "1", 0, "C", false, 0, "")
		if p.Abnormal() {
			pdf.SetTextColor(180, 30, 30)
		}
		pdf.CellFormat(widths[4], 7, string(p.Classification), "1", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func (r *PDFRenderer) insightsSection(pdf *fpdf.Fpdf, text func(string) string, insights []domain.Insight) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Health Insights", "", 1, "", false, 0, "")

	for _, ins := range insights {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, text(fmt.Sprintf("%s: %s", ins.Parameter, ins.Insight)), "", 1, "", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetX(16)
		pdf.MultiCell(0, 5, text(ins.Recommendation), "", "", false)
		pdf.Ln(1)
	}
	pdf.Ln(3)
}
