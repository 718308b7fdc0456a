package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open rendered workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(xlsxSheet, ref)
	if err != nil {
		t.Fatalf("get cell %s: %v", ref, err)
	}
	return v
}

func TestXLSXRenderLayout(t *testing.T) {
	renderer := NewXLSXRenderer()
	data, err := renderer.Render(sampleResult())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	f := openWorkbook(t, data)
	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != xlsxSheet {
		t.Fatalf("expected single sheet %q, got %v", xlsxSheet, sheets)
	}

	checks := map[string]string{
		"A1":  "Report ID",
		"B1":  "r-1",
		"A2":  "Date",
		"B2":  "2026-08-15 10:30",
		"A4":  "Parameter",
		"F4":  "Classification",
		"A5":  "Glucose",
		"B5":  "250",
		"F5":  "High",
		"B6":  "13.5",
		"A9":  "Insight",
		"B10": "Risk of diabetes",
		"A12": "Overall Risk Score",
		"B12": "Overall Risk Score: 33.33%",
	}
	for ref, want := range checks {
		if got := cell(t, f, ref); got != want {
			t.Fatalf("cell %s: expected %q, got %q", ref, want, got)
		}
	}
}

func TestXLSXRenderOmitsEmptySections(t *testing.T) {
	renderer := NewXLSXRenderer()
	data, err := renderer.Render(&domain.ReportResult{
		ID:        "r-2",
		Risk:      domain.RiskAssessment{Score: domain.FallbackRiskScore, Source: domain.RiskSourceFallback},
		CreatedAt: time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	f := openWorkbook(t, data)
	if got := cell(t, f, "A4"); got != "Overall Risk Score" {
		t.Fatalf("expected the risk row right after metadata, got %q", got)
	}
	if got := cell(t, f, "B4"); got != "Overall Risk Score: 50.00%" {
		t.Fatalf("unexpected risk value %q", got)
	}
	if got := cell(t, f, "C4"); got == "" {
		t.Fatal("expected a fallback note next to the risk value")
	}

	rows, err := f.GetRows(xlsxSheet)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	for _, row := range rows {
		for _, v := range row {
			if v == "Parameter" || v == "Insight" {
				t.Fatalf("expected no section headers for an empty report, found %q", v)
			}
		}
	}
}
