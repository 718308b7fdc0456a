// Package render produces report documents (PDF, XLSX) and trend chart pages.
package render

import (
	"fmt"
	"strconv"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatRange(min, max float64) string {
	return fmt.Sprintf("%.1f - %.1f", min, max)
}

func metadataLine(result *domain.ReportResult) string {
	return fmt.Sprintf("Report ID: %s | Date: %s", result.ID, result.CreatedAt.Format("2006-01-02 15:04"))
}

func riskLine(risk domain.RiskAssessment) string {
	return fmt.Sprintf("Overall Risk Score: %.2f%%", risk.Score)
}

// riskNote is empty unless the score came from the fixed fallback.
func riskNote(risk domain.RiskAssessment) string {
	if !risk.Degraded() {
		return ""
	}
	return "Risk model unavailable; fixed fallback estimate."
}
