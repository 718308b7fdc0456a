// Package csvtable renders CSV reports as aligned plain-text tables so the
// same line scan applies to them as to OCR and PDF output.
package csvtable

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the whole CSV and lays it out as space-padded columns, one
// record per line, header first. Ragged rows are tolerated; an empty file
// yields an empty string.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "parse csv", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	widths := columnWidths(records)
	var b strings.Builder
	for _, record := range records {
		for i, field := range record {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(field)
			if pad := widths[i] - len([]rune(field)); pad > 0 && i < len(record)-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func columnWidths(records [][]string) []int {
	var widths []int
	for _, record := range records {
		for i, field := range record {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if n := len([]rune(field)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}
