package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

var valuePattern = regexp.MustCompile(`\d+\.?\d*`)

// ExtractParameters scans raw report text line by line for known parameters.
// Parameter names are matched as case-insensitive substrings in reference-set
// declaration order; the first name hit on a line claims that line's first
// numeric token and ends the line scan, so a line carries at most one reading.
// The first occurrence of a parameter across the text wins; later lines never
// overwrite it. Lines mentioning a parameter without a numeric token
// contribute nothing.
func ExtractParameters(text string, refs *domain.ReferenceSet) []domain.ExtractedValue {
	var out []domain.ExtractedValue
	seen := make(map[string]bool)

	ranges := refs.Ranges()
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, r := range ranges {
			if !strings.Contains(lower, strings.ToLower(r.Parameter)) {
				continue
			}
			if token := valuePattern.FindString(line); token != "" && !seen[r.Parameter] {
				if value, err := strconv.ParseFloat(token, 64); err == nil {
					seen[r.Parameter] = true
					out = append(out, domain.ExtractedValue{Parameter: r.Parameter, Value: value})
				}
			}
			break
		}
	}
	return out
}
