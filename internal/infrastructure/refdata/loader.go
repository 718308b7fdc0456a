// Package refdata loads reference ranges and insight rules from YAML files,
// replacing the built-in sets. File order becomes scan priority, so entries
// should list the most specific parameter names first.
package refdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

type rangeFile struct {
	Ranges []rangeEntry `yaml:"ranges"`
}

type rangeEntry struct {
	Parameter string  `yaml:"parameter"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Unit      string  `yaml:"unit"`
}

type insightFile struct {
	Rules []insightEntry `yaml:"rules"`
}

type insightEntry struct {
	Parameter      string `yaml:"parameter"`
	Classification string `yaml:"classification"`
	Insight        string `yaml:"insight"`
	Recommendation string `yaml:"recommendation"`
}

// LoadReferenceSet reads a reference-range file. Validation (non-empty names,
// min <= max, no duplicates) happens in the domain constructor.
func LoadReferenceSet(path string) (*domain.ReferenceSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference ranges: %w", err)
	}

	var file rangeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse reference ranges", err)
	}

	ranges := make([]domain.ReferenceRange, len(file.Ranges))
	for i, entry := range file.Ranges {
		ranges[i] = domain.ReferenceRange{
			Parameter: entry.Parameter,
			Min:       entry.Min,
			Max:       entry.Max,
			Unit:      entry.Unit,
		}
	}

	set, err := domain.NewReferenceSet(ranges)
	if err != nil {
		return nil, fmt.Errorf("build reference set: %w", err)
	}
	return set, nil
}

// LoadInsightLibrary reads an insight-rule file. Only Low and High rules are
// accepted, enforced by the domain constructor.
func LoadInsightLibrary(path string) (*domain.InsightLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read insight rules: %w", err)
	}

	var file insightFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse insight rules", err)
	}

	rules := make([]domain.InsightRule, len(file.Rules))
	for i, entry := range file.Rules {
		rules[i] = domain.InsightRule{
			Parameter:      entry.Parameter,
			Classification: domain.Classification(entry.Classification),
			Insight:        entry.Insight,
			Recommendation: entry.Recommendation,
		}
	}

	lib, err := domain.NewInsightLibrary(rules)
	if err != nil {
		return nil, fmt.Errorf("build insight library: %w", err)
	}
	return lib, nil
}

// ResolveReferenceSet loads ranges from path, or returns the built-in set when
// path is empty.
func ResolveReferenceSet(path string) (*domain.ReferenceSet, error) {
	if path == "" {
		return domain.DefaultReferenceSet(), nil
	}
	return LoadReferenceSet(path)
}

// ResolveInsightLibrary loads rules from path, or returns the built-in
// knowledge base when path is empty.
func ResolveInsightLibrary(path string) (*domain.InsightLibrary, error) {
	if path == "" {
		return domain.DefaultInsightLibrary(), nil
	}
	return LoadInsightLibrary(path)
}
