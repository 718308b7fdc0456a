package risk

import (
	"log/slog"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

// ModelScorer scores a report with the trained logistic model. Missing
// parameters fill with the training distribution means. Whenever the model is
// unavailable the scorer logs the downgrade and returns the fixed fallback
// assessment; it never surfaces an error into the pipeline.
type ModelScorer struct {
	artifact   *Artifact
	logger     *slog.Logger
	onFallback func()
}

// NewModelScorer accepts a nil artifact, which pins the scorer to the
// fallback path.
func NewModelScorer(artifact *Artifact, logger *slog.Logger) *ModelScorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelScorer{artifact: artifact, logger: logger}
}

// WithFallbackHook registers a callback fired on every degraded assessment,
// for operational counters.
func (s *ModelScorer) WithFallbackHook(fn func()) *ModelScorer {
	s.onFallback = fn
	return s
}

func (s *ModelScorer) Assess(extracted []domain.ExtractedValue, _ []domain.ClassifiedParameter) domain.RiskAssessment {
	if s.artifact == nil || !s.artifact.Trained {
		s.logger.Warn("risk model unavailable, falling back to fixed score",
			slog.Float64("score", domain.FallbackRiskScore))
		if s.onFallback != nil {
			s.onFallback()
		}
		return domain.RiskAssessment{Score: domain.FallbackRiskScore, Source: domain.RiskSourceFallback}
	}

	features := s.featurize(extracted)
	scaled := s.artifact.Scaler.Transform(features)
	score := s.artifact.Model.PredictProba(scaled) * 100

	return domain.RiskAssessment{Score: score, Source: domain.RiskSourceModel}
}

func (s *ModelScorer) featurize(extracted []domain.ExtractedValue) []float64 {
	byName := make(map[string]float64, len(extracted))
	for _, ev := range extracted {
		byName[ev.Parameter] = ev.Value
	}

	features := make([]float64, len(s.artifact.FeatureOrder))
	for i, name := range s.artifact.FeatureOrder {
		if value, ok := byName[name]; ok {
			features[i] = value
			continue
		}
		// Validated at load time, so the default always exists.
		def, _ := featureDefault(name)
		features[i] = def
	}
	return features
}
