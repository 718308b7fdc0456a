package domain

import "time"

type Classification string

const (
	ClassificationNormal Classification = "Normal"
	ClassificationLow    Classification = "Low"
	ClassificationHigh   Classification = "High"
)

// ExtractedValue is a single parameter reading pulled out of raw report text.
// Extraction order is significant and is preserved downstream.
type ExtractedValue struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
}

type ClassifiedParameter struct {
	Parameter      string         `json:"parameter"`
	Value          float64        `json:"value"`
	Unit           string         `json:"unit"`
	RangeMin       float64        `json:"range_min"`
	RangeMax       float64        `json:"range_max"`
	Classification Classification `json:"classification"`
}

func (p ClassifiedParameter) Abnormal() bool {
	return p.Classification != ClassificationNormal
}

type RiskSource string

const (
	RiskSourceModel    RiskSource = "model"
	RiskSourceFallback RiskSource = "fallback"
	RiskSourceRule     RiskSource = "rule"
)

// FallbackRiskScore is returned whenever the model path is unavailable.
const FallbackRiskScore = 50.0

// RiskAssessment carries the score together with how it was produced, so a
// degraded model is distinguishable from a healthy one without error inspection.
type RiskAssessment struct {
	Score  float64    `json:"score"`
	Source RiskSource `json:"source"`
}

func (r RiskAssessment) Degraded() bool {
	return r.Source == RiskSourceFallback
}

// Analysis is the pipeline output for one report, prior to persistence.
type Analysis struct {
	Parameters []ClassifiedParameter `json:"parameters"`
	Insights   []Insight             `json:"insights"`
	Risk       RiskAssessment        `json:"risk"`
}

type ReportResult struct {
	ID          string                `json:"id"`
	OwnerID     string                `json:"owner_id"`
	Filename    string                `json:"filename"`
	ContentType string                `json:"content_type"`
	Parameters  []ClassifiedParameter `json:"parameters"`
	Insights    []Insight             `json:"insights"`
	Risk        RiskAssessment        `json:"risk"`
	CreatedAt   time.Time             `json:"created_at"`
}

type TrendPoint struct {
	Timestamp      time.Time      `json:"timestamp"`
	Value          float64        `json:"value"`
	Classification Classification `json:"classification"`
}

// ParameterTrend is the historical series for one parameter, in the order the
// source reports were supplied. No sorting or gap filling is applied.
type ParameterTrend struct {
	Parameter string       `json:"parameter"`
	Points    []TrendPoint `json:"points"`
}

// TrendSeries lists parameters in first-seen order.
type TrendSeries []ParameterTrend
