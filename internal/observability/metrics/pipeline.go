package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

type PipelineMetrics struct {
	registry *prometheus.Registry

	processTotal       *prometheus.CounterVec
	processDuration    *prometheus.HistogramVec
	processInFlight    prometheus.Gauge
	extractionFailures *prometheus.CounterVec
	modelFallbacks     *prometheus.CounterVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hra",
			Subsystem: "pipeline",
			Name:      "reports_processed_total",
			Help:      "Total processed reports by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hra",
			Subsystem: "pipeline",
			Name:      "report_process_duration_seconds",
			Help:      "Report processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "hra",
			Subsystem: "pipeline",
			Name:      "reports_in_flight",
			Help:      "Number of reports currently being processed.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	extractionFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hra",
			Subsystem: "pipeline",
			Name:      "extraction_failures_total",
			Help:      "Total text extraction failures by strategy.",
		},
		[]string{"service", "strategy"},
	)
	modelFallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hra",
			Subsystem: "risk",
			Name:      "model_fallbacks_total",
			Help:      "Total risk assessments served by the fixed fallback score.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		extractionFailures,
		modelFallbacks,
	)

	return &PipelineMetrics{
		registry:           registry,
		processTotal:       processTotal,
		processDuration:    processDuration,
		processInFlight:    processInFlight,
		extractionFailures: extractionFailures,
		modelFallbacks:     modelFallbacks,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartReport() {
	m.processInFlight.Inc()
}

func (m *PipelineMetrics) FinishReport(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := statusForError(err)
	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *PipelineMetrics) RecordExtractionFailure(service, strategy string) {
	if strategy == "" {
		strategy = "unknown"
	}
	m.extractionFailures.WithLabelValues(service, strategy).Inc()
}

func (m *PipelineMetrics) RecordModelFallback(service string) {
	m.modelFallbacks.WithLabelValues(service).Inc()
}

func statusForError(err error) string {
	switch {
	case err == nil:
		return "success"
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return "unsupported_format"
	case domain.IsKind(err, domain.ErrExtractionFailed):
		return "extraction_failed"
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
