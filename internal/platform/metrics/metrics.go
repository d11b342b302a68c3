// Package metrics exposes the domain counters scraped from /-/metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/derdiedas/internal/domain"
)

const namespace = "derdiedas"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics holds the Prometheus collectors for annotation and translation.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	tokensClassified *prometheus.CounterVec
	annotations      *prometheus.CounterVec
	translations     *prometheus.CounterVec
	segments         prometheus.Histogram
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on promhttp.Handler().
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		tokensClassified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_classified_total",
			Help:      "Tokens colored by the annotator, by classification.",
		}, []string{"gender"}),
		annotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annotations_total",
			Help:      "Annotation passes, by result.",
		}, []string{"result"}),
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Translation requests, by target language and result.",
		}, []string{"target", "result"}),
		segments: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "translation_segments",
			Help:      "Segments sent to the translation backend per call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}

	for _, c := range []prometheus.Collector{m.tokensClassified, m.annotations, m.translations, m.segments} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveAnnotation records one annotation pass.
func (m *Metrics) ObserveAnnotation(counts map[domain.Gender]int, err error) {
	if m == nil {
		return
	}

	if err != nil {
		m.annotations.WithLabelValues(ResultError).Inc()
		return
	}

	m.annotations.WithLabelValues(ResultSuccess).Inc()
	for g, n := range counts {
		m.tokensClassified.WithLabelValues(g.String()).Add(float64(n))
	}
}

// ObserveTranslation records one translation request.
func (m *Metrics) ObserveTranslation(target domain.Language, segments int, err error) {
	if m == nil {
		return
	}

	result := ResultSuccess
	if err != nil {
		result = ResultError
	}

	m.translations.WithLabelValues(string(target), result).Inc()
	if segments > 0 {
		m.segments.Observe(float64(segments))
	}
}
