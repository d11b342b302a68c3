package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/derdiedas/internal/domain"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := New(reg)
	require.NoError(t, err)
	require.NotNil(t, m)

	_, err = New(reg)
	require.Error(t, err, "second registration must fail")
}

func TestObserveAnnotation(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveAnnotation(map[domain.Gender]int{domain.Masculine: 2, domain.Plural: 1}, nil)
	m.ObserveAnnotation(nil, errors.New("model missing"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.tokensClassified.WithLabelValues("masculine")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.tokensClassified.WithLabelValues("plural")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.annotations.WithLabelValues(ResultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.annotations.WithLabelValues(ResultError)), 0)
}

func TestObserveTranslation(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveTranslation(domain.English, 3, nil)
	m.ObserveTranslation(domain.Spanish, 1, errors.New("backend down"))

	assert.InDelta(t, 1, testutil.ToFloat64(m.translations.WithLabelValues("en", ResultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.translations.WithLabelValues("es", ResultError)), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.segments))
}

func TestNilMetrics_IsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveAnnotation(map[domain.Gender]int{domain.Neuter: 1}, nil)
		m.ObserveTranslation(domain.English, 1, nil)
	})
}
