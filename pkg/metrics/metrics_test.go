package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestsTotalIncrements(t *testing.T) {
	r := New()
	r.RequestsTotal.WithLabelValues("/generate", "success").Inc()
	r.RequestsTotal.WithLabelValues("/generate", "success").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(r.RequestsTotal.WithLabelValues("/generate", "success")))
}

func TestErrorsTotalLabeledByCode(t *testing.T) {
	r := New()
	r.ErrorsTotal.WithLabelValues("4000").Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(r.ErrorsTotal.WithLabelValues("4000")))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.ErrorsTotal.WithLabelValues("5000")))
}

func TestGathererReturnsRegisteredFamilies(t *testing.T) {
	r := New()
	r.CacheHitsTotal.Inc()

	families, err := r.Gatherer().Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
