package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	c := httpRequests.WithLabelValues("/api/v1/series", "POST", "200")
	before := testutil.ToFloat64(c)
	ObserveRequest("/api/v1/series", "POST", "200", 5*time.Millisecond)
	assert.InDelta(t, before+1, testutil.ToFloat64(c), 1e-9)
}

func TestObserveFit_CountsFailures(t *testing.T) {
	c := fitFailures.WithLabelValues("test")
	before := testutil.ToFloat64(c)
	ObserveFit("test", time.Millisecond, nil)
	ObserveFit("test", time.Millisecond, errors.New("boom"))
	assert.InDelta(t, before+1, testutil.ToFloat64(c), 1e-9)
}
