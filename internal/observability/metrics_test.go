package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ObserveFetch("ok")
	m.ObserveFetch("ok")
	m.ObserveFetch("failed")
	m.ObserveSubmit("updated", 3, true)
	m.ObserveSubmit("rejected", 2, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submits.WithLabelValues("rejected")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.submittedRecords))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch("ok")
		m.ObserveSubmit("updated", 1, true)
		m.ObserveStoreRequest("list", "ok", time.Millisecond)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveStoreRequest("update", "ok", 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `procat_editor_record_store_request_seconds_count{operation="update",result="ok"} 1`)
}
