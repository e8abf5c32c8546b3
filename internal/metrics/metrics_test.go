package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWith(reg)

	m.RecordDocument("ok", 150*time.Millisecond)
	m.RecordParse("services", true, 5*time.Millisecond)
	m.RecordCacheHit()

	srv := httptest.NewServer(HandlerFor(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `bizextract_documents_total{status="ok"} 1`)
	assert.Contains(t, string(body), `bizextract_parse_outcomes_total{category="services",status="ok"} 1`)
	assert.Contains(t, string(body), "bizextract_cache_hits_total 1")
}
