package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/companies", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "/companies", 200, 5*time.Millisecond)
	m.ObserveRequest("POST", "", 500, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/companies", "200")); got != 2 {
		t.Fatalf("expected 2 GET requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "unknown", "500")); got != 1 {
		t.Fatalf("expected empty route to be normalized, got %v", got)
	}
}

func TestObserveRequestNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)

	unregistered := NewHTTPMetrics(nil)
	unregistered.ObserveRequest("GET", "/", 200, time.Millisecond)
}
