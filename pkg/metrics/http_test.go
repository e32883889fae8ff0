package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveCountsRequests(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/cart", "200", 25*time.Millisecond)
	m.Observe("GET", "/api/v1/cart", "200", 30*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var counter *dto.Metric
	for _, fam := range families {
		if fam.GetName() == "http_requests_total" {
			counter = fam.GetMetric()[0]
		}
	}
	if counter == nil {
		t.Fatal("http_requests_total not registered")
	}
	if got := counter.GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 requests, got %f", got)
	}
}

func TestObserveOnNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *HTTPMetrics
	m.Observe("GET", "/", "200", time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.Observe("GET", "/", "200", time.Millisecond)
}
