package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestGenerationMetricsExportsCountersAndTokens(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewGenerationMetrics(reg)

	metrics.ObserveGeneration("casual", "success", 120)
	metrics.ObserveGeneration("casual", "success", 80)
	metrics.ObserveGeneration("luxury", "quota_exhausted", 0)
	metrics.ObserveWriteBack("failure")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "generations_total", "tone", "casual"); err != nil {
		t.Fatalf("fetch generations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 casual generations, got %f", got)
	}

	tokens := findMetricFamily(mfs, "generation_tokens_total")
	if tokens == nil {
		t.Fatal("token counter not exported")
	}
	if got := tokens.GetMetric()[0].GetCounter().GetValue(); got != 200 {
		t.Fatalf("expected 200 tokens, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "generation_write_backs_total", "outcome", "failure"); err != nil {
		t.Fatalf("fetch write backs: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 failed write back, got %f", got)
	}
}

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	metrics.Observe("POST", "/api/generations", "200", 30*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/generations"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 request, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	metrics := NewGenerationMetrics(nil)
	metrics.ObserveGeneration("casual", "success", 10)
	metrics.ObserveWriteBack("success")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		for _, pair := range metric.GetLabel() {
			if pair.GetName() == label && pair.GetValue() == value {
				return metric.GetCounter().GetValue(), nil
			}
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}
