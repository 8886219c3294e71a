package main

import (
	"math"
	"net/http"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		want    loadMode
		wantErr bool
	}{
		{name: "menu", value: "menu", want: modeMenu},
		{name: "order", value: "order", want: modeOrder},
		{name: "order list", value: "order-list", want: modeOrderList},
		{name: "with spaces", value: "  order  ", want: modeOrder},
		{name: "unknown", value: "fire-hose", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseMode(tc.value)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got mode %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected mode %q, got %q", tc.want, got)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	if got := percentile(sorted, 50); math.Abs(got-5.5) > 0.0001 {
		t.Fatalf("expected p50 = 5.5, got %f", got)
	}
	if got := percentile(sorted, 100); got != 10 {
		t.Fatalf("expected p100 = 10, got %f", got)
	}
	if got := percentile(nil, 95); got != 0 {
		t.Fatalf("expected empty percentile = 0, got %f", got)
	}
	if got := percentile([]float64{42}, 99); got != 42 {
		t.Fatalf("expected single-value percentile = 42, got %f", got)
	}
}

func TestBuildLatencySummary(t *testing.T) {
	summary := buildLatencySummary([]float64{5, 1, 3})

	if summary.Min != 1 {
		t.Fatalf("expected min = 1, got %f", summary.Min)
	}
	if summary.Max != 5 {
		t.Fatalf("expected max = 5, got %f", summary.Max)
	}
	if math.Abs(summary.Avg-3) > 0.0001 {
		t.Fatalf("expected avg = 3, got %f", summary.Avg)
	}

	empty := buildLatencySummary(nil)
	if empty != (latencySummary{}) {
		t.Fatalf("expected zero summary for empty input, got %+v", empty)
	}
}

func TestCollectorBuildReport(t *testing.T) {
	col := newCollector()
	start := time.Now().Add(-2 * time.Second)

	col.record("scenario", 10*time.Millisecond, http.StatusOK)
	col.record("scenario", 30*time.Millisecond, http.StatusServiceUnavailable)
	col.record("CreateOrder", 8*time.Millisecond, http.StatusOK)
	col.record("CreateOrder", 12*time.Millisecond, http.StatusNotFound)

	result := col.buildReport(start, 2*time.Second)

	if result.TotalScenarios != 2 {
		t.Fatalf("expected 2 scenarios, got %d", result.TotalScenarios)
	}
	if result.SuccessScenarios != 1 || result.FailedScenarios != 1 {
		t.Fatalf("expected 1 success and 1 failure, got %d/%d", result.SuccessScenarios, result.FailedScenarios)
	}
	if math.Abs(result.ErrorRate-0.5) > 0.0001 {
		t.Fatalf("expected error rate 0.5, got %f", result.ErrorRate)
	}
	if math.Abs(result.RPS-1.0) > 0.0001 {
		t.Fatalf("expected rps 1.0, got %f", result.RPS)
	}

	orders, ok := result.Methods["CreateOrder"]
	if !ok {
		t.Fatalf("expected CreateOrder method stats")
	}
	if orders.Calls != 2 || orders.Success != 1 || orders.Failed != 1 {
		t.Fatalf("unexpected CreateOrder stats: %+v", orders)
	}
	if orders.Statuses["200"] != 1 || orders.Statuses["404"] != 1 {
		t.Fatalf("unexpected CreateOrder statuses: %+v", orders.Statuses)
	}
}

func TestFailedStatus(t *testing.T) {
	if got := failedStatus(0, nil); got != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for missing status, got %d", got)
	}
	if got := failedStatus(http.StatusNotFound, nil); got != http.StatusNotFound {
		t.Fatalf("expected 404 to pass through, got %d", got)
	}
}

func TestRatio(t *testing.T) {
	if got := ratio(1, 0); got != 0 {
		t.Fatalf("expected 0 for empty total, got %f", got)
	}
	if got := ratio(1, 4); math.Abs(got-0.25) > 0.0001 {
		t.Fatalf("expected 0.25, got %f", got)
	}
}
