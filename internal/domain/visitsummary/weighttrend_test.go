package visitsummary

import (
	"testing"
	"time"
)

func wp(n int, kg float64) WeightDataPoint {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return WeightDataPoint{Date: base.AddDate(0, 0, n), WeightKg: kg}
}

func TestAnalyzeWeightTrend_Classification(t *testing.T) {
	cases := []struct {
		name   string
		points []WeightDataPoint
		want   Trend
	}{
		{"increasing", []WeightDataPoint{wp(0, 10), wp(30, 11)}, TrendIncreasing},   // +10%
		{"decreasing", []WeightDataPoint{wp(0, 10), wp(30, 9.2)}, TrendDecreasing},  // -8%
		{"stable up", []WeightDataPoint{wp(0, 10), wp(30, 10.2)}, TrendStable},      // +2%
		{"stable down", []WeightDataPoint{wp(0, 10), wp(30, 9.8)}, TrendStable},     // -2%
		{"single point", []WeightDataPoint{wp(0, 10)}, TrendInsufficient},
		{"no points", nil, TrendInsufficient},
		{"zero start", []WeightDataPoint{wp(0, 0), wp(30, 5)}, TrendInsufficient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AnalyzeWeightTrend(tc.points)
			if got.Trend != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got.Trend)
			}
		})
	}
}

func TestAnalyzeWeightTrend_PercentChangeNilWhenInsufficient(t *testing.T) {
	got := AnalyzeWeightTrend([]WeightDataPoint{wp(0, 10)})
	if got.PercentChange != nil {
		t.Fatalf("expected nil percent change, got %v", *got.PercentChange)
	}
	if got.HasData() {
		t.Fatal("expected HasData false with one point")
	}
}

func TestAnalyzeWeightTrend_StatsAndOrdering(t *testing.T) {
	// Desordenado a propósito: debe ordenarse por fecha ascendente.
	got := AnalyzeWeightTrend([]WeightDataPoint{wp(30, 12), wp(0, 10), wp(15, 9)})

	if got.StartKg != 10 || got.EndKg != 12 {
		t.Fatalf("expected start=10 end=12, got start=%v end=%v", got.StartKg, got.EndKg)
	}
	if got.MinKg != 9 || got.MaxKg != 12 {
		t.Fatalf("expected min=9 max=12, got min=%v max=%v", got.MinKg, got.MaxKg)
	}
	if got.PercentChange == nil {
		t.Fatal("expected percent change")
	}
	if *got.PercentChange != 20 {
		t.Fatalf("expected +20%%, got %v", *got.PercentChange)
	}
	if got.Trend != TrendIncreasing {
		t.Fatalf("expected increasing, got %s", got.Trend)
	}
}
