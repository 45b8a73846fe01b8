package scoring

import (
	"testing"

	"github.com/simulacroapp/simulacro-engine/internal/model"
)

func TestThresholds_Classify(t *testing.T) {
	tests := []struct {
		score float64
		want  model.PerformanceLevel
	}{
		{3000, model.PerformanceExcellent},
		{2400, model.PerformanceExcellent}, // inclusive lower bound
		{2399.99, model.PerformanceGood},
		{1800, model.PerformanceGood},
		{1799.99, model.PerformanceRegular},
		{1200, model.PerformanceRegular},
		{1199.99, model.PerformanceNeedsPractice},
		{0, model.PerformanceNeedsPractice},
	}

	for _, tc := range tests {
		if got := DefaultThresholds.Classify(tc.score); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestThresholdsFor(t *testing.T) {
	tests := []struct {
		maxScore float64
		want     Thresholds
	}{
		{3000, DefaultThresholds},
		{1500, Thresholds{Excellent: 1200, Good: 900, Regular: 600}},
		{100, Thresholds{Excellent: 80, Good: 60, Regular: 40}},
		{0, DefaultThresholds},
		{-5, DefaultThresholds},
	}

	for _, tc := range tests {
		if got := ThresholdsFor(tc.maxScore); got != tc.want {
			t.Errorf("ThresholdsFor(%v) = %+v, want %+v", tc.maxScore, got, tc.want)
		}
	}
}

func TestZeroThresholdsFallBackToDefault(t *testing.T) {
	// An uninitialized table must not classify everything as excellent.
	if got := (Thresholds{}).orDefault().Classify(100); got != model.PerformanceNeedsPractice {
		t.Errorf("zero-value thresholds classified 100 as %q", got)
	}
}
