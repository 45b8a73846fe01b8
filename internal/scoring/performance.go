package scoring

import "github.com/simulacroapp/simulacro-engine/internal/model"

// DefaultMaxScore is the rubric ceiling the default threshold table was
// calibrated against.
const DefaultMaxScore = 3000

// Thresholds is the performance policy table: absolute score cut points,
// inclusive lower bounds, checked highest-first. Scores below Regular are
// classified as needs_practice.
type Thresholds struct {
	Excellent float64
	Good      float64
	Regular   float64
}

// DefaultThresholds reproduces the historical 80/60/40% cut points over a
// 3000-point rubric.
var DefaultThresholds = Thresholds{
	Excellent: 2400,
	Good:      1800,
	Regular:   1200,
}

// ThresholdsFor scales the default cut points to a different rubric ceiling.
// A non-positive maxScore yields the default table.
func ThresholdsFor(maxScore float64) Thresholds {
	if maxScore <= 0 {
		return DefaultThresholds
	}
	scale := maxScore / DefaultMaxScore
	return Thresholds{
		Excellent: round2(DefaultThresholds.Excellent * scale),
		Good:      round2(DefaultThresholds.Good * scale),
		Regular:   round2(DefaultThresholds.Regular * scale),
	}
}

// Classify maps an absolute total score to its performance tier.
func (t Thresholds) Classify(totalScore float64) model.PerformanceLevel {
	switch {
	case totalScore >= t.Excellent:
		return model.PerformanceExcellent
	case totalScore >= t.Good:
		return model.PerformanceGood
	case totalScore >= t.Regular:
		return model.PerformanceRegular
	default:
		return model.PerformanceNeedsPractice
	}
}

// orDefault guards against a zero-valued table sneaking in through an
// uninitialized struct, which would classify everything as excellent.
func (t Thresholds) orDefault() Thresholds {
	if t.Excellent == 0 && t.Good == 0 && t.Regular == 0 {
		return DefaultThresholds
	}
	return t
}
