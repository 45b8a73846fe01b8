package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// Subject is one scored category inside an area's rubric. Created once per
// area and immutable during a session. MaxScore is authoritative over any
// per-question point derivation.
type Subject struct {
	Code              json.RawMessage `json:"code,omitempty"`
	Name              string          `json:"name"`
	PointsPerQuestion float64         `json:"pointsPerQuestion"`
	QuestionCount     int             `json:"questionCount"`
	Weight            float64         `json:"weight"`
	MaxScore          float64         `json:"maxScore"`
}

// AreaConfig is the authoritative point-allocation table for an area.
// Read-only rubric, never mutated by a session.
type AreaConfig struct {
	Name           Area      `json:"name"`
	Subjects       []Subject `json:"subjects"`
	TotalQuestions int       `json:"totalQuestions"`
	TotalMaxScore  float64   `json:"totalMaxScore"`
}

// SubjectByName returns the rubric entry for the given subject label, or nil
// when the rubric does not carry it.
func (c *AreaConfig) SubjectByName(name string) *Subject {
	for i := range c.Subjects {
		if c.Subjects[i].Name == name {
			return &c.Subjects[i]
		}
	}
	return nil
}

// CheckConsistency verifies that the declared totals match the subject-level
// sums. TotalMaxScore stays authoritative either way; a mismatch is reported
// so callers can log it, not so they can reject the rubric.
func (c *AreaConfig) CheckConsistency() error {
	var questions int
	var maxScore float64
	for _, s := range c.Subjects {
		questions += s.QuestionCount
		maxScore += s.MaxScore
	}
	if questions != c.TotalQuestions {
		return fmt.Errorf("area %q: subject question counts sum to %d, config declares %d",
			c.Name, questions, c.TotalQuestions)
	}
	if math.Abs(maxScore-c.TotalMaxScore) > 0.01 {
		return fmt.Errorf("area %q: subject max scores sum to %.2f, config declares %.2f",
			c.Name, maxScore, c.TotalMaxScore)
	}
	return nil
}

// Config maps area names to their rubrics, as served by the remote API.
type Config map[string]AreaConfig

// ForArea returns the rubric for an area, or nil when absent.
func (c Config) ForArea(area Area) *AreaConfig {
	if c == nil {
		return nil
	}
	if ac, ok := c[string(area)]; ok {
		return &ac
	}
	return nil
}
