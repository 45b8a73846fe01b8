package model

import (
	"time"

	"github.com/google/uuid"
)

// PerformanceLevel is a categorical tier derived from absolute score
// thresholds.
type PerformanceLevel string

const (
	PerformanceExcellent     PerformanceLevel = "excellent"
	PerformanceGood          PerformanceLevel = "good"
	PerformanceRegular       PerformanceLevel = "regular"
	PerformanceNeedsPractice PerformanceLevel = "needs_practice"
)

// SubjectResult aggregates one subject's evaluated answers.
type SubjectResult struct {
	Name           string  `json:"name"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
	PointsObtained float64 `json:"pointsObtained"`
	MaxPoints      float64 `json:"maxPoints"`
}

// ExamResult is the sole artifact a finished session exports. Created
// exactly once at finalization and immutable thereafter.
type ExamResult struct {
	AttemptID        uuid.UUID        `json:"attemptId"`
	Student          Student          `json:"student"`
	Date             time.Time        `json:"date"`
	TotalScore       float64          `json:"totalScore"`
	MaxScore         float64          `json:"maxScore"`
	Percentage       float64          `json:"percentage"`
	SubjectResults   []SubjectResult  `json:"subjectResults"`
	Answers          []Answer         `json:"answers"`
	TotalTime        int              `json:"totalTime"` // seconds
	PerformanceLevel PerformanceLevel `json:"performanceLevel"`
}

// CorrectCount returns the number of evaluated answers marked correct.
func (r *ExamResult) CorrectCount() int {
	n := 0
	for _, a := range r.Answers {
		if a.IsCorrect {
			n++
		}
	}
	return n
}
