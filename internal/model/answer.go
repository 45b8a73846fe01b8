package model

// Answer is an evaluated answer, produced only at finalization by joining a
// saved selection against the question's answer key. Immutable once
// produced. A nil SelectedOption means the question was left unanswered and
// always evaluates as incorrect.
type Answer struct {
	QuestionID     string  `json:"questionId"`
	SelectedOption *int    `json:"selectedOption"`
	IsCorrect      bool    `json:"isCorrect"`
	// TimeSpent is an equal-division approximation (total elapsed seconds
	// over question count), not measured per-question dwell time.
	TimeSpent float64 `json:"timeSpent"`
}
