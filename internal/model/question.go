package model

// QuestionMetadata carries optional provenance fields attached by the
// question bank.
type QuestionMetadata struct {
	Number   any    `json:"numero,omitempty"`
	Topic    string `json:"tema,omitempty"`
	Subtopic string `json:"subtema,omitempty"`
}

// Question is a single multiple-choice item. Immutable once loaded. ID is
// the join key between saved answers and the scoring engine and must be
// unique within a session's question set.
type Question struct {
	ID            string            `json:"id"`
	Number        int               `json:"number"`
	QuestionText  string            `json:"questionText"`
	QuestionType  string            `json:"questionType"`
	Options       []string          `json:"options"`
	CorrectAnswer int               `json:"correctAnswer"` // zero-based index into Options
	TimeSeconds   int               `json:"timeSeconds"`
	ImageLink     *string           `json:"imageLink"`
	Subject       string            `json:"subject"`
	Points        float64           `json:"points"`
	SourceFile    *string           `json:"sourceFile,omitempty"`
	Justification *string           `json:"justification,omitempty"`
	Metadata      *QuestionMetadata `json:"metadata,omitempty"`
}
