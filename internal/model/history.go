package model

// ScoreData is the payload sent to the remote store after finalization.
// The store is a passive recorder; failures never invalidate the in-memory
// ExamResult.
type ScoreData struct {
	DNI      string  `json:"dni"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Area     Area    `json:"area"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
}

// HistoryEntry is one recorded attempt as returned by the remote store.
type HistoryEntry struct {
	Date       string  `json:"fecha"`
	Area       string  `json:"area"`
	Score      float64 `json:"puntaje"`
	MaxScore   float64 `json:"puntajeMax"`
	Correct    int     `json:"correctas"`
	Total      int     `json:"total"`
	Percentage float64 `json:"porcentaje"`
}

// UserHistory summarizes a user's past attempts. Purely informational,
// consumed after finalization and never fed back into scoring.
type UserHistory struct {
	DNI           string         `json:"dni"`
	TotalAttempts int            `json:"totalIntentos"`
	History       []HistoryEntry `json:"history"`
	BestScore     float64        `json:"mejorPuntaje"`
	LastScore     float64        `json:"ultimoPuntaje"`
}

// AccessDecision is the pre-session eligibility gate result. Consulted
// before a session may reach ready; the engine never sees a question set
// when access is denied.
type AccessDecision struct {
	CanAccess    bool   `json:"canAccess"`
	Reason       string `json:"reason"`
	AttemptCount int    `json:"attemptCount"`
}
