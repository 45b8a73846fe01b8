package session

import (
	"time"

	"github.com/simulacroapp/simulacro-engine/internal/model"
)

// Snapshot is an immutable copy of the session state. Selectors below are
// pure projections over it; mutating the machine after taking a snapshot
// never changes an existing snapshot.
type Snapshot struct {
	Status       Status
	Student      *model.Student
	Config       model.Config
	Questions    []model.Question
	CurrentIndex int
	SavedAnswers map[string]*int
	Result       *model.ExamResult
	Error        string
	StartTime    time.Time
}

// Snapshot copies the current session state for read-only consumers.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	questions := make([]model.Question, len(m.questions))
	copy(questions, m.questions)

	saved := make(map[string]*int, len(m.savedAnswers))
	for id, sel := range m.savedAnswers {
		if sel == nil {
			saved[id] = nil
			continue
		}
		v := *sel
		saved[id] = &v
	}

	var student *model.Student
	if m.student != nil {
		s := *m.student
		student = &s
	}

	return Snapshot{
		Status:       m.status,
		Student:      student,
		Config:       m.config,
		Questions:    questions,
		CurrentIndex: m.currentIndex,
		SavedAnswers: saved,
		Result:       m.result,
		Error:        m.errMsg,
		StartTime:    m.startTime,
	}
}

// Status returns the current lifecycle state.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Error returns the stored human-readable load error, empty outside the
// error state.
func (m *Machine) Error() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// Progress summarizes position and completion for display.
type Progress struct {
	Current    int // 1-based position
	Total      int
	Answered   int
	Percentage float64
}

// Progress derives the progress projection.
func (s Snapshot) Progress() Progress {
	total := len(s.Questions)
	var pct float64
	if total > 0 {
		pct = float64(s.CurrentIndex+1) / float64(total) * 100
	}
	return Progress{
		Current:    s.CurrentIndex + 1,
		Total:      total,
		Answered:   len(s.SavedAnswers),
		Percentage: pct,
	}
}

// CurrentQuestion returns the question at the current position, nil when no
// questions are loaded.
func (s Snapshot) CurrentQuestion() *model.Question {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// IsFirstQuestion reports whether the position is at the start.
func (s Snapshot) IsFirstQuestion() bool {
	return s.CurrentIndex == 0
}

// IsLastQuestion reports whether the position is at the end.
func (s Snapshot) IsLastQuestion() bool {
	return len(s.Questions) > 0 && s.CurrentIndex == len(s.Questions)-1
}

// SavedOption returns the saved selection for a question, nil when the
// question is unanswered or had its selection cleared.
func (s Snapshot) SavedOption(questionID string) *int {
	return s.SavedAnswers[questionID]
}

// SubjectGroup is a navigation grouping: the subject label plus the
// zero-based positions of its questions, in question-set order.
type SubjectGroup struct {
	Name    string
	Indexes []int
}

// SubjectGroups partitions question positions by subject in first-seen
// order, for navigation panels.
func (s Snapshot) SubjectGroups() []SubjectGroup {
	var groups []SubjectGroup
	byName := make(map[string]int)

	for i, q := range s.Questions {
		gi, ok := byName[q.Subject]
		if !ok {
			gi = len(groups)
			byName[q.Subject] = gi
			groups = append(groups, SubjectGroup{Name: q.Subject})
		}
		groups[gi].Indexes = append(groups[gi].Indexes, i)
	}
	return groups
}
