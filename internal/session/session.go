// Package session owns the exam session lifecycle: status transitions,
// the in-progress answer map, navigation, and finalization. The Machine is
// the single writer over the session aggregate; everything else reads it
// through immutable snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simulacroapp/simulacro-engine/internal/model"
	"github.com/simulacroapp/simulacro-engine/internal/scoring"
	"github.com/simulacroapp/simulacro-engine/internal/stopwatch"
)

// Status enumerates session lifecycle states.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusLoading    Status = "loading"
	StatusReady      Status = "ready"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Guarded-transition errors. The machine never mutates state when returning
// one of these; callers may report them but the session stays intact.
var (
	ErrNotReady      = errors.New("exam is not ready to start")
	ErrNoQuestions   = errors.New("question set is empty")
	ErrNotInProgress = errors.New("exam is not in progress")
	ErrNotStarted    = errors.New("exam was never started")
	ErrNoStudent     = errors.New("no student set for this session")
)

// ConfigProvider fetches the rubric for all areas.
type ConfigProvider interface {
	FetchConfig(ctx context.Context) (model.Config, error)
}

// QuestionProvider fetches the ordered question set for an area. Question
// order is the provider's responsibility (grouped by subject, randomized or
// not); the machine never reorders it.
type QuestionProvider interface {
	FetchQuestions(ctx context.Context, area model.Area) ([]model.Question, error)
}

// ScoreRecorder persists a final score to the remote store. Best-effort:
// failures are logged and never affect the finalized result.
type ScoreRecorder interface {
	SaveScore(ctx context.Context, data model.ScoreData) error
}

// HistoryProvider retrieves past attempts for an identity. Informational
// only.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, dni string) (*model.UserHistory, error)
}

// Providers bundles the external collaborators a Machine consumes. Scores
// and History may be nil; Config and Questions must be set before the
// corresponding load operations are used.
type Providers struct {
	Config    ConfigProvider
	Questions QuestionProvider
	Scores    ScoreRecorder
	History   HistoryProvider
}

// Machine is the exam session state machine. All methods are safe for
// concurrent use, but the intended discipline is a single dispatching
// caller, with any number of snapshot readers.
type Machine struct {
	mu         sync.Mutex
	log        zerolog.Logger
	now        func() time.Time
	providers  Providers
	thresholds scoring.Thresholds

	// timer is the display clock for the attempt: it runs only while the
	// session is in_progress and freezes the moment the session leaves that
	// state. Never an input to scoring, which derives totalTime from the
	// start timestamp.
	timer  *stopwatch.Stopwatch
	onTick func(seconds int)

	status       Status
	student      *model.Student
	config       model.Config
	questions    []model.Question
	currentIndex int
	savedAnswers map[string]*int
	result       *model.ExamResult
	errMsg       string
	startTime    time.Time
	attemptID    uuid.UUID
	persistDone  chan struct{}

	// loadGen invalidates in-flight loads: a fetch commits its outcome only
	// if no reset or newer load happened while it was in flight.
	loadGen uint64
}

// New creates an idle Machine.
func New(p Providers, log zerolog.Logger) *Machine {
	return &Machine{
		log:          log.With().Str("component", "exam_session").Logger(),
		now:          time.Now,
		timer:        stopwatch.New(nil),
		providers:    p,
		thresholds:   scoring.DefaultThresholds,
		status:       StatusIdle,
		savedAnswers: make(map[string]*int),
	}
}

// SetClock replaces the wall clock. Intended for tests and simulations.
func (m *Machine) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	m.timer = stopwatch.NewWithClock(now, m.onTick)
}

// SetTickHandler registers a display callback receiving elapsed seconds
// roughly once per second while the exam is in progress. Must be set before
// the exam starts; the callback stops when the session leaves in_progress.
func (m *Machine) SetTickHandler(fn func(seconds int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTick = fn
	m.timer = stopwatch.NewWithClock(m.now, fn)
}

// SetThresholds replaces the performance policy table used at finalization.
func (m *Machine) SetThresholds(t scoring.Thresholds) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thresholds = t
}

// SetStudent validates and stores the attempt identity. Valid in any state
// and does not transition status.
func (m *Machine) SetStudent(s model.Student) error {
	if fields := model.Validate(s); fields != nil {
		return fmt.Errorf("invalid student: %v", fields)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.student = &s
	return nil
}

// LoadConfig fetches the rubric for all areas: idle → loading → idle on
// success, loading → error on failure. Safe to call again when a config is
// already present (refresh semantics).
func (m *Machine) LoadConfig(ctx context.Context) error {
	gen := m.beginLoad()

	cfg, err := m.providers.Config.FetchConfig(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loadCurrentLocked(gen) {
		m.log.Debug().Uint64("gen", gen).Msg("discarding stale config response")
		return nil
	}

	if err != nil {
		m.errMsg = fmt.Sprintf("could not load configuration: %v", err)
		m.status = StatusError
		m.log.Error().Err(err).Msg("config load failed")
		return fmt.Errorf("load config: %w", err)
	}

	for _, ac := range cfg {
		if cerr := ac.CheckConsistency(); cerr != nil {
			m.log.Warn().Err(cerr).Msg("rubric inconsistency; declared totals stay authoritative")
		}
	}

	m.config = cfg
	m.status = StatusIdle
	m.errMsg = ""
	m.log.Info().Int("areas", len(cfg)).Msg("configuration loaded")
	return nil
}

// LoadQuestions fetches the ordered question set for an area:
// idle/ready → loading → ready on success, loading → error on failure.
// The provider's question order is stored untouched.
func (m *Machine) LoadQuestions(ctx context.Context, area model.Area) error {
	gen := m.beginLoad()

	questions, err := m.providers.Questions.FetchQuestions(ctx, area)

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loadCurrentLocked(gen) {
		m.log.Debug().Uint64("gen", gen).Str("area", string(area)).
			Msg("discarding stale question response")
		return nil
	}

	if err == nil && len(questions) == 0 {
		err = errors.New("the area has no questions available")
	}
	if err != nil {
		m.errMsg = fmt.Sprintf("could not load questions: %v", err)
		m.status = StatusError
		m.log.Error().Err(err).Str("area", string(area)).Msg("question load failed")
		return fmt.Errorf("load questions: %w", err)
	}

	m.questions = questions
	m.status = StatusReady
	m.errMsg = ""
	m.log.Info().Str("area", string(area)).Int("count", len(questions)).Msg("questions loaded")
	return nil
}

// beginLoad transitions into loading and returns the generation this load
// must present to commit its outcome.
func (m *Machine) beginLoad() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadGen++
	m.status = StatusLoading
	m.errMsg = ""
	return m.loadGen
}

// loadCurrentLocked reports whether a load begun at gen may still commit.
// A reset or a newer load bumps loadGen; leaving StatusLoading by any other
// path also invalidates the response.
func (m *Machine) loadCurrentLocked(gen uint64) bool {
	return m.loadGen == gen && m.status == StatusLoading
}

// StartExam transitions ready → in_progress with a fresh position, a
// cleared answer map and a start timestamp. Guarded no-op unless the
// session is ready with a non-empty question set and a student.
func (m *Machine) StartExam() error {
	m.mu.Lock()

	if m.student == nil {
		m.mu.Unlock()
		return ErrNoStudent
	}
	if m.status != StatusReady {
		m.mu.Unlock()
		return ErrNotReady
	}
	if len(m.questions) == 0 {
		m.mu.Unlock()
		return ErrNoQuestions
	}

	m.status = StatusInProgress
	m.currentIndex = 0
	m.savedAnswers = make(map[string]*int)
	m.startTime = m.now()
	m.attemptID = uuid.New()
	m.result = nil

	timer := m.timer
	attemptID := m.attemptID
	area := m.student.Area
	count := len(m.questions)
	m.mu.Unlock()

	// Timer operations happen outside m.mu: stopping a timer joins its tick
	// goroutine, and the tick callback may read the machine.
	timer.Reset(0)
	timer.Start()

	m.log.Info().
		Str("attempt_id", attemptID.String()).
		Str("area", string(area)).
		Int("questions", count).
		Msg("exam started")
	return nil
}

// SaveAnswer upserts the unevaluated selection for a question. Re-answering
// overwrites; nil clears the selection. Correctness is not judged here and
// position does not advance. Guarded no-op outside in_progress.
func (m *Machine) SaveAnswer(questionID string, selected *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusInProgress {
		return ErrNotInProgress
	}
	m.savedAnswers[questionID] = selected
	return nil
}

// NextQuestion advances the position by one, stopping at the last question.
func (m *Machine) NextQuestion() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentIndex < len(m.questions)-1 {
		m.currentIndex++
	}
}

// PreviousQuestion moves the position back by one, stopping at zero.
func (m *Machine) PreviousQuestion() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentIndex > 0 {
		m.currentIndex--
	}
}

// GoToQuestion jumps to an absolute position. Out-of-range indexes are
// ignored; the position never wraps.
func (m *Machine) GoToQuestion(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index >= 0 && index < len(m.questions) {
		m.currentIndex = index
	}
}

// FinishExam evaluates every saved answer against the answer key, computes
// the result once, stores it and transitions to completed. The score is
// then handed to the recorder without blocking on its outcome. Guarded
// no-op unless in_progress with a start timestamp; once completed, repeat
// calls return the stored result.
func (m *Machine) FinishExam(ctx context.Context) (*model.ExamResult, error) {
	m.mu.Lock()

	if m.status == StatusCompleted && m.result != nil {
		result := m.result
		m.mu.Unlock()
		return result, nil
	}
	if m.status != StatusInProgress {
		m.mu.Unlock()
		return nil, ErrNotInProgress
	}
	if m.startTime.IsZero() {
		m.mu.Unlock()
		return nil, ErrNotStarted
	}

	finish := m.now()
	totalTime := finish.Sub(m.startTime).Seconds()
	timePerQuestion := totalTime / float64(len(m.questions))

	evaluated := make([]model.Answer, 0, len(m.questions))
	for _, q := range m.questions {
		selected := m.savedAnswers[q.ID] // nil when unanswered
		evaluated = append(evaluated, model.Answer{
			QuestionID:     q.ID,
			SelectedOption: selected,
			IsCorrect:      selected != nil && *selected == q.CorrectAnswer,
			TimeSpent:      timePerQuestion,
		})
	}

	result := scoring.ComputeExamResult(scoring.Input{
		AttemptID:  m.attemptID,
		Student:    *m.student,
		Questions:  m.questions,
		Answers:    evaluated,
		AreaConfig: m.config.ForArea(m.student.Area),
		StartTime:  m.startTime,
		FinishTime: finish,
		Thresholds: m.thresholds,
	})

	m.result = &result
	m.status = StatusCompleted

	done := make(chan struct{})
	m.persistDone = done

	recorder := m.providers.Scores
	timer := m.timer
	log := m.log
	m.mu.Unlock()

	timer.Pause()

	log.Info().
		Str("attempt_id", result.AttemptID.String()).
		Float64("score", result.TotalScore).
		Str("level", string(result.PerformanceLevel)).
		Int("total_time", result.TotalTime).
		Msg("exam finished")

	if recorder == nil {
		close(done)
	} else {
		go func() {
			defer close(done)
			persistScore(ctx, recorder, log, &result)
		}()
	}

	return &result, nil
}

// persistScore records the final score best-effort. The result is already
// finalized in memory; a failure here degrades history, nothing else.
func persistScore(ctx context.Context, recorder ScoreRecorder, log zerolog.Logger, r *model.ExamResult) {
	data := model.ScoreData{
		DNI:      r.Student.DNI,
		Score:    r.TotalScore,
		MaxScore: r.MaxScore,
		Area:     r.Student.Area,
		Correct:  r.CorrectCount(),
		Total:    len(r.Answers),
	}
	if err := recorder.SaveScore(context.WithoutCancel(ctx), data); err != nil {
		log.Warn().Err(err).Str("dni", data.DNI).Msg("score persistence failed")
	}
}

// AwaitScorePersistence blocks until the detached score save from the most
// recent finalization settles (success or failure), or ctx expires. Returns
// nil immediately when no save is pending.
func (m *Machine) AwaitScorePersistence(ctx context.Context) error {
	m.mu.Lock()
	done := m.persistDone
	m.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ElapsedSeconds returns the display timer's elapsed whole seconds. The
// value advances only while the exam is in progress; it freezes at
// finalization and returns to zero on reset.
func (m *Machine) ElapsedSeconds() int {
	m.mu.Lock()
	timer := m.timer
	m.mu.Unlock()
	return timer.Seconds()
}

// History fetches past attempts for the current student. Failures degrade
// to no history instead of propagating.
func (m *Machine) History(ctx context.Context) *model.UserHistory {
	m.mu.Lock()
	provider := m.providers.History
	student := m.student
	m.mu.Unlock()

	if provider == nil || student == nil {
		return nil
	}
	history, err := provider.FetchHistory(ctx, student.DNI)
	if err != nil {
		m.log.Warn().Err(err).Msg("history fetch failed")
		return nil
	}
	return history
}

// ResetExam returns every session field to its idle default, the student
// included. In-flight loads are invalidated so late responses cannot land
// in the fresh session.
func (m *Machine) ResetExam() {
	m.mu.Lock()

	m.loadGen++
	m.status = StatusIdle
	m.student = nil
	m.questions = nil
	m.currentIndex = 0
	m.savedAnswers = make(map[string]*int)
	m.result = nil
	m.errMsg = ""
	m.startTime = time.Time{}
	m.attemptID = uuid.UUID{}

	timer := m.timer
	m.mu.Unlock()

	timer.Reset(0)
	m.log.Info().Msg("session reset")
}
