package sheetapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/simulacroapp/simulacro-engine/internal/model"
)

// MockProvider serves the built-in rubric and generated practice questions
// without touching the network. Development-only: it exists so the engine
// can run offline, never as an error-handling fallback for the real API.
type MockProvider struct {
	log zerolog.Logger
}

// NewMockProvider creates an offline provider.
func NewMockProvider(log zerolog.Logger) *MockProvider {
	return &MockProvider{log: log.With().Str("component", "mock_provider").Logger()}
}

// FetchConfig returns the built-in rubric for every area.
func (p *MockProvider) FetchConfig(_ context.Context) (model.Config, error) {
	return mockConfig(), nil
}

// FetchQuestions generates the area's question set, grouped by subject in
// rubric order and never shuffled.
func (p *MockProvider) FetchQuestions(_ context.Context, area model.Area) ([]model.Question, error) {
	cfg := mockConfig().ForArea(area)
	if cfg == nil {
		return nil, fmt.Errorf("unknown area %q", area)
	}

	var questions []model.Question
	number := 1
	for _, s := range cfg.Subjects {
		for i := 0; i < s.QuestionCount; i++ {
			source := fmt.Sprintf("Examen_%s_2024.pdf", s.Name)
			questions = append(questions, model.Question{
				ID:           fmt.Sprintf("%s-%d", s.Name, i+1),
				Number:       number,
				QuestionText: fmt.Sprintf("Pregunta de práctica %d de %s.", i+1, s.Name),
				QuestionType: "Multiple Choice",
				Options: []string{
					"Opción A", "Opción B", "Opción C", "Opción D", "Opción E",
				},
				CorrectAnswer: rand.IntN(5),
				TimeSeconds:   180,
				Subject:       s.Name,
				Points:        s.MaxScore / float64(s.QuestionCount),
				SourceFile:    &source,
			})
			number++
		}
	}

	p.log.Debug().Str("area", string(area)).Int("count", len(questions)).
		Msg("generated mock questions")
	return questions, nil
}

// SaveScore logs the score and discards it.
func (p *MockProvider) SaveScore(_ context.Context, data model.ScoreData) error {
	p.log.Info().Str("dni", data.DNI).Float64("score", data.Score).
		Msg("mock score recorded")
	return nil
}

// FetchHistory reports an empty history.
func (p *MockProvider) FetchHistory(_ context.Context, dni string) (*model.UserHistory, error) {
	return &model.UserHistory{DNI: dni}, nil
}

// CheckAccess always grants access offline.
func (p *MockProvider) CheckAccess(_ context.Context, _ string) (model.AccessDecision, error) {
	return model.AccessDecision{CanAccess: true}, nil
}

// row builds one rubric subject entry.
func row(code int, name string, count int, weight, maxScore float64) model.Subject {
	return model.Subject{
		Code:              json.RawMessage(strconv.Itoa(code)),
		Name:              name,
		PointsPerQuestion: 10,
		QuestionCount:     count,
		Weight:            weight,
		MaxScore:          maxScore,
	}
}

// mockConfig reproduces the admission-exam rubric: 60 questions and 3000
// points per area, with per-area subject weighting.
func mockConfig() model.Config {
	return model.Config{
		string(model.AreaEngineering): {
			Name:           model.AreaEngineering,
			TotalQuestions: 60,
			TotalMaxScore:  3000,
			Subjects: []model.Subject{
				row(1, "Aritmética", 4, 5.201, 208.04),
				row(2, "Álgebra", 4, 5.202, 208.08),
				row(3, "Geometría", 4, 5.303, 212.12),
				row(4, "Trigonometría", 4, 5.404, 216.16),
				row(5, "Física", 4, 5.905, 236.2),
				row(6, "Química", 4, 5.406, 216.24),
				row(7, "Biología y Anatomía", 2, 3.177, 63.54),
				row(8, "Psicología y Filosofía", 4, 3.802, 152.08),
				row(9, "Geografía", 2, 2.576, 51.52),
				row(10, "Historia", 2, 3.701, 74.02),
				row(11, "Educación Cívica", 2, 3.101, 62.02),
				row(12, "Economía", 2, 3.502, 70.04),
				row(13, "Comunicación", 4, 3.352, 134.08),
				row(14, "Literatura", 2, 2.501, 50.02),
				row(15, "Razonamiento Matemático", 6, 7.603, 456.18),
				row(16, "Razonamiento Verbal", 6, 7.103, 426.18),
				row(17, "Inglés", 2, 4.087, 81.74),
				row(18, "Quechua y aimara", 2, 4.087, 81.74),
			},
		},
		string(model.AreaSocial): {
			Name:           model.AreaSocial,
			TotalQuestions: 60,
			TotalMaxScore:  3000,
			Subjects: []model.Subject{
				row(1, "Aritmética", 3, 3.331, 99.93),
				row(2, "Álgebra", 3, 3.185, 95.55),
				row(3, "Geometría", 2, 3.12, 62.4),
				row(4, "Trigonometría", 2, 3.12, 62.4),
				row(5, "Física", 2, 2.302, 46.04),
				row(6, "Química", 2, 2.404, 48.08),
				row(7, "Biología y Anatomía", 2, 2.504, 50.08),
				row(8, "Psicología y Filosofía", 4, 4.807, 192.28),
				row(9, "Geografía", 4, 4.907, 196.28),
				row(10, "Historia", 4, 5.805, 232.2),
				row(11, "Educación Cívica", 4, 6.576, 263.04),
				row(12, "Economía", 4, 4.607, 184.28),
				row(13, "Comunicación", 4, 6.09, 243.6),
				row(14, "Literatura", 4, 4.3, 172),
				row(15, "Razonamiento Matemático", 6, 7.203, 432.18),
				row(16, "Razonamiento Verbal", 6, 7.603, 456.18),
				row(17, "Inglés", 2, 4.087, 81.74),
				row(18, "Quechua y aimara", 2, 4.087, 81.74),
			},
		},
		string(model.AreaBiomedical): {
			Name:           model.AreaBiomedical,
			TotalQuestions: 60,
			TotalMaxScore:  3000,
			Subjects: []model.Subject{
				row(1, "Aritmética", 3, 3.331, 99.93),
				row(2, "Álgebra", 3, 3.202, 96.06),
				row(3, "Geometría", 3, 3.301, 99.03),
				row(4, "Trigonometría", 3, 3.404, 102.12),
				row(5, "Física", 3, 5.505, 165.15),
				row(6, "Química", 5, 6.623, 331.15),
				row(7, "Biología y Anatomía", 6, 7.816, 468.96),
				row(8, "Psicología y Filosofía", 4, 4.006, 160.24),
				row(9, "Geografía", 2, 2.8, 56),
				row(10, "Historia", 2, 3.302, 66.04),
				row(11, "Educación Cívica", 2, 3.571, 71.42),
				row(12, "Economía", 2, 3.406, 68.12),
				row(13, "Comunicación", 4, 3.302, 132.08),
				row(14, "Literatura", 2, 2.805, 56.1),
				row(15, "Razonamiento Matemático", 6, 7.201, 432.06),
				row(16, "Razonamiento Verbal", 6, 7.201, 432.06),
				row(17, "Inglés", 2, 4.087, 81.74),
				row(18, "Quechua y aimara", 2, 4.087, 81.74),
			},
		},
	}
}
