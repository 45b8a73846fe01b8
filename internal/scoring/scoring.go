// Package scoring holds the pure exam scoring engine: deterministic
// transformations from a question set plus evaluated answers into
// per-subject and aggregate results. No I/O, no mutable state; calling any
// function twice with the same inputs yields identical outputs.
package scoring

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/simulacroapp/simulacro-engine/internal/model"
)

// subjectCollator orders subject names locale-aware so results are stable
// across platforms. Subject labels are Spanish.
var subjectCollator = collate.New(language.Spanish)

// ComputeSubjectResults partitions questions by subject label and aggregates
// the matching evaluated answers. Answers referencing unknown question IDs
// are ignored; subjects with no matching answers report zero correct.
// maxPoints comes from the rubric when it carries the subject, otherwise
// from the sum of the group's per-question points. Output is sorted by
// subject name ascending.
func ComputeSubjectResults(questions []model.Question, answers []model.Answer, cfg *model.AreaConfig) []model.SubjectResult {
	type group struct {
		questions []model.Question
		correct   int
	}

	groups := make(map[string]*group)
	order := make([]string, 0)
	byID := make(map[string]string, len(questions)) // question ID → subject

	for _, q := range questions {
		g, ok := groups[q.Subject]
		if !ok {
			g = &group{}
			groups[q.Subject] = g
			order = append(order, q.Subject)
		}
		g.questions = append(g.questions, q)
		byID[q.ID] = q.Subject
	}

	for _, a := range answers {
		subject, ok := byID[a.QuestionID]
		if !ok {
			continue // answer for a question outside the loaded set
		}
		if a.IsCorrect {
			groups[subject].correct++
		}
	}

	results := make([]model.SubjectResult, 0, len(order))
	for _, name := range order {
		g := groups[name]
		total := len(g.questions)

		var percentage float64
		if total > 0 {
			percentage = float64(g.correct) / float64(total) * 100
		}

		maxPoints := 0.0
		if cfg != nil {
			if s := cfg.SubjectByName(name); s != nil {
				maxPoints = s.MaxScore
			}
		}
		if maxPoints == 0 {
			for _, q := range g.questions {
				maxPoints += q.Points
			}
		}

		pointsPerQuestion := 0.0
		if total > 0 {
			pointsPerQuestion = maxPoints / float64(total)
		}

		results = append(results, model.SubjectResult{
			Name:           name,
			CorrectAnswers: g.correct,
			TotalQuestions: total,
			Percentage:     round2(percentage),
			PointsObtained: round2(float64(g.correct) * pointsPerQuestion),
			MaxPoints:      round2(maxPoints),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return subjectCollator.CompareString(results[i].Name, results[j].Name) < 0
	})

	return results
}

// Input carries everything ComputeExamResult needs. FinishTime is passed in
// rather than read from the wall clock so the function stays referentially
// transparent.
type Input struct {
	AttemptID  uuid.UUID
	Student    model.Student
	Questions  []model.Question
	Answers    []model.Answer
	AreaConfig *model.AreaConfig
	StartTime  time.Time
	FinishTime time.Time
	Thresholds Thresholds
}

// ComputeExamResult produces the immutable result for one attempt.
// totalScore is the sum of per-subject points; maxScore prefers the rubric's
// authoritative TotalMaxScore and falls back to summed subject maxima when
// no rubric is present. The performance tier is classified against the
// absolute totalScore, not the percentage.
func ComputeExamResult(in Input) model.ExamResult {
	subjectResults := ComputeSubjectResults(in.Questions, in.Answers, in.AreaConfig)

	var totalScore, maxScore float64
	for _, r := range subjectResults {
		totalScore += r.PointsObtained
		maxScore += r.MaxPoints
	}
	if in.AreaConfig != nil && in.AreaConfig.TotalMaxScore > 0 {
		maxScore = in.AreaConfig.TotalMaxScore
	}

	var percentage float64
	if maxScore > 0 {
		percentage = totalScore / maxScore * 100
	}

	totalTime := int(math.Round(in.FinishTime.Sub(in.StartTime).Seconds()))
	if totalTime < 0 {
		totalTime = 0
	}

	return model.ExamResult{
		AttemptID:        in.AttemptID,
		Student:          in.Student,
		Date:             in.FinishTime,
		TotalScore:       round2(totalScore),
		MaxScore:         round2(maxScore),
		Percentage:       round2(percentage),
		SubjectResults:   subjectResults,
		Answers:          in.Answers,
		TotalTime:        totalTime,
		PerformanceLevel: in.Thresholds.orDefault().Classify(totalScore),
	}
}

// round2 rounds half away from zero to two decimals, matching the remote
// store's arithmetic.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
