// Command simulacro runs one automated exam attempt end to end: it loads
// the rubric and question set, answers every question at random, finalizes
// the attempt and prints the scored result. Useful for exercising a remote
// endpoint or the offline provider without a UI.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/simulacroapp/simulacro-engine/internal/config"
	"github.com/simulacroapp/simulacro-engine/internal/format"
	"github.com/simulacroapp/simulacro-engine/internal/logger"
	"github.com/simulacroapp/simulacro-engine/internal/model"
	"github.com/simulacroapp/simulacro-engine/internal/scoring"
	"github.com/simulacroapp/simulacro-engine/internal/session"
	"github.com/simulacroapp/simulacro-engine/internal/sheetapi"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Bool("mock", cfg.UseMock).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Simulacro engine")

	ctx := context.Background()

	student := model.Student{
		DNI:      getEnv("STUDENT_DNI", "12345678"),
		FullName: getEnv("STUDENT_NAME", "Estudiante de Prueba"),
		Area:     model.Area(getEnv("STUDENT_AREA", string(model.AreaEngineering))),
	}

	// ─── Select Providers ──────────────────────────────────────────────
	providers, gate := buildProviders(ctx, cfg, log)

	// ─── Pre-session Access Gate ───────────────────────────────────────
	decision, err := gate.CheckAccess(ctx, student.DNI)
	if err != nil {
		log.Fatal().Err(err).Msg("Access check failed")
	}
	if !decision.CanAccess {
		fmt.Printf("Acceso denegado: %s (intentos: %d)\n", decision.Reason, decision.AttemptCount)
		os.Exit(1)
	}

	// ─── Run the Attempt ───────────────────────────────────────────────
	machine := session.New(providers, log)
	machine.SetThresholds(scoring.Thresholds{
		Excellent: cfg.ThresholdExcellent,
		Good:      cfg.ThresholdGood,
		Regular:   cfg.ThresholdRegular,
	})
	machine.SetTickHandler(func(seconds int) {
		log.Debug().Str("elapsed", format.Clock(seconds)).Msg("attempt running")
	})
	if err := machine.SetStudent(student); err != nil {
		log.Fatal().Err(err).Msg("Invalid student")
	}
	if err := machine.LoadConfig(ctx); err != nil {
		log.Fatal().Err(err).Str("detail", machine.Error()).Msg("Configuration load failed")
	}
	if err := machine.LoadQuestions(ctx, student.Area); err != nil {
		log.Fatal().Err(err).Str("detail", machine.Error()).Msg("Question load failed")
	}
	if err := machine.StartExam(); err != nil {
		log.Fatal().Err(err).Msg("Could not start exam")
	}

	for _, q := range machine.Snapshot().Questions {
		if len(q.Options) == 0 {
			machine.NextQuestion()
			continue
		}
		selected := rand.IntN(len(q.Options))
		if err := machine.SaveAnswer(q.ID, &selected); err != nil {
			log.Fatal().Err(err).Str("question", q.ID).Msg("Could not save answer")
		}
		machine.NextQuestion()
	}

	result, err := machine.FinishExam(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not finalize exam")
	}

	printResult(result)

	if history := machine.History(ctx); history != nil {
		fmt.Printf("\nIntentos previos: %d (mejor: %s)\n",
			history.TotalAttempts, format.Number(history.BestScore, 2))
	}

	// The score recorder runs detached from finalization; wait for it to
	// settle before the process exits.
	waitCtx, cancelWait := context.WithTimeout(ctx, cfg.SubmitTimeout+time.Second)
	defer cancelWait()
	if err := machine.AwaitScorePersistence(waitCtx); err != nil {
		log.Warn().Err(err).Msg("score save still pending at exit")
	}
}

// buildProviders wires either the offline provider or the remote client,
// probing the endpoint first so a dead URL fails fast.
func buildProviders(ctx context.Context, cfg *config.Config, log zerolog.Logger) (session.Providers, interface {
	CheckAccess(ctx context.Context, dni string) (model.AccessDecision, error)
}) {
	if cfg.UseMock {
		mock := sheetapi.NewMockProvider(log)
		return session.Providers{
			Config:    mock,
			Questions: mock,
			Scores:    mock,
			History:   mock,
		}, mock
	}

	client := sheetapi.NewClient(cfg, log)
	if !client.Ping(ctx) {
		log.Fatal().Str("url", cfg.APIBaseURL).Msg("Remote endpoint unreachable")
	}
	return session.Providers{
		Config:    client,
		Questions: client,
		Scores:    client,
		History:   client,
	}, client
}

func printResult(r *model.ExamResult) {
	fmt.Println("=== Resultado del Simulacro ===")
	fmt.Printf("Estudiante: %s (%s) — %s\n", r.Student.FullName, r.Student.DNI, r.Student.Area)
	fmt.Printf("Fecha:      %s\n", format.Date(r.Date))
	fmt.Printf("Duración:   %s\n", format.Readable(r.TotalTime))
	fmt.Printf("Puntaje:    %s / %s (%s%%)\n",
		format.Number(r.TotalScore, 2), format.Number(r.MaxScore, 2), format.Number(r.Percentage, 2))
	fmt.Printf("Nivel:      %s\n", r.PerformanceLevel)
	fmt.Printf("Correctas:  %d de %d\n\n", r.CorrectCount(), len(r.Answers))

	for _, s := range r.SubjectResults {
		fmt.Printf("  %-28s %2d/%2d  %s/%s pts\n",
			s.Name, s.CorrectAnswers, s.TotalQuestions,
			format.Number(s.PointsObtained, 2), format.Number(s.MaxPoints, 2))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
