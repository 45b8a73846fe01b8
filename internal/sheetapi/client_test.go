package sheetapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/simulacroapp/simulacro-engine/internal/config"
	"github.com/simulacroapp/simulacro-engine/internal/model"
)

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{
		APIBaseURL:     baseURL,
		RequestTimeout: 5 * time.Second,
		SubmitTimeout:  5 * time.Second,
		PingTimeout:    time.Second,
	}
	return NewClient(cfg, zerolog.Nop())
}

func TestFetchConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "config" {
			t.Errorf("action = %q, want config", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		w.Write([]byte(`{
			"success": true,
			"data": {
				"Ingenierías": {
					"name": "Ingenierías",
					"totalQuestions": 2,
					"totalMaxScore": 300,
					"subjects": [
						{"code": 1, "name": "Álgebra", "pointsPerQuestion": 150, "questionCount": 2, "weight": 100, "maxScore": 300}
					]
				}
			}
		}`))
	}))
	defer srv.Close()

	cfg, err := newTestClient(srv.URL).FetchConfig(context.Background())
	if err != nil {
		t.Fatalf("FetchConfig: %v", err)
	}

	ac := cfg.ForArea(model.AreaEngineering)
	if ac == nil {
		t.Fatal("area missing from decoded config")
	}
	if ac.TotalMaxScore != 300 || len(ac.Subjects) != 1 {
		t.Errorf("decoded area = %+v", ac)
	}
	if s := ac.SubjectByName("Álgebra"); s == nil || s.MaxScore != 300 {
		t.Errorf("subject = %+v", s)
	}
}

func TestFetchQuestions_SendsArea(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "questions" {
			t.Errorf("action = %q, want questions", got)
		}
		if got := r.URL.Query().Get("area"); got != "Biomédicas" {
			t.Errorf("area = %q, want Biomédicas", got)
		}
		w.Write([]byte(`{
			"success": true,
			"data": [
				{"id": "q-1", "number": 1, "questionText": "¿?", "options": ["a","b","c","d","e"], "correctAnswer": 2, "subject": "Biología"}
			]
		}`))
	}))
	defer srv.Close()

	questions, err := newTestClient(srv.URL).FetchQuestions(context.Background(), model.AreaBiomedical)
	if err != nil {
		t.Fatalf("FetchQuestions: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != "q-1" || questions[0].CorrectAnswer != 2 {
		t.Errorf("decoded questions = %+v", questions)
	}
}

func TestSaveScore_SerializesPayload(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{"success": true, "data": null}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SaveScore(context.Background(), model.ScoreData{
		DNI:      "12345678",
		Score:    1850.5,
		MaxScore: 3000,
		Area:     model.AreaSocial,
		Correct:  37,
		Total:    60,
	})
	if err != nil {
		t.Fatalf("SaveScore: %v", err)
	}

	want := map[string]string{
		"action":   "saveScore",
		"dni":      "12345678",
		"score":    "1850.5",
		"maxScore": "3000",
		"area":     "Sociales",
		"correct":  "37",
		"total":    "60",
	}
	for k, v := range want {
		if query[k] != v {
			t.Errorf("query[%s] = %q, want %q", k, query[k], v)
		}
	}
}

func TestSaveScore_ReportsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": "DNI no registrado"}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).SaveScore(context.Background(), model.ScoreData{DNI: "12345678"})
	if err == nil || !strings.Contains(err.Error(), "DNI no registrado") {
		t.Errorf("err = %v, want the server message surfaced", err)
	}
}

func TestCall_RejectionWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchConfig(context.Background())
	if err == nil {
		t.Fatal("expected error for unsuccessful envelope")
	}
}

func TestCall_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchConfig(context.Background())
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("err = %v, want HTTP status surfaced", err)
	}
}

func TestCall_NoBaseURL(t *testing.T) {
	_, err := newTestClient("").FetchConfig(context.Background())
	if !errors.Is(err, ErrNoBaseURL) {
		t.Errorf("err = %v, want ErrNoBaseURL", err)
	}
}

func TestFetchHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("dni"); got != "87654321" {
			t.Errorf("dni = %q, want 87654321", got)
		}
		w.Write([]byte(`{
			"success": true,
			"data": {
				"dni": "87654321",
				"totalIntentos": 2,
				"mejorPuntaje": 2100.5,
				"ultimoPuntaje": 1980,
				"history": [
					{"fecha": "2025-05-20", "area": "Sociales", "puntaje": 2100.5, "puntajeMax": 3000, "correctas": 42, "total": 60, "porcentaje": 70.02}
				]
			}
		}`))
	}))
	defer srv.Close()

	history, err := newTestClient(srv.URL).FetchHistory(context.Background(), "87654321")
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if history.TotalAttempts != 2 || history.BestScore != 2100.5 {
		t.Errorf("history = %+v", history)
	}
	if len(history.History) != 1 || history.History[0].Correct != 42 {
		t.Errorf("entries = %+v", history.History)
	}
}

func TestCheckAccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "data": {"canAccess": false, "reason": "límite de intentos alcanzado", "attemptCount": 3}}`))
	}))
	defer srv.Close()

	decision, err := newTestClient(srv.URL).CheckAccess(context.Background(), "12345678")
	if err != nil {
		t.Fatalf("CheckAccess: %v", err)
	}
	if decision.CanAccess || decision.AttemptCount != 3 {
		t.Errorf("decision = %+v", decision)
	}
}

func TestRegister_ValidatesBeforeCalling(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"success": true, "data": null}`))
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Register(context.Background(), model.Registration{
		DNI: "12", FullName: "X", Email: "not-an-email",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if called {
		t.Error("invalid registration reached the network")
	}

	err = newTestClient(srv.URL).Register(context.Background(), model.Registration{
		DNI:         "12345678",
		FullName:    "Rosa Quispe",
		Email:       "rosa@example.com",
		Phone:       "951234567",
		ProcessType: "GENERAL",
		Area:        model.AreaSocial,
		Career:      "Derecho",
	})
	if err != nil {
		t.Errorf("valid registration failed: %v", err)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("action"); got != "test" {
			t.Errorf("action = %q, want test", got)
		}
		w.Write([]byte(`{"success": true, "data": null}`))
	}))

	c := newTestClient(srv.URL)
	if !c.Ping(context.Background()) {
		t.Error("ping against a healthy endpoint reported unreachable")
	}

	srv.Close()
	if c.Ping(context.Background()) {
		t.Error("ping against a closed endpoint reported reachable")
	}
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider(zerolog.Nop())
	ctx := context.Background()

	cfg, err := p.FetchConfig(ctx)
	if err != nil {
		t.Fatalf("FetchConfig: %v", err)
	}
	if len(cfg) != len(model.Areas) {
		t.Fatalf("areas = %d, want %d", len(cfg), len(model.Areas))
	}

	for _, area := range model.Areas {
		t.Run(string(area), func(t *testing.T) {
			ac := cfg.ForArea(area)
			if ac == nil {
				t.Fatal("area missing from mock rubric")
			}
			if err := ac.CheckConsistency(); err != nil {
				t.Errorf("rubric inconsistent: %v", err)
			}
			if ac.TotalQuestions != 60 || ac.TotalMaxScore != 3000 {
				t.Errorf("totals = %d questions / %v points, want 60 / 3000",
					ac.TotalQuestions, ac.TotalMaxScore)
			}

			questions, err := p.FetchQuestions(ctx, area)
			if err != nil {
				t.Fatalf("FetchQuestions: %v", err)
			}
			if len(questions) != 60 {
				t.Fatalf("questions = %d, want 60", len(questions))
			}

			// Questions arrive grouped by subject, one contiguous block per
			// rubric row, numbered sequentially.
			i := 0
			for _, s := range ac.Subjects {
				for j := 0; j < s.QuestionCount; j++ {
					q := questions[i]
					if q.Subject != s.Name {
						t.Fatalf("question %d subject = %q, want %q", i, q.Subject, s.Name)
					}
					if q.Number != i+1 {
						t.Errorf("question %d number = %d, want %d", i, q.Number, i+1)
					}
					if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
						t.Errorf("question %d answer %d outside options", i, q.CorrectAnswer)
					}
					i++
				}
			}
		})
	}

	decision, err := p.CheckAccess(ctx, "12345678")
	if err != nil {
		t.Fatalf("CheckAccess: %v", err)
	}
	if !decision.CanAccess {
		t.Error("mock gate denied access")
	}

	if err := p.SaveScore(ctx, model.ScoreData{DNI: "12345678"}); err != nil {
		t.Errorf("SaveScore: %v", err)
	}
	if _, err := p.FetchHistory(ctx, "12345678"); err != nil {
		t.Errorf("FetchHistory: %v", err)
	}
}
