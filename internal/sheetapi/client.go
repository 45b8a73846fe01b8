// Package sheetapi talks to the spreadsheet-backed remote API: rubric and
// question retrieval, score persistence, attempt history, registration and
// the pre-session access gate. The API is a single endpoint dispatching on
// an "action" query parameter and answering with a success/data/error
// envelope.
package sheetapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/simulacroapp/simulacro-engine/internal/config"
	"github.com/simulacroapp/simulacro-engine/internal/model"
)

// ErrNoBaseURL is returned when the client is constructed without an
// endpoint and a call is attempted anyway.
var ErrNoBaseURL = errors.New("remote API base URL is not configured")

// envelope is the remote API's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Client is the HTTP client for the remote store. It satisfies the session
// provider interfaces.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	submitTimeout time.Duration
	pingTimeout   time.Duration
	log           zerolog.Logger
}

// NewClient builds a client from configuration.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL:       cfg.APIBaseURL,
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
		submitTimeout: cfg.SubmitTimeout,
		pingTimeout:   cfg.PingTimeout,
		log:           log.With().Str("component", "sheetapi").Logger(),
	}
}

// FetchConfig retrieves the rubric for every area.
func (c *Client) FetchConfig(ctx context.Context) (model.Config, error) {
	var cfg model.Config
	if err := c.call(ctx, url.Values{"action": {"config"}}, 0, &cfg); err != nil {
		return nil, fmt.Errorf("fetch config: %w", err)
	}
	return cfg, nil
}

// FetchQuestions retrieves the ordered question set for an area. The server
// owns question selection and ordering.
func (c *Client) FetchQuestions(ctx context.Context, area model.Area) ([]model.Question, error) {
	var questions []model.Question
	params := url.Values{"action": {"questions"}, "area": {string(area)}}
	if err := c.call(ctx, params, 0, &questions); err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	return questions, nil
}

// SaveScore records a finalized score. The caller treats failures as
// non-fatal; this method only reports them.
func (c *Client) SaveScore(ctx context.Context, data model.ScoreData) error {
	params := url.Values{
		"action":   {"saveScore"},
		"dni":      {data.DNI},
		"score":    {formatFloat(data.Score)},
		"maxScore": {formatFloat(data.MaxScore)},
		"area":     {string(data.Area)},
		"correct":  {strconv.Itoa(data.Correct)},
		"total":    {strconv.Itoa(data.Total)},
	}
	if err := c.call(ctx, params, c.submitTimeout, nil); err != nil {
		return fmt.Errorf("save score: %w", err)
	}
	return nil
}

// FetchHistory retrieves past attempts for a DNI.
func (c *Client) FetchHistory(ctx context.Context, dni string) (*model.UserHistory, error) {
	var history model.UserHistory
	params := url.Values{"action": {"getHistory"}, "dni": {dni}}
	if err := c.call(ctx, params, c.submitTimeout, &history); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return &history, nil
}

// Register creates a user record in the remote store.
func (c *Client) Register(ctx context.Context, reg model.Registration) error {
	if fields := model.Validate(reg); fields != nil {
		return fmt.Errorf("invalid registration: %v", fields)
	}
	params := url.Values{
		"action":      {"register"},
		"dni":         {reg.DNI},
		"fullName":    {reg.FullName},
		"email":       {reg.Email},
		"phone":       {reg.Phone},
		"processType": {reg.ProcessType},
		"area":        {string(reg.Area)},
		"career":      {reg.Career},
	}
	if err := c.call(ctx, params, c.submitTimeout, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// CheckAccess consults the pre-session eligibility gate for an identity.
func (c *Client) CheckAccess(ctx context.Context, dni string) (model.AccessDecision, error) {
	var decision model.AccessDecision
	params := url.Values{"action": {"checkAccess"}, "dni": {dni}}
	if err := c.call(ctx, params, c.submitTimeout, &decision); err != nil {
		return model.AccessDecision{}, fmt.Errorf("check access: %w", err)
	}
	return decision, nil
}

// Ping probes the endpoint with a short timeout. Never returns an error;
// any failure means unreachable.
func (c *Client) Ping(ctx context.Context) bool {
	err := c.call(ctx, url.Values{"action": {"test"}}, c.pingTimeout, nil)
	return err == nil
}

// call performs one GET against the endpoint, decodes the envelope and
// unmarshals its data into out when out is non-nil. A non-zero timeout
// overrides the client default for this call.
func (c *Client) call(ctx context.Context, params url.Values, timeout time.Duration, out any) error {
	if c.baseURL == "" {
		return ErrNoBaseURL
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.New("the request took too long, please try again")
		}
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("action", params.Get("action")).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("remote call")

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		if env.Error != "" {
			return errors.New(env.Error)
		}
		return errors.New("the remote store rejected the request")
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
