package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/judge"
)

// resultFields limits the batch status payload to what the judge reads.
const resultFields = "token,status_id,status,stdout,stderr,compile_output,message,time,memory"

// maxResponseBytes caps how much of an engine response is read.
const maxResponseBytes = 8 << 20

var _ judge.Engine = (*Client)(nil)

// Config configures a Judge0 client.
type Config struct {
	BaseURL string
	// RapidAPI credentials, for the hosted Judge0 CE.
	APIKey  string
	APIHost string
	// AuthToken is sent as X-Auth-Token to self-hosted instances.
	AuthToken string
	Timeout   time.Duration
}

// Client talks to a Judge0 CE compatible engine over its batch API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a new Judge0 client.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type submission struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type batchRequest struct {
	Submissions []submission `json:"submissions"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type status struct {
	ID int `json:"id"`
}

type submissionDetails struct {
	Token         string   `json:"token"`
	StatusID      int      `json:"status_id"`
	Status        *status  `json:"status"`
	Stdout        *string  `json:"stdout"`
	Stderr        *string  `json:"stderr"`
	CompileOutput *string  `json:"compile_output"`
	Message       *string  `json:"message"`
	Time          seconds  `json:"time"`
	Memory        *float64 `json:"memory"`
}

type batchResponse struct {
	Submissions []submissionDetails `json:"submissions"`
}

// seconds decodes Judge0's "time" field, which is a decimal string ("0.002")
// on most versions and a number on some.
type seconds float64

func (s *seconds) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("judge0: invalid time %q: %w", raw, err)
	}
	*s = seconds(v)
	return nil
}

// SubmitBatch posts all requests in one call and returns their tokens in order.
// Entries the engine rejected come back with an empty token.
func (c *Client) SubmitBatch(ctx context.Context, reqs []domain.ExecutionRequest) ([]string, error) {
	body := batchRequest{Submissions: make([]submission, len(reqs))}
	for i, r := range reqs {
		body.Submissions[i] = submission{
			SourceCode:     r.SourceCode,
			LanguageID:     r.LanguageID,
			Stdin:          r.Stdin,
			ExpectedOutput: r.ExpectedOutput,
		}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("judge0: encode batch: %w", err)
	}

	var tokens []tokenResponse
	q := url.Values{"base64_encoded": {"true"}}
	if err := c.do(ctx, http.MethodPost, "/submissions/batch", q, payload, &tokens); err != nil {
		return nil, err
	}

	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Token
	}
	c.logger.Debug("Judge0 batch accepted", zap.Int("submissions", len(out)))
	return out, nil
}

// FetchBatch returns the current state of the tokens. Text fields stay base64 encoded.
func (c *Client) FetchBatch(ctx context.Context, tokens []string) ([]domain.ExecutionResult, error) {
	q := url.Values{
		"tokens":         {strings.Join(tokens, ",")},
		"base64_encoded": {"true"},
		"fields":         {resultFields},
	}

	var resp batchResponse
	if err := c.do(ctx, http.MethodGet, "/submissions/batch", q, nil, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.ExecutionResult, 0, len(resp.Submissions))
	for _, s := range resp.Submissions {
		statusID := s.StatusID
		if statusID == 0 && s.Status != nil {
			statusID = s.Status.ID
		}
		var memory int64
		if s.Memory != nil {
			memory = int64(*s.Memory)
		}
		results = append(results, domain.ExecutionResult{
			Token:         s.Token,
			StatusID:      statusID,
			Stdout:        deref(s.Stdout),
			Stderr:        deref(s.Stderr),
			CompileOutput: deref(s.CompileOutput),
			Message:       deref(s.Message),
			TimeSec:       float64(s.Time),
			MemoryKB:      memory,
		})
	}
	return results, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path+"?"+q.Encode(), reader)
	if err != nil {
		return fmt.Errorf("judge0: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
		req.Header.Set("X-RapidAPI-Host", c.cfg.APIHost)
	}
	if c.cfg.AuthToken != "" {
		req.Header.Set("X-Auth-Token", c.cfg.AuthToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: judge0: %s %s: %v", domain.ErrEngineUnavailable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: judge0: read response: %v", domain.ErrEngineUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Judge0 returned non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(data, 512)),
		)
		return fmt.Errorf("%w: judge0: %s %s returned %d", domain.ErrEngineUnavailable, method, path, resp.StatusCode)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: judge0: decode %s response: %v", domain.ErrEngineUnavailable, path, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
