package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"smartcampus/config"
	"smartcampus/errs"
	"smartcampus/models"
)

const maxErrorBody = 64 << 10

// Client talks to the campus backend. Every request carries a timeout and an
// X-Request-ID; reads are retried on network failures and 5xx/429 answers,
// writes are sent exactly once.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retries    uint64
	backoff    time.Duration
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetries sets how many times a failed read is attempted again.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = uint64(n)
		}
	}
}

// WithBackoff sets the base delay of the exponential read backoff.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retries:    2,
		backoff:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig builds a client from the shared configuration.
func FromConfig(cfg *config.Config) *Client {
	return NewClient(cfg.APIBaseURL, cfg.HTTPTimeout,
		WithToken(cfg.APIToken),
		WithRetries(cfg.HTTPRetries),
	)
}

func (c *Client) ListIssues(ctx context.Context) ([]models.Issue, error) {
	issues, err := read[[]models.Issue](ctx, c, "/api/issues")
	if err != nil {
		return nil, err
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	return issues, nil
}

func (c *Client) CreateIssue(ctx context.Context, draft models.IssueDraft) (*models.Issue, error) {
	var issue models.Issue
	if err := c.do(ctx, http.MethodPost, "/api/issues", draft, &issue); err != nil {
		return nil, err
	}
	if issue.ID == "" {
		return nil, errs.Decode("POST /api/issues", errors.New("created issue has no id"))
	}
	return &issue, nil
}

func (c *Client) DeleteIssue(ctx context.Context, id models.IssueID) error {
	return c.do(ctx, http.MethodDelete, "/api/issues/"+url.PathEscape(id.String()), nil, nil)
}

// Summary fetches the server-computed health summary.
func (c *Client) Summary(ctx context.Context) (*models.HealthSummary, error) {
	summary, err := read[models.HealthSummary](ctx, c, "/api/health/summary")
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) SubmitHealthReport(ctx context.Context, report models.HealthReport) error {
	return c.do(ctx, http.MethodPost, "/api/health/report", report, nil)
}

func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	var reply models.ChatReply
	if err := c.do(ctx, http.MethodPost, "/api/health/chat", req, &reply); err != nil {
		return "", err
	}
	return reply.Reply, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var session models.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Ping checks the backend liveness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := read[map[string]any](ctx, c, "/api/health")
	return err
}

func read[T any](ctx context.Context, c *Client, path string) (T, error) {
	var result T
	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var attempt T
		if err := c.do(ctx, http.MethodGet, path, nil, &attempt); err != nil {
			if errs.Retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		result = attempt
		return nil
	})
	if err != nil && errs.KindOf(err) == "" && ctx.Err() != nil {
		err = errs.Cancelled("GET "+path, err)
	}
	return result, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errs.Cancelled(op, ctx.Err())
		}
		return errs.Network(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.Server(op, resp.StatusCode, errorMessage(resp.Body))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Decode(op, err)
	}
	return nil
}

// errorMessage extracts {"error": "..."} from a failed response, falling back
// to the raw body.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
