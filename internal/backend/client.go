// Package backend talks to the course-generation HTTP API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mithrel/tutor/pkg/api"
)

// ErrUnavailable wraps transport failures: refused connections, timeouts, cancelled requests.
var ErrUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx response from the backend.
type APIError struct {
	Endpoint string
	Status   int
	Detail   string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %d %s", e.Endpoint, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s: %d %s", e.Endpoint, e.Status, e.Detail)
}

type Options struct {
	BaseURL    string
	APIVersion string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type Client struct {
	base    string
	version string
	token   string
	http    *http.Client
	log     *zap.Logger
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must be an http(s) url", opts.BaseURL)
	}
	ver := opts.APIVersion
	if ver == "" {
		ver = "v1"
	}
	if ver != "v1" && ver != "v2" {
		return nil, fmt.Errorf("unsupported api version %q", ver)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Client{base: base, version: ver, token: opts.Token, http: hc, log: lg.Named("backend")}, nil
}

func (c *Client) BaseURL() string { return c.base }

func (c *Client) PlanCourse(ctx context.Context, req api.CourseRequest) (api.CourseOutline, error) {
	var out api.CourseOutline
	if err := req.Validate(); err != nil {
		return out, err
	}
	if req.LearningObjectives == nil {
		req.LearningObjectives = []string{}
	}
	err := c.do(ctx, http.MethodPost, c.versioned("plan-course"), req, &out)
	return out, err
}

func (c *Client) PlanModule(ctx context.Context, req api.ModuleRequest) (api.ModuleOutline, error) {
	var out api.ModuleOutline
	if err := req.Validate(); err != nil {
		return out, err
	}
	err := c.do(ctx, http.MethodPost, c.versioned("plan-module"), req, &out)
	return out, err
}

func (c *Client) CreateLessonContent(ctx context.Context, req api.LessonRequest) (api.LessonContent, error) {
	var out api.LessonContent
	if err := req.Validate(); err != nil {
		return out, err
	}
	err := c.do(ctx, http.MethodPost, c.versioned("create-lesson-content"), req, &out)
	return out, err
}

func (c *Client) CreateQuiz(ctx context.Context, req api.QuizRequest) (api.Quiz, error) {
	var out api.Quiz
	if err := req.Validate(); err != nil {
		return out, err
	}
	err := c.do(ctx, http.MethodPost, c.versioned("create-quiz"), req, &out)
	return out, err
}

// Health probes the v2 health endpoint regardless of the configured version.
func (c *Client) Health(ctx context.Context) (api.Health, error) {
	var out api.Health
	err := c.do(ctx, http.MethodGet, "/api/v2/health", nil, &out)
	return out, err
}

func (c *Client) SendFeedback(ctx context.Context, fb api.Feedback) (api.FeedbackResult, error) {
	var out api.FeedbackResult
	if err := fb.Validate(); err != nil {
		return out, err
	}
	err := c.do(ctx, http.MethodPost, "/api/v2/feedback", fb, &out)
	return out, err
}

// ExportCourse asks the backend to export a course; format is md, html or pdf.
func (c *Client) ExportCourse(ctx context.Context, courseID, format string) (api.ExportResult, error) {
	var out api.ExportResult
	if strings.TrimSpace(courseID) == "" {
		return out, &api.FieldError{Field: "course_id", Msg: "is required"}
	}
	switch format {
	case "":
		format = "md"
	case "md", "html", "pdf":
	default:
		return out, &api.FieldError{Field: "format", Msg: "must be one of md|html|pdf"}
	}
	p := "/api/v2/export-course/" + url.PathEscape(courseID) + "?format=" + url.QueryEscape(format)
	err := c.do(ctx, http.MethodGet, p, nil, &out)
	return out, err
}

func (c *Client) versioned(op string) string {
	return "/api/" + c.version + "/" + op
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("endpoint", path), zap.Duration("latency", time.Since(start)), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrUnavailable, path, err)
	}
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("endpoint", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Endpoint: path, Status: resp.StatusCode, Detail: parseDetail(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// parseDetail extracts the error detail a FastAPI-style backend returns.
// detail may be a string or a list of validation errors.
func parseDetail(raw []byte) string {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}
	var s string
	if json.Unmarshal(env.Detail, &s) == nil {
		return s
	}
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if json.Unmarshal(env.Detail, &items) == nil && len(items) > 0 {
		parts := make([]string, 0, len(items))
		for _, it := range items {
			loc := make([]string, 0, len(it.Loc))
			for _, l := range it.Loc {
				loc = append(loc, fmt.Sprint(l))
			}
			if len(loc) > 0 {
				parts = append(parts, strings.Join(loc, ".")+": "+it.Msg)
			} else {
				parts = append(parts, it.Msg)
			}
		}
		return strings.Join(parts, "; ")
	}
	return string(env.Detail)
}

// IsUnavailable reports whether err came from a transport failure.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// Detail returns a user-facing message for err.
func Detail(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		if ae.Detail != "" {
			return ae.Detail
		}
		return http.StatusText(ae.Status)
	}
	if IsUnavailable(err) {
		return "the course backend is not reachable"
	}
	return err.Error()
}
