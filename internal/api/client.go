// Package api is the HTTP client for the roadmap task repository.
//
// Endpoints live under {baseURL}/api/ and exchange JSON. Error responses may carry a
// "message" field, which is surfaced verbatim through *Error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roadmap-cli/internal/model"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

type Options struct {
	// BaseURL is the server root; "/api" is appended by the client.
	BaseURL string
	// Token is sent as a bearer token when set.
	Token   string
	Timeout time.Duration
	Logger  *zap.Logger

	// HTTPClient overrides the transport (tests). Token and Timeout are ignored when set.
	HTTPClient *http.Client
}

// Client talks to the remote task repository.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api base url is empty")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		if tok := strings.TrimSpace(opts.Token); tok != "" {
			ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"})
			hc = oauth2.NewClient(context.Background(), ts)
		} else {
			hc = &http.Client{}
		}
		hc.Timeout = timeout
	}

	return &Client{
		baseURL:    base + "/api",
		httpClient: hc,
		logger:     logger.Named("api"),
	}, nil
}

func (c *Client) ListTemplates(ctx context.Context) ([]model.Template, error) {
	var out []model.Template
	if err := c.do(ctx, http.MethodGet, "/roadmap-templates", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAreas(ctx context.Context, templateID string) ([]model.Area, error) {
	var out []model.Area
	if err := c.do(ctx, http.MethodGet, templatePath(templateID, "areas"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPhases(ctx context.Context, templateID string) ([]model.Phase, error) {
	var out []model.Phase
	if err := c.do(ctx, http.MethodGet, templatePath(templateID, "phases"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListTasks(ctx context.Context, templateID string) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, http.MethodGet, templatePath(templateID, "tasks"), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodGet, taskPath(taskID), nil, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, templateID string, in model.TaskInput) (model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPost, templatePath(templateID, "tasks"), in, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, in model.TaskInput) (model.Task, error) {
	var out model.Task
	if err := c.do(ctx, http.MethodPut, taskPath(taskID), in, &out); err != nil {
		return model.Task{}, err
	}
	return out, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, taskPath(taskID), nil, nil)
}

func templatePath(templateID, collection string) string {
	return "/roadmap-templates/" + url.PathEscape(templateID) + "/" + collection
}

func taskPath(taskID string) string {
	return "/tasks/" + url.PathEscape(taskID)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var rdr io.Reader
	if body != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rdr = &buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		apiErr := &Error{Status: resp.StatusCode, Message: decodeMessage(raw)}
		c.logger.Warn("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Message)
}
