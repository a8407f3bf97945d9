// Package labapi is the HTTP client for the lab backend endpoints.
package labapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/in4labs/robotics-console/internal/logging"
	"github.com/in4labs/robotics-console/internal/ui/messages"
	"github.com/in4labs/robotics-console/internal/ui/model"
)

const maxResponseBytes = 4 << 20

// Client issues lab requests. An empty base resolves endpoints relative to the page
// that served the console, which is how the browser bundle runs.
type Client struct {
	base   string
	client *http.Client
	logger logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithLogger records every request in the action log category.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New builds a Client for the lab mounted at base.
func New(base string, opts ...Option) *Client {
	base = strings.TrimSpace(base)
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}
	c := &Client{
		base: base,
		// Monitor requests block for the whole capture window on the backend.
		client: &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the normalised base URL.
func (c *Client) Base() string { return c.base }

// GetExample fetches the raw text of a named example sketch.
func (c *Client) GetExample(ctx context.Context, board, example string) (string, error) {
	q := url.Values{"board": {board}, "example": {example}}
	body, err := c.do(ctx, http.MethodGet, model.ActionExample, q)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Compile sends the editor text for compilation.
func (c *Client) Compile(ctx context.Context, board, text string) (model.CompileResponse, error) {
	var resp model.CompileResponse
	err := c.doJSON(ctx, http.MethodPost, model.ActionCompile, url.Values{"board": {board}, "text": {text}}, &resp)
	return resp, err
}

// Execute uploads the last compiled artifact (TargetUser) or the stop sketch (TargetStop).
func (c *Client) Execute(ctx context.Context, board, target string) (model.ExecuteResponse, error) {
	var resp model.ExecuteResponse
	err := c.doJSON(ctx, http.MethodPost, model.ActionExecute, url.Values{"board": {board}, "target": {target}}, &resp)
	return resp, err
}

// Monitor captures the board's serial output for the configured window.
func (c *Client) Monitor(ctx context.Context, board string, settings model.MonitorSettings) (model.MonitorResponse, error) {
	var resp model.MonitorResponse
	q := url.Values{
		"board":    {board},
		"baudrate": {strconv.Itoa(settings.Baudrate)},
		"seconds":  {strconv.Itoa(settings.Seconds)},
	}
	err := c.doJSON(ctx, http.MethodGet, model.ActionMonitor, q, &resp)
	return resp, err
}

// Suggest asks for improvement suggestions on the editor text.
func (c *Client) Suggest(ctx context.Context, board, text string) (model.SuggestResponse, error) {
	var resp model.SuggestResponse
	err := c.doJSON(ctx, http.MethodPost, model.ActionSuggest, url.Values{"board": {board}, "text": {text}}, &resp)
	return resp, err
}

// ResetLab power-cycles the lab hardware and loads the stop sketch on every board.
func (c *Client) ResetLab(ctx context.Context) (model.ResetResponse, error) {
	var resp model.ResetResponse
	err := c.doJSON(ctx, http.MethodGet, model.ActionReset, nil, &resp)
	return resp, err
}

// Paths served by the console host next to the lab endpoints.
const (
	ConsoleConfigPath   = "console/config"
	ConsoleMessagesPath = "console/messages"
)

// ConsoleConfig fetches the board list, deadline and camera URL from the console host.
func (c *Client) ConsoleConfig(ctx context.Context) (model.ConsoleConfig, error) {
	var cfg model.ConsoleConfig
	err := c.doJSON(ctx, http.MethodGet, model.Action(ConsoleConfigPath), nil, &cfg)
	return cfg, err
}

// Messages fetches the message table for the configured language.
func (c *Client) Messages(ctx context.Context) (messages.Table, error) {
	table := messages.Table{}
	if err := c.doJSON(ctx, http.MethodGet, model.Action(ConsoleMessagesPath), nil, &table); err != nil {
		return nil, err
	}
	return table.WithFallback(messages.English()), nil
}

func (c *Client) doJSON(ctx context.Context, method string, action model.Action, values url.Values, out any) error {
	body, err := c.do(ctx, method, action, values)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &TransportError{Endpoint: string(action), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, action model.Action, values url.Values) ([]byte, error) {
	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.NewRequestID()
	}
	started := time.Now()
	body, err := c.roundTrip(ctx, method, action, values, requestID)
	if c.logger != nil {
		ev := logging.ActionEvent{
			RequestID: requestID,
			Board:     values.Get("board"),
			Action:    string(action),
			Outcome:   "ok",
			Duration:  time.Since(started),
		}
		if err != nil {
			ev.Outcome = "error"
			ev.Message = err.Error()
		}
		logging.LogAction(c.logger, ev)
	}
	return body, err
}

func (c *Client) roundTrip(ctx context.Context, method string, action model.Action, values url.Values, requestID string) ([]byte, error) {
	endpoint := c.base + string(action)
	var payload io.Reader
	if method == http.MethodGet {
		if len(values) > 0 {
			endpoint += "?" + values.Encode()
		}
	} else {
		payload = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return nil, &TransportError{Endpoint: string(action), Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set(logging.RequestIDHeader, requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: string(action), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Endpoint: string(action), Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = resp.Status
		}
		return nil, &TransportError{Endpoint: string(action), Status: resp.StatusCode, Err: fmt.Errorf("%s", message)}
	}
	return body, nil
}
