package nucleo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-botvac/internal/robot"
)

const (
	// DefaultBaseURL is the public Nucleo endpoint.
	DefaultBaseURL = "https://nucleo.neatocloud.com:4443"

	// DefaultTimeout bounds a single request when Config.Timeout is zero.
	DefaultTimeout = 10 * time.Second

	acceptHeader = "application/vnd.neato.nucleo.v1"

	// maxResponseBytes caps the response body read from Nucleo.
	maxResponseBytes = 1 << 20
)

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Config holds Client settings.
type Config struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Timeout defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the HTTP client. Its Timeout is left untouched.
	HTTPClient *http.Client
}

// Client sends signed commands to Nucleo.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	secrets SecretStore
	logger  Logger
	now     func() time.Time
	reqID   atomic.Int64
}

// request is the wire form of a robot command.
type request struct {
	ReqID  int64          `json:"reqId"`
	Cmd    string         `json:"cmd"`
	Params map[string]any `json:"params,omitempty"`
}

// New creates a Client.
func New(cfg Config, secrets SecretStore) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: base,
		http:    hc,
		secrets: secrets,
		logger:  noopLogger{},
		now:     time.Now,
	}
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// Send signs and posts cmd to the robot's message endpoint and returns the
// decoded JSON reply.
func (c *Client) Send(ctx context.Context, serial string, cmd robot.Command) (robot.Response, error) {
	secret, err := c.secrets.Secret(ctx, serial)
	if err != nil {
		return nil, err
	}

	// reqId starts at zero for each client.
	id := c.reqID.Add(1) - 1
	body, err := json.Marshal(request{ReqID: id, Cmd: cmd.Name, Params: cmd.Params})
	if err != nil {
		return nil, fmt.Errorf("encoding command: %w", err)
	}

	endpoint := c.baseURL + "/vendors/neato/robots/" + url.PathEscape(serial) + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	date := c.now().UTC().Format(http.TimeFormat)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Date", date)
	req.Header.Set("Authorization", "NEATOAPP "+Sign(secret, serial, date, body))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending %s to %s: %w", cmd.Name, serial, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.logger.Debug("nucleo request",
		"serial", serial,
		"cmd", cmd.Name,
		"req_id", id,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d: %s",
			ErrRequestFailed, cmd.Name, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out robot.Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return out, nil
}
