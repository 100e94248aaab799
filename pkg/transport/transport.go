// Package transport is the single HTTP boundary of the SDK. Every call goes
// out with the bearer token attached, and every response comes back either as
// the decoded Data of a {Success, Message, Data} envelope or as one of the
// typed errors in errors.go. Callers never see a partial success silently.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/erpdesk/erpdesk.go/pkg/constants"
	"github.com/erpdesk/erpdesk.go/pkg/logger"
)

// Envelope is the wrapper every backend response is assumed to carry.
type Envelope struct {
	Success bool            `json:"Success"`
	Message string          `json:"Message"`
	Data    json.RawMessage `json:"Data"`
}

// Config configures a transport Client.
type Config struct {
	// BaseURL is the ERPDesk API endpoint, e.g. "https://erp.example.com/api".
	BaseURL string
	// Token is the initial bearer token, if already known.
	Token string
	// Timeout bounds each request whose context carries no deadline of its
	// own. Zero means constants.DefaultTimeout.
	Timeout time.Duration
	// Logger receives request-level debug logging. Nil disables it.
	Logger logger.Logger
	// OnSessionInvalid fires after a 401 clears the stored token. Hosts use
	// it to route the user back to login.
	OnSessionInvalid func()
}

// Client wraps a resty client with token handling and envelope decoding.
type Client struct {
	rc      *resty.Client
	log     logger.Logger
	timeout time.Duration

	mu               sync.RWMutex
	token            string
	onSessionInvalid func()
}

// New validates the endpoint and builds a Client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, constants.ErrNoBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute with a host, got %q", cfg.BaseURL)
	}
	if u.Scheme != constants.HTTPScheme && u.Scheme != constants.HTTPSecureScheme {
		return nil, fmt.Errorf("base URL scheme must be http or https, got %q", u.Scheme)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = constants.DefaultTimeout
	}

	// No client-wide timeout here: a global http.Client.Timeout would cap
	// long-running calls that carry their own, wider context deadline. The
	// default deadline is applied per call instead.
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		rc:               rc,
		log:              cfg.Logger,
		timeout:          timeout,
		token:            cfg.Token,
		onSessionInvalid: cfg.OnSessionInvalid,
	}, nil
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.rc.BaseURL
}

// SetToken replaces the stored bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the stored bearer token, empty when unauthenticated.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ClearToken drops the stored bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Call issues one request and returns the JSON-decoded Data of the response
// envelope, or nil when Data is absent. All failure modes surface as the
// typed errors of this package. The configured timeout applies only when ctx
// has no deadline, so callers with a wider deadline keep it.
func (c *Client) Call(ctx context.Context, method, path string, query map[string]string, body any) (any, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := c.rc.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if tok := c.Token(); tok != "" {
		req.SetHeader("Authorization", "Bearer "+tok)
	}

	if c.log != nil {
		c.log.Debug("api call", "method", method, "path", path)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return c.decode(resp)
}

func (c *Client) decode(resp *resty.Response) (any, error) {
	status := resp.StatusCode()
	switch {
	case status == http.StatusUnauthorized:
		c.invalidateSession()
		return nil, &AuthenticationError{Message: "session is no longer valid"}
	case status == http.StatusNotFound:
		return nil, &NotFoundError{Path: resp.Request.URL}
	case status >= http.StatusInternalServerError:
		return nil, &ServerError{Status: status, Message: serverMessage(resp.Body())}
	}

	contentType := resp.Header().Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		return nil, &MalformedResponseError{
			ContentType: contentType,
			Err:         fmt.Errorf("HTML payload where JSON was expected"),
		}
	}

	var env Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &MalformedResponseError{ContentType: contentType, Err: err}
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request rejected by server"
		}
		return nil, &ApplicationError{Message: msg}
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, nil
	}
	var data any
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &MalformedResponseError{ContentType: contentType, Err: err}
	}
	return data, nil
}

// invalidateSession clears the stored token and notifies the host. Continued
// use without new credentials is impossible, so this is the closest thing the
// client has to a fatal condition.
func (c *Client) invalidateSession() {
	c.mu.Lock()
	c.token = ""
	hook := c.onSessionInvalid
	c.mu.Unlock()

	if c.log != nil {
		c.log.Warn("session invalid, credentials cleared")
	}
	if hook != nil {
		hook()
	}
}

// serverMessage pulls the envelope message out of a 5xx body when one exists.
func serverMessage(body []byte) string {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
