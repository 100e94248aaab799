package erpdesk

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/erpdesk/erpdesk.go/pkg/constants"
	"github.com/erpdesk/erpdesk.go/pkg/logger"
	"github.com/erpdesk/erpdesk.go/pkg/logstream"
	"github.com/erpdesk/erpdesk.go/pkg/transport"
	"github.com/erpdesk/erpdesk.go/pkg/validate"
)

// Config configures a Client.
type Config struct {
	// Endpoint is the http(s) base URL of the ERPDesk API.
	Endpoint string
	// Token is the initial bearer token, if already known.
	Token string
	// Timeout bounds ordinary API calls. Zero means the 30s default; report
	// generation always gets its own 120s deadline.
	Timeout time.Duration
	// Logger defaults to a zerolog logger on stderr.
	Logger logger.Logger
	// OnSessionInvalid fires when a 401 clears the stored credentials.
	OnSessionInvalid func()
}

// Client is the entry point of the SDK. Construct one per backend endpoint
// and pass it explicitly to whatever owns the UI scope; each service's store
// lives as long as the Client does.
type Client struct {
	transport *transport.Client
	log       logger.Logger

	invoices  *Invoices
	reports   *FinanceReports
	companies *Companies
	syslogs   *SystemLogs
	dashboard *Dashboard
}

// New validates the endpoint and builds a Client with all services in their
// initial state.
func New(cfg Config) (*Client, error) {
	log := cfg.Logger
	if log == nil {
		log = logger.New(nil)
	}

	tc, err := transport.New(transport.Config{
		BaseURL:          cfg.Endpoint,
		Token:            cfg.Token,
		Timeout:          cfg.Timeout,
		Logger:           log,
		OnSessionInvalid: cfg.OnSessionInvalid,
	})
	if err != nil {
		return nil, err
	}

	val := validate.NewStructValidator()
	c := &Client{
		transport: tc,
		log:       log,
	}
	c.invoices = newInvoices(tc, val, log)
	c.reports = newFinanceReports(tc, val, log)
	c.companies = newCompanies(tc, val, log)
	c.syslogs = newSystemLogs(tc, log)
	c.dashboard = newDashboard(tc, log)
	return c, nil
}

// SetToken stores the bearer token attached to every request.
func (c *Client) SetToken(token string) {
	c.transport.SetToken(token)
}

// Token returns the stored bearer token, empty when unauthenticated.
func (c *Client) Token() string {
	return c.transport.Token()
}

// ClearToken drops the stored credentials.
func (c *Client) ClearToken() {
	c.transport.ClearToken()
}

func (c *Client) Invoices() *Invoices {
	return c.invoices
}

func (c *Client) Reports() *FinanceReports {
	return c.reports
}

func (c *Client) Companies() *Companies {
	return c.companies
}

func (c *Client) SystemLogs() *SystemLogs {
	return c.syslogs
}

func (c *Client) Dashboard() *Dashboard {
	return c.dashboard
}

// LogStream opens a live tail of the backend's system-log feed. The stream
// is independent of the SystemLogs store; close it when the tail is no
// longer needed.
func (c *Client) LogStream(ctx context.Context) (*logstream.Stream, error) {
	wsURL, err := websocketURL(c.transport.BaseURL(), "/ws/systemlogs")
	if err != nil {
		return nil, err
	}
	return logstream.Connect(ctx, logstream.Config{
		URL:    wsURL,
		Token:  c.transport.Token(),
		Logger: c.log,
	})
}

// websocketURL swaps the endpoint's scheme for its websocket counterpart and
// appends path.
func websocketURL(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", base, err)
	}
	switch u.Scheme {
	case constants.HTTPScheme:
		u.Scheme = constants.WebsocketScheme
	case constants.HTTPSecureScheme:
		u.Scheme = constants.WebsocketSecureScheme
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String(), nil
}
