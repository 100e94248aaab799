package transport_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpdesk/erpdesk.go/internal/fakeerp"
	"github.com/erpdesk/erpdesk.go/pkg/transport"
)

func newClient(t *testing.T, srv *fakeerp.Server, cfg transport.Config) *transport.Client {
	t.Helper()
	cfg.BaseURL = srv.URL()
	c, err := transport.New(cfg)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadEndpoints(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"relative", "/api"},
		{"no host", "http://"},
		{"wrong scheme", "ftp://erp.example.com"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := transport.New(transport.Config{BaseURL: c.url})
			assert.Error(t, err)
		})
	}
}

func TestCallSuccess(t *testing.T) {
	srv := fakeerp.New()
	defer srv.Close()
	srv.Stub(fakeerp.Stub{
		Method: http.MethodGet,
		Path:   "/invoices",
		Body:   fakeerp.OK(map[string]any{"Total": 3}),
	})

	c := newClient(t, srv, transport.Config{Token: "tok-123"})
	data, err := c.Call(context.Background(), http.MethodGet, "/invoices", map[string]string{"page": "1"}, nil)
	require.NoError(t, err)

	m, ok := data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 3.0, m["Total"])

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer tok-123", reqs[0].Auth)
	assert.Contains(t, reqs[0].Query, "page=1")
}

func TestCallNullData(t *testing.T) {
	srv := fakeerp.New()
	defer srv.Close()
	srv.Stub(fakeerp.Stub{Path: "/invoices/9", Body: fakeerp.Envelope{Success: true}})

	c := newClient(t, srv, transport.Config{})
	data, err := c.Call(context.Background(), http.MethodDelete, "/invoices/9", nil, nil)
	require.NoError(t, err)
	assert.Nil(t, data, "absent Data means no payload, not an error")
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	srv := fakeerp.New()
	defer srv.Close()
	srv.Stub(fakeerp.Stub{
		Path:   "/invoices",
		Status: http.StatusUnauthorized,
		Body:   fakeerp.Rejected("token expired"),
	})

	invalidated := false
	c := newClient(t, srv, transport.Config{
		Token:            "tok-123",
		OnSessionInvalid: func() { invalidated = true },
	})

	_, err := c.Call(context.Background(), http.MethodGet, "/invoices", nil, nil)

	var authErr *transport.AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Empty(t, c.Token(), "stored credentials are cleared")
	assert.True(t, invalidated, "session-invalid hook fires")
}

func TestNotFound(t *testing.T) {
	srv := fakeerp.New()
	defer srv.Close()

	c := newClient(t, srv, transport.Config{})
	_, err := c.Call(context.Background(), http.MethodGet, "/nope", nil, nil)

	var nfErr *transport.NotFoundError
	require.ErrorAs(t, err, &nfErr)
}

func TestServerError(t *testing.T) {
	srv := fakeerp.New()
	defer srv.Close()
	srv.Stub(fakeerp.Stub{
		Path:   "/invoices",
		Status: http.StatusInternalServerError,
		Body:   fakeerp.Rejected("database unavailable"),
	})

	c := newClient(t, srv, transport.Config{})
	_, err := c.Call(context.Background(), http.MethodGet, "/invoices", nil, nil)

	var srvErr *transport.ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusInternalServerError, srvErr.Status)
	assert.Contains(t, srvErr.Error(), "database unavailable")
}

func TestMalformedResponses(t *testing.T) {
	t.Run("html where json expected", func(t *testing.T) {
		srv := fakeerp.New()
		defer srv.Close()
		srv.Stub(fakeerp.Stub{
			Path:        "/invoices",
			RawBody:     []byte("<html><body>proxy error</body></html>"),
			ContentType: "text/html",
		})

		c := newClient(t, srv, transport.Config{})
		_, err := c.Call(context.Background(), http.MethodGet, "/invoices", nil, nil)

		var malErr *transport.MalformedResponseError
		require.ErrorAs(t, err, &malErr)
	})

	t.Run("truncated json", func(t *testing.T) {
		srv := fakeerp.New()
		defer srv.Close()
		srv.Stub(fakeerp.Stub{
			Path:    "/invoices",
			RawBody: []byte(`{"Success": true, "Data": {"half`),
		})

		c := newClient(t, srv, transport.Config{})
		_, err := c.Call(context.Background(), http.MethodGet, "/invoices", nil, nil)

		var malErr *transport.MalformedResponseError
		require.ErrorAs(t, err, &malErr)
	})
}

func TestApplicationError(t *testing.T) {
	srv := fakeerp.New()
	defer srv.Close()
	srv.Stub(fakeerp.Stub{
		Path: "/invoices",
		Body: fakeerp.Rejected("invoice number already in use"),
	})

	c := newClient(t, srv, transport.Config{})
	_, err := c.Call(context.Background(), http.MethodPost, "/invoices", nil, map[string]any{})

	var appErr *transport.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "invoice number already in use", appErr.Message)
}

func TestNetworkError(t *testing.T) {
	srv := fakeerp.New()
	url := srv.URL()
	srv.Close()

	c, err := transport.New(transport.Config{BaseURL: url})
	require.NoError(t, err)

	_, err = c.Call(context.Background(), http.MethodGet, "/invoices", nil, nil)

	var netErr *transport.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestTimeout(t *testing.T) {
	srv := fakeerp.New()
	defer srv.Close()
	srv.Stub(fakeerp.Stub{
		Path:  "/slow",
		Delay: 200 * time.Millisecond,
		Body:  fakeerp.OK(nil),
	})

	c := newClient(t, srv, transport.Config{Timeout: 50 * time.Millisecond})
	_, err := c.Call(context.Background(), http.MethodGet, "/slow", nil, nil)

	var netErr *transport.NetworkError
	require.ErrorAs(t, err, &netErr, "a deadline surfaces like any other transport failure")
}

func TestCallerDeadlineOverridesDefault(t *testing.T) {
	srv := fakeerp.New()
	defer srv.Close()
	srv.Stub(fakeerp.Stub{
		Path:  "/slow",
		Delay: 200 * time.Millisecond,
		Body:  fakeerp.OK(map[string]any{"Done": true}),
	})

	c := newClient(t, srv, transport.Config{Timeout: 50 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := c.Call(ctx, http.MethodGet, "/slow", nil, nil)
	require.NoError(t, err, "a context with its own deadline is not capped by the default timeout")
	assert.NotNil(t, data)
}
