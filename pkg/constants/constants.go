package constants

import "time"

const (
	// DefaultPageSize is the page size used by list calls when the caller
	// has not set one.
	DefaultPageSize = 25
	// DashboardPageSize is the smaller page used by dashboard widgets.
	DashboardPageSize = 12

	// DefaultTimeout bounds ordinary API calls.
	DefaultTimeout = 30 * time.Second
	// GenerateTimeout bounds long-running report generation calls.
	GenerateTimeout = 120 * time.Second

	// TopClientCount is the number of entries returned by top-client groupings.
	TopClientCount = 10
)

const (
	HTTPScheme            = "http"
	HTTPSecureScheme      = "https"
	WebsocketScheme       = "ws"
	WebsocketSecureScheme = "wss"
)
