package constants

import "errors"

// Errors
var (
	ErrNoBaseURL       = errors.New("base url not set")
	ErrInvalidResponse = errors.New("invalid ERPDesk response")
	ErrStaleResponse   = errors.New("stale response discarded")
	ErrStreamClosed    = errors.New("log stream closed")
)
