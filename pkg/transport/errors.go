package transport

import "fmt"

// AuthenticationError is raised on HTTP 401. The transport has already
// cleared its stored credentials and fired the session-invalid hook by the
// time callers see it.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Message
}

// NotFoundError is raised on HTTP 404.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "not found: " + e.Path
}

// ServerError is raised on any 5xx status.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

// MalformedResponseError is raised when the body cannot be parsed as JSON, or
// when an HTML payload arrives where JSON was expected.
type MalformedResponseError struct {
	ContentType string
	Err         error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (%s): %v", e.ContentType, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ApplicationError is a business-rule rejection: the envelope arrived intact
// but with Success=false. Message is the server-supplied text.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// NetworkError covers transport-level failures: refused connections, DNS
// failures, exceeded deadlines.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
