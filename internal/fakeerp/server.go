// Package fakeerp provides a fake ERPDesk HTTP backend for testing. It
// serves stubbed envelope responses matched by method and path, records every
// request it sees, and can inject failures: non-2xx statuses, HTML bodies,
// truncated JSON, response delays.
package fakeerp

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// Envelope mirrors the backend's response wrapper.
type Envelope struct {
	Success bool   `json:"Success"`
	Message string `json:"Message,omitempty"`
	Data    any    `json:"Data,omitempty"`
}

// Stub is one canned response. The first stub whose method and path match an
// incoming request wins; requests nothing matches get a 404 envelope.
type Stub struct {
	// Method matches exactly; empty matches any method.
	Method string
	// Path matches exactly against the request path.
	Path string
	// Match optionally narrows matching beyond method and path.
	Match func(r *http.Request) bool

	// Status defaults to 200.
	Status int
	// Body is marshaled as JSON unless RawBody is set.
	Body any
	// RawBody is written verbatim, for malformed-payload injection.
	RawBody []byte
	// ContentType defaults to application/json.
	ContentType string
	// Delay is slept before responding.
	Delay time.Duration
}

// RequestLog records one observed request.
type RequestLog struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// Server is the fake backend.
type Server struct {
	httpSrv *httptest.Server

	mu       sync.Mutex
	stubs    []Stub
	requests []RequestLog
}

// New starts a fake backend on a random local port.
func New() *Server {
	s := &Server{}
	s.httpSrv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL is the base URL of the fake backend.
func (s *Server) URL() string {
	return s.httpSrv.URL
}

// Close shuts the fake backend down.
func (s *Server) Close() {
	s.httpSrv.Close()
}

// Stub appends a canned response.
func (s *Server) Stub(st Stub) {
	s.mu.Lock()
	s.stubs = append(s.stubs, st)
	s.mu.Unlock()
}

// Requests returns a copy of every request observed so far.
func (s *Server) Requests() []RequestLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RequestLog, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns how many requests hit the given path, any path when
// empty.
func (s *Server) RequestCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == "" {
		return len(s.requests)
	}
	n := 0
	for _, r := range s.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body := make([]byte, 0)
	if r.Body != nil {
		if b, err := io.ReadAll(r.Body); err == nil {
			body = b
		}
		r.Body.Close()
	}

	s.mu.Lock()
	s.requests = append(s.requests, RequestLog{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	var matched *Stub
	for i := range s.stubs {
		st := &s.stubs[i]
		if st.Method != "" && st.Method != r.Method {
			continue
		}
		if st.Path != r.URL.Path {
			continue
		}
		if st.Match != nil && !st.Match(r) {
			continue
		}
		matched = st
		break
	}
	s.mu.Unlock()

	if matched == nil {
		writeJSON(w, http.StatusNotFound, Envelope{Success: false, Message: "no such resource"})
		return
	}

	if matched.Delay > 0 {
		time.Sleep(matched.Delay)
	}

	status := matched.Status
	if status == 0 {
		status = http.StatusOK
	}
	contentType := matched.ContentType
	if contentType == "" {
		contentType = "application/json"
	}

	if matched.RawBody != nil {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write(matched.RawBody)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(matched.Body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK wraps data in a successful envelope.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Rejected wraps a server-side business rejection.
func Rejected(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

// Values wraps items in the serializer's {"$values": [...]} convention, the
// shape real backend responses carry.
func Values(items ...any) map[string]any {
	return map[string]any{"$values": items}
}
