package logstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpdesk/erpdesk.go/pkg/constants"
	"github.com/erpdesk/erpdesk.go/pkg/logstream"
)

// feedServer upgrades incoming connections and sends each configured frame,
// then waits for the client to hang up.
type feedServer struct {
	srv    *httptest.Server
	frames []string

	mu   sync.Mutex
	auth string
}

func newFeedServer(t *testing.T, frames ...string) *feedServer {
	t.Helper()
	f := &feedServer{frames: frames}
	upgrader := gorilla.Upgrader{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.auth = r.Header.Get("Authorization")
		f.mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, frame := range f.frames {
			if err := conn.WriteMessage(gorilla.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		// Hold the connection open until the client closes it.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *feedServer) wsURL() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

func (f *feedServer) authHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auth
}

func TestStreamDeliversEntries(t *testing.T) {
	feed := newFeedServer(t,
		`{"Success": true, "Data": {"Id": 1, "Level": "Info", "Message": "user logged in"}}`,
		`{"Success": true, "Data": {"Id": 2, "Level": "Error", "Message": "export failed"}}`,
	)

	s, err := logstream.Connect(context.Background(), logstream.Config{
		URL:   feed.wsURL(),
		Token: "tok-123",
	})
	require.NoError(t, err)
	defer s.Close()

	var got []int64
	for i := 0; i < 2; i++ {
		select {
		case entry := <-s.Entries():
			got = append(got, entry.ID)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for log entry")
		}
	}
	assert.Equal(t, []int64{1, 2}, got)
	assert.Equal(t, "Bearer tok-123", feed.authHeader())
}

func TestStreamSkipsBadFrames(t *testing.T) {
	feed := newFeedServer(t,
		`not json at all`,
		`{"Success": false, "Message": "feed unavailable"}`,
		`{"Success": true, "Data": {"Id": 7, "Message": "kept"}}`,
	)

	s, err := logstream.Connect(context.Background(), logstream.Config{URL: feed.wsURL()})
	require.NoError(t, err)
	defer s.Close()

	select {
	case entry := <-s.Entries():
		assert.Equal(t, int64(7), entry.ID)
		assert.Equal(t, "kept", entry.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the surviving entry")
	}
}

func TestStreamClose(t *testing.T) {
	feed := newFeedServer(t)

	s, err := logstream.Connect(context.Background(), logstream.Config{URL: feed.wsURL()})
	require.NoError(t, err)

	require.NoError(t, s.Close())

	select {
	case _, open := <-s.Entries():
		assert.False(t, open, "entries channel closes after Close")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
	assert.NoError(t, s.Err())

	// Second Close is a no-op.
	assert.NoError(t, s.Close())
}

func TestStreamServerHangup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := gorilla.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	s, err := logstream.Connect(context.Background(), logstream.Config{
		URL: "ws" + strings.TrimPrefix(srv.URL, "http"),
	})
	require.NoError(t, err)
	defer s.Close()

	select {
	case _, open := <-s.Entries():
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for hangup")
	}
	assert.ErrorIs(t, s.Err(), constants.ErrStreamClosed)
}

func TestConnectFailure(t *testing.T) {
	_, err := logstream.Connect(context.Background(), logstream.Config{
		URL: "ws://127.0.0.1:1/ws/systemlogs",
	})
	assert.Error(t, err)
}
