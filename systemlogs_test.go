package erpdesk_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	erpdesk "github.com/erpdesk/erpdesk.go"
	"github.com/erpdesk/erpdesk.go/internal/fakeerp"
	"github.com/erpdesk/erpdesk.go/pkg/logger"
	"github.com/erpdesk/erpdesk.go/pkg/models"
)

func TestSystemLogList(t *testing.T) {
	srv := fakeerp.New()
	defer srv.Close()
	srv.Stub(fakeerp.Stub{
		Path: "/systemlogs",
		Body: fakeerp.OK(map[string]any{
			"Logs": fakeerp.Values(
				map[string]any{"Id": 1, "Level": "Error", "Message": "export failed"},
				map[string]any{"Id": 2, "Level": "Info", "Message": "user logged in"},
			),
			"Paginations": map[string]any{"CurrentPage": 1, "TotalItems": 2, "TotalPages": 1},
		}),
	})

	c := newTestClient(t, srv, erpdesk.Config{})
	logs := c.SystemLogs()
	logs.SetFilters(models.Filters{"level": "Error"})

	items, err := logs.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Error", items[0].Level)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Query, "level=Error")
}

func TestClientLogStream(t *testing.T) {
	upgrader := gorilla.Upgrader{}
	var gotPath, gotAuth string
	wsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		frame := `{"Success": true, "Data": {"Id": 3, "Level": "Warn", "Message": "disk filling up"}}`
		if err := conn.WriteMessage(gorilla.TextMessage, []byte(frame)); err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer wsSrv.Close()

	c, err := erpdesk.New(erpdesk.Config{
		Endpoint: wsSrv.URL,
		Token:    "tok-123",
		Logger:   logger.New(io.Discard),
	})
	require.NoError(t, err)

	s, err := c.LogStream(context.Background())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "/ws/systemlogs", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)

	select {
	case entry := <-s.Entries():
		assert.Equal(t, int64(3), entry.ID)
		assert.Equal(t, "Warn", entry.Level)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for streamed entry")
	}
}
