// Package logstream tails the backend's live system-log feed over a
// WebSocket. Each frame is a {Success, Message, Data} envelope whose Data is
// one log entry; decoded entries are delivered on a channel until the stream
// is closed by either side.
package logstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/erpdesk/erpdesk.go/pkg/constants"
	"github.com/erpdesk/erpdesk.go/pkg/logger"
	"github.com/erpdesk/erpdesk.go/pkg/models"
	"github.com/erpdesk/erpdesk.go/pkg/wire"
)

// DefaultDialer is the gorilla dialer used when Config.Dialer is nil. It is
// the stock dialer with compression enabled.
var DefaultDialer = &gorilla.Dialer{
	Proxy:             gorilla.DefaultDialer.Proxy,
	HandshakeTimeout:  gorilla.DefaultDialer.HandshakeTimeout,
	EnableCompression: true,
}

const closeTimeout = 5 * time.Second

// Config configures a Stream.
type Config struct {
	// URL is the ws(s) endpoint of the live log feed.
	URL string
	// Token is the bearer token attached to the handshake, if any.
	Token string
	// Buffer is the entry channel capacity. Zero means 64.
	Buffer int
	// Logger receives decode warnings. Nil disables them.
	Logger logger.Logger
	// Dialer overrides DefaultDialer when set.
	Dialer *gorilla.Dialer
}

// Stream is one live tail of the system-log feed.
type Stream struct {
	conn     *gorilla.Conn
	connLock sync.Mutex
	entries  chan models.SystemLog
	closeCh  chan struct{}
	log      logger.Logger

	closeOnce sync.Once
	closeErr  error
}

type frame struct {
	Success bool            `json:"Success"`
	Message string          `json:"Message"`
	Data    json.RawMessage `json:"Data"`
}

// Connect dials the feed and starts the read loop.
func Connect(ctx context.Context, cfg Config) (*Stream, error) {
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = DefaultDialer
	}
	header := http.Header{}
	if cfg.Token != "" {
		header.Set("Authorization", "Bearer "+cfg.Token)
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, header)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	buffer := cfg.Buffer
	if buffer == 0 {
		buffer = 64
	}
	s := &Stream{
		conn:    conn,
		entries: make(chan models.SystemLog, buffer),
		closeCh: make(chan struct{}),
		log:     cfg.Logger,
	}
	go s.readLoop()
	return s, nil
}

// Entries is the live feed. The channel is closed when the stream ends;
// after that, Err reports why.
func (s *Stream) Entries() <-chan models.SystemLog {
	return s.entries
}

// Err returns the error that ended the read loop, nil after a clean close.
// An abnormal hangup matches constants.ErrStreamClosed.
func (s *Stream) Err() error {
	s.connLock.Lock()
	defer s.connLock.Unlock()
	return s.closeErr
}

// Close sends a close frame and tears the stream down. Safe to call more
// than once.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeCh)
		s.connLock.Lock()
		defer s.connLock.Unlock()
		err = s.conn.WriteControl(
			gorilla.CloseMessage,
			gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""),
			time.Now().Add(closeTimeout),
		)
		if closeErr := s.conn.Close(); err == nil {
			err = closeErr
		}
	})
	return err
}

func (s *Stream) readLoop() {
	defer close(s.entries)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			select {
			case <-s.closeCh:
				// Clean shutdown requested by Close.
			default:
				s.connLock.Lock()
				s.closeErr = fmt.Errorf("%w: %v", constants.ErrStreamClosed, err)
				s.connLock.Unlock()
				if s.log != nil {
					s.log.Warn("log stream ended", "error", err.Error())
				}
			}
			return
		}

		entry, ok := s.decode(data)
		if !ok {
			continue
		}
		select {
		case s.entries <- entry:
		case <-s.closeCh:
			return
		}
	}
}

func (s *Stream) decode(data []byte) (models.SystemLog, bool) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		if s.log != nil {
			s.log.Warn("dropping undecodable log frame", "error", err.Error())
		}
		return models.SystemLog{}, false
	}
	if !f.Success || len(f.Data) == 0 {
		return models.SystemLog{}, false
	}
	var raw any
	if err := json.Unmarshal(f.Data, &raw); err != nil {
		return models.SystemLog{}, false
	}
	m := wire.Normalize(raw)
	if m == nil {
		return models.SystemLog{}, false
	}
	return models.DecodeSystemLog(m), true
}
