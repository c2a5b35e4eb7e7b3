package render

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/angeloszaimis/statusprobe/internal/classify"
)

const streamWriteTimeout = 5 * time.Second

var streamUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(r.Host), strings.TrimSpace(u.Host))
	},
}

// StreamSink broadcasts render events to connected WebSocket observers.
type StreamSink struct {
	mutex  sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *slog.Logger
}

type streamEvent struct {
	Handle    string `json:"handle"`
	Level     string `json:"level"`
	RTTMillis int64  `json:"rtt_ms,omitempty"`
	Text      string `json:"text"`
}

func NewStreamSink(logger *slog.Logger) *StreamSink {
	return &StreamSink{
		conns:  make(map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

// Handler upgrades the request and keeps the connection registered until
// the peer goes away.
func (s *StreamSink) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := streamUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		s.add(conn)
		s.logger.Debug("Stream observer connected",
			slog.String("remote", conn.RemoteAddr().String()))

		// The read loop exists only to detect the peer closing.
		go func() {
			defer s.remove(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

func (s *StreamSink) Render(handle string, st classify.Status, displayText string) {
	event := streamEvent{
		Handle: handle,
		Level:  st.Level.String(),
		Text:   displayText,
	}
	if st.Level == classify.Up || st.Level == classify.Degraded {
		event.RTTMillis = st.RTT.Milliseconds()
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for conn := range s.conns {
		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(event); err != nil {
			conn.Close()
			delete(s.conns, conn)
		}
	}
}

// Close drops every connected observer.
func (s *StreamSink) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for conn := range s.conns {
		conn.Close()
		delete(s.conns, conn)
	}
}

func (s *StreamSink) add(conn *websocket.Conn) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *StreamSink) remove(conn *websocket.Conn) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.conns[conn]; ok {
		conn.Close()
		delete(s.conns, conn)
	}
}
