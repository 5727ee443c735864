// Package live pushes re-rendered forecasts to the page over a websocket
// while the user edits the date range.
package live

import (
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/i474232898/forecast-board/internal/display"
	"github.com/i474232898/forecast-board/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
)

// Server upgrades connections and runs one display session per connection.
type Server struct {
	forecaster display.Forecaster
	clock      clock.Clock
	window     time.Duration
	log        *logger.Logger
	upgrader   websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
}

func NewServer(f display.Forecaster, c clock.Clock, window time.Duration, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		forecaster: f,
		clock:      c,
		window:     window,
		log:        log.Named("live"),
		sessions:   make(map[string]*session),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     sameHostname,
	}
	return s
}

// Handler returns the HTTP handler serving the websocket on /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CloseAll cancels every session's pending work and closes the connections.
func (s *Server) CloseAll() {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warnw("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		id:    uuid.NewString(),
		conn:  conn,
		clock: s.clock,
	}
	log := s.log.With("session", sess.id)
	sess.orch = display.NewOrchestrator(
		s.forecaster,
		sess,
		display.NewDebouncer(s.clock, s.window),
		log,
	)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	log.Infow("session opened", "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		sess.close()
		log.Infow("session closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	for {
		var req display.RangeRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnw("read failed", "error", err)
			}
			return
		}
		sess.orch.RequestRange(req)
	}
}

type session struct {
	id    string
	conn  *websocket.Conn
	clock clock.Clock
	orch  *display.Orchestrator

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// Show writes html as one text frame, replacing the page's output region.
func (s *session) Show(html string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(s.clock.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, []byte(html))
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		s.orch.Close()
		s.conn.Close()
	})
}

// sameHostname accepts requests without an Origin header and requests whose
// Origin names the same host, on any port (the page and the socket listen on
// different ports).
func sameHostname(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host, _, err := net.SplitHostPort(r.Host)
	if err != nil {
		host = r.Host
	}
	return u.Hostname() == host
}
